package encode

// SourcePipeArgs builds the ffmpeg argument list that turns raw container
// data arriving on stdin into a yuv4mpeg stream on stdout. Caller-supplied
// filter params sit between input and output so they can rescale or crop
// before the pixel format is pinned.
func SourcePipeArgs(params []string, pixelFormat string) []string {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", "-",
	}
	args = append(args, params...)
	return append(args,
		"-pix_fmt", pixelFormat,
		"-strict", "-1",
		"-f", "yuv4mpegpipe",
		"-",
	)
}
