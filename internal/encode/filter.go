package encode

import (
	"path/filepath"
	"runtime"
	"strings"
)

// EscapeFilterPath prepares a file path for embedding inside an ffmpeg
// filter expression. Filter graphs treat ':', '[', ']' and ',' as syntax,
// so those are backslash-escaped. On Windows the path is first made
// absolute and its separators normalized to forward slashes, since drive
// letters would otherwise read as filter option delimiters.
func EscapeFilterPath(path string) string {
	if runtime.GOOS == "windows" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		path = strings.ReplaceAll(path, `\`, "/")
		path = strings.ReplaceAll(path, ":", `\\:`)
	}
	replacer := strings.NewReplacer(
		"[", `\[`,
		"]", `\]`,
		",", `\,`,
	)
	return replacer.Replace(path)
}
