package layout

// Mask is a 64-bit channel bitmask using the standard speaker bit values.
type Mask uint64

// Individual speaker channels.
const (
	FrontLeft          Mask = 0x1
	FrontRight         Mask = 0x2
	FrontCenter        Mask = 0x4
	LowFrequency       Mask = 0x8
	BackLeft           Mask = 0x10
	BackRight          Mask = 0x20
	FrontLeftOfCenter  Mask = 0x40
	FrontRightOfCenter Mask = 0x80
	BackCenter         Mask = 0x100
	SideLeft           Mask = 0x200
	SideRight          Mask = 0x400
	TopCenter          Mask = 0x800
	TopFrontLeft       Mask = 0x1000
	TopFrontCenter     Mask = 0x2000
	TopFrontRight      Mask = 0x4000
	TopBackLeft        Mask = 0x8000
	TopBackCenter      Mask = 0x10000
	TopBackRight       Mask = 0x20000
	WideLeft           Mask = 0x80000000
	WideRight          Mask = 0x100000000
)

// Named layout combinations.
const (
	Mono           = FrontCenter
	Stereo         = FrontLeft | FrontRight
	Layout2Point1  = Stereo | LowFrequency
	Layout21       = Stereo | BackCenter
	Surround       = Stereo | FrontCenter
	Layout3Point1  = Surround | LowFrequency
	Layout4Point0  = Surround | BackCenter
	Layout4Point1  = Layout4Point0 | LowFrequency
	Layout22       = Stereo | SideLeft | SideRight
	Quad           = Stereo | BackLeft | BackRight
	Layout5Point0  = Surround | SideLeft | SideRight
	Layout5Point1  = Layout5Point0 | LowFrequency
	Layout5Point0B = Surround | BackLeft | BackRight
	Layout5Point1B = Layout5Point0B | LowFrequency
	Layout6Point0  = Layout5Point0 | BackCenter
	Layout6Point0F = Layout22 | FrontLeftOfCenter | FrontRightOfCenter
	Hexagonal      = Layout5Point0B | BackCenter
	Layout6Point1  = Layout5Point1 | BackCenter
	Layout6Point1B = Layout5Point1B | BackCenter
	Layout6Point1F = Layout6Point0F | LowFrequency
	Layout7Point0  = Layout5Point0 | BackLeft | BackRight
	Layout7Point0F = Layout5Point0 | FrontLeftOfCenter | FrontRightOfCenter
	Layout7Point1  = Layout5Point1 | BackLeft | BackRight
	Layout7Point1W = Layout5Point1 | FrontLeftOfCenter | FrontRightOfCenter
	Layout7Point1B = Layout5Point1B | FrontLeftOfCenter | FrontRightOfCenter
	Octagonal      = Layout5Point0 | BackLeft | BackCenter | BackRight
)

// names maps ffprobe's printed channel layout names to masks, mirroring the
// demuxer's canonical layout table.
var names = map[string]Mask{
	"mono":           Mono,
	"stereo":         Stereo,
	"2.1":            Layout2Point1,
	"3.0":            Surround,
	"3.0(back)":      Layout21,
	"4.0":            Layout4Point0,
	"quad":           Quad,
	"quad(side)":     Layout22,
	"3.1":            Layout3Point1,
	"5.0":            Layout5Point0B,
	"5.0(side)":      Layout5Point0,
	"4.1":            Layout4Point1,
	"5.1":            Layout5Point1B,
	"5.1(side)":      Layout5Point1,
	"6.0":            Layout6Point0,
	"6.0(front)":     Layout6Point0F,
	"hexagonal":      Hexagonal,
	"6.1":            Layout6Point1,
	"6.1(back)":      Layout6Point1B,
	"6.1(front)":     Layout6Point1F,
	"7.0":            Layout7Point0,
	"7.0(front)":     Layout7Point0F,
	"7.1":            Layout7Point1,
	"7.1(wide)":      Layout7Point1B,
	"7.1(wide-side)": Layout7Point1W,
	"octagonal":      Octagonal,
}

// ParseName decodes an ffprobe channel layout name into its mask. The second
// return value is false when the name is absent or unrecognized.
func ParseName(name string) (Mask, bool) {
	mask, ok := names[normalizeName(name)]
	return mask, ok
}
