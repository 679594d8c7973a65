package toolcmd

import (
	"fmt"
	"sort"
	"strconv"
)

// DataRate is the ProRes flavor, mapped straight onto prores_ks -profile:v
// values.
type DataRate int

const (
	Proxy422 DataRate = iota // ~45 Mbps
	LT422                    // ~102 Mbps
	Standard422              // ~147 Mbps
	HQ422                    // ~220 Mbps
	S4444                    // ~300 Mbps
)

var dataRateNames = map[string]DataRate{
	"proxy422": Proxy422,
	"lt422":    LT422,
	"s422":     Standard422,
	"hq422":    HQ422,
	"s4444":    S4444,
}

// ParseDataRate maps a flavor name to its DataRate.
func ParseDataRate(name string) (DataRate, error) {
	if d, ok := dataRateNames[name]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("invalid ProRes datarate %q (use one of %v)", name, DataRateNames())
}

// DataRateNames returns the accepted flavor names, sorted.
func DataRateNames() []string {
	names := make([]string, 0, len(dataRateNames))
	for n := range dataRateNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (d DataRate) String() string {
	for n, v := range dataRateNames {
		if v == d {
			return n
		}
	}
	return "unknown"
}

// ApproxMbps returns the nominal 1080p data rate for help text.
func (d DataRate) ApproxMbps() int {
	switch d {
	case Proxy422:
		return 45
	case LT422:
		return 102
	case Standard422:
		return 147
	case HQ422:
		return 220
	case S4444:
		return 300
	}
	return 0
}

// colorTagArgs returns the ffmpeg flags that tag the output stream with the
// given encoding, per the ASWF web color preservation guidance. The sRGB and
// BT.709 variants differ only in the transfer characteristic.
func colorTagArgs(tag string) []string {
	switch tag {
	case "srgb":
		return []string{
			"-colorspace", "bt709",
			"-color_primaries", "bt709",
			"-color_trc", "iec61966-2-1",
		}
	case "bt709":
		return []string{
			"-colorspace", "bt709",
			"-color_primaries", "bt709",
			"-color_trc", "bt709",
		}
	}
	return nil
}

// buildProRes assembles the ffmpeg invocation converting one video file to
// Apple ProRes via prores_ks (10-bit on non-Apple platforms).
func buildProRes(j Job) ([]string, error) {
	rate, err := ParseDataRate(j.Opt(OptDataRate, "s422"))
	if err != nil {
		return nil, err
	}
	quality := j.Opt(OptQuality, "10")
	if _, err := strconv.Atoi(quality); err != nil {
		return nil, fmt.Errorf("invalid ProRes quality %q", quality)
	}

	args := []string{j.Tool.Path, "-hide_banner", "-nostdin"}

	if j.OptBool(OptVerbose) {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error", "-stats")
	}

	// Overwrite policy is decided by the batch driver; -n makes ffmpeg fail
	// instead of prompting should a destination appear mid-run.
	if j.OptBool(OptOverwrite) {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}

	args = append(args,
		"-i", j.Source,
		"-c:v", "prores_ks",
		"-profile:v", strconv.Itoa(int(rate)),
		"-vendor", "apl0",
		"-qscale:v", quality,
	)

	args = append(args, colorTagArgs(j.Opt(OptColorTag, "srgb"))...)
	args = append(args, j.Extra...)
	args = append(args, j.Dest)
	return args, nil
}
