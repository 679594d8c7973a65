package toolcmd

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Preset bundles the EXR output options of a conversion quality level.
// Debayering itself happens inside oiiotool (libraw); the preset only
// controls how the result is stored.
type Preset struct {
	Name        string
	Bitdepth    string // oiiotool -d value.
	Compression string // OpenEXR compression attribute.
}

var presets = map[string]Preset{
	"fastpreview": {Name: "fastpreview", Bitdepth: "half", Compression: "dwaa:45"},
	"normal":      {Name: "normal", Bitdepth: "half", Compression: "dwaa:30"},
	"hq":          {Name: "hq", Bitdepth: "half", Compression: "dwaa:15"},
	"ultrahq":     {Name: "ultrahq", Bitdepth: "half", Compression: "zips"},
	"scan":        {Name: "scan", Bitdepth: "half", Compression: "dwaa:15"},
}

// ParsePreset looks up a conversion preset by name.
func ParsePreset(name string) (Preset, error) {
	if p, ok := presets[name]; ok {
		return p, nil
	}
	return Preset{}, fmt.Errorf("invalid EXR preset %q (use one of %v)", name, PresetNames())
}

// PresetNames returns the accepted preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// buildEXR assembles the oiiotool invocation debayering one raw file to
// OpenEXR. Exposure shift is expressed in stops and applied as a linear
// multiplier; the preset name and colorspace label are stored as string
// attributes on the output for provenance.
func buildEXR(j Job) ([]string, error) {
	preset, err := ParsePreset(j.Opt(OptPreset, "normal"))
	if err != nil {
		return nil, err
	}

	// Keep only the color channels; libraw debayer output may carry alpha.
	args := []string{j.Tool.Path, "-i", j.Source, "--ch", "R,G,B"}

	if exposure := j.Opt(OptExposure, "0"); exposure != "0" {
		stops, err := strconv.ParseFloat(exposure, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid exposure shift %q", exposure)
		}
		if stops != 0 {
			args = append(args, "--mulc", strconv.FormatFloat(math.Pow(2, stops), 'g', 8, 64))
		}
	}

	args = append(args,
		"--attrib", "compression", preset.Compression,
		"--sattrib", "imgbatch:preset", preset.Name,
		"--sattrib", "imgbatch:colorspace", j.Opt(OptColorspace, "native"),
		"-d", preset.Bitdepth,
		"-o", j.Dest,
	)
	return args, nil
}
