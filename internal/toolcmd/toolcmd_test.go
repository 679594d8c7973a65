package toolcmd

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/lxmworks/imgbatch/internal/tools"
)

func TestBuildDNG(t *testing.T) {
	job := Job{
		Tool:   tools.Tool{Kind: tools.DNGConverter, Path: "/opt/adobe/dng-converter"},
		Source: "/in/P1000123.RW2",
		Dest:   "/out/P1000123.dng",
	}

	args, err := Build(job)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"/opt/adobe/dng-converter", "-u", "-d", "/out", "/in/P1000123.RW2"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v\nwant   %v", args, want)
	}

	job.Options = Options{OptCompressed: "true"}
	args, err = Build(job)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if args[1] != "-c" {
		t.Errorf("compressed should pass -c, got %v", args)
	}
}

func TestBuildProRes(t *testing.T) {
	job := Job{
		Tool:   tools.Tool{Kind: tools.FFmpeg, Path: "/usr/bin/ffmpeg"},
		Source: "/in/clip.mov",
		Dest:   "/out/clip.hq422.q9.mov",
		Options: Options{
			OptDataRate:  "hq422",
			OptQuality:   "9",
			OptColorTag:  "bt709",
			OptOverwrite: "true",
		},
		Extra: []string{"-an"},
	}

	args, err := Build(job)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{
		"/usr/bin/ffmpeg", "-hide_banner", "-nostdin",
		"-loglevel", "error", "-stats",
		"-y",
		"-i", "/in/clip.mov",
		"-c:v", "prores_ks",
		"-profile:v", "3",
		"-vendor", "apl0",
		"-qscale:v", "9",
		"-colorspace", "bt709",
		"-color_primaries", "bt709",
		"-color_trc", "bt709",
		"-an",
		"/out/clip.hq422.q9.mov",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v\nwant   %v", args, want)
	}
}

func TestBuildProResDefaults(t *testing.T) {
	job := Job{
		Tool:   tools.Tool{Kind: tools.FFmpeg, Path: "ffmpeg"},
		Source: "a.mov",
		Dest:   "b.mov",
	}
	args, err := Build(job)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	joined := strings.Join(args, " ")
	// s422 maps to profile 2, sRGB transfer tag, no overwrite.
	for _, frag := range []string{
		"-profile:v 2",
		"-qscale:v 10",
		"-color_trc iec61966-2-1",
		" -n ",
	} {
		if !strings.Contains(joined+" ", frag) {
			t.Errorf("args missing %q: %v", frag, args)
		}
	}
}

func TestBuildProResColorTagNone(t *testing.T) {
	job := Job{
		Tool:    tools.Tool{Kind: tools.FFmpeg, Path: "ffmpeg"},
		Source:  "a.mov",
		Dest:    "b.mov",
		Options: Options{OptColorTag: "none"},
	}
	args, err := Build(job)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, a := range args {
		if a == "-colorspace" || a == "-color_trc" {
			t.Errorf("color tag none should emit no color args: %v", args)
		}
	}
}

func TestBuildProResVerboseLoglevel(t *testing.T) {
	job := Job{
		Tool:    tools.Tool{Kind: tools.FFmpeg, Path: "ffmpeg"},
		Source:  "a.mov",
		Dest:    "b.mov",
		Options: Options{OptVerbose: "true"},
	}
	args, err := Build(job)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-loglevel info") {
		t.Errorf("verbose should keep loglevel info: %v", args)
	}
	if strings.Contains(joined, "-stats") {
		t.Errorf("verbose should not add -stats: %v", args)
	}
}

func TestBuildProResBadOptions(t *testing.T) {
	job := Job{
		Tool:    tools.Tool{Kind: tools.FFmpeg, Path: "ffmpeg"},
		Source:  "a.mov",
		Dest:    "b.mov",
		Options: Options{OptDataRate: "ludicrous"},
	}
	if _, err := Build(job); err == nil {
		t.Error("unknown datarate should fail")
	}

	job.Options = Options{OptQuality: "best"}
	if _, err := Build(job); err == nil {
		t.Error("non-numeric quality should fail")
	}
}

func TestBuildEXR(t *testing.T) {
	job := Job{
		Tool:   tools.Tool{Kind: tools.Oiiotool, Path: "/usr/bin/oiiotool"},
		Source: "/in/a.dng",
		Dest:   "/out/a.hq.native.exr",
		Options: Options{
			OptPreset:     "hq",
			OptColorspace: "native",
			OptExposure:   "2.6",
		},
	}

	args, err := Build(job)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mulc := strconv.FormatFloat(math.Pow(2, 2.6), 'g', 8, 64)
	want := []string{
		"/usr/bin/oiiotool", "-i", "/in/a.dng",
		"--ch", "R,G,B",
		"--mulc", mulc,
		"--attrib", "compression", "dwaa:15",
		"--sattrib", "imgbatch:preset", "hq",
		"--sattrib", "imgbatch:colorspace", "native",
		"-d", "half",
		"-o", "/out/a.hq.native.exr",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v\nwant   %v", args, want)
	}
}

func TestBuildEXRZeroExposure(t *testing.T) {
	job := Job{
		Tool:    tools.Tool{Kind: tools.Oiiotool, Path: "oiiotool"},
		Source:  "a.dng",
		Dest:    "a.exr",
		Options: Options{OptExposure: "0"},
	}
	args, err := Build(job)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, a := range args {
		if a == "--mulc" {
			t.Errorf("zero exposure should emit no --mulc: %v", args)
		}
	}
}

func TestBuildEXRBadPreset(t *testing.T) {
	job := Job{
		Tool:    tools.Tool{Kind: tools.Oiiotool, Path: "oiiotool"},
		Source:  "a.dng",
		Dest:    "a.exr",
		Options: Options{OptPreset: "gigantic"},
	}
	if _, err := Build(job); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestBuildUnknownTool(t *testing.T) {
	job := Job{Tool: tools.Tool{Kind: "paintbrush", Path: "p"}}
	if _, err := Build(job); err == nil {
		t.Error("unknown tool kind should fail")
	}
}

func TestBuildDeterministic(t *testing.T) {
	job := Job{
		Tool:   tools.Tool{Kind: tools.FFmpeg, Path: "ffmpeg"},
		Source: "a.mov",
		Dest:   "b.mov",
		Options: Options{
			OptDataRate: "lt422",
			OptQuality:  "11",
			OptColorTag: "srgb",
		},
		Extra: []string{"-map", "0"},
	}
	first, err := Build(job)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build(job)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical jobs produced different args:\n%v\n%v", first, second)
	}
}

func TestParseDataRate(t *testing.T) {
	tests := []struct {
		name string
		want DataRate
	}{
		{"proxy422", Proxy422},
		{"lt422", LT422},
		{"s422", Standard422},
		{"hq422", HQ422},
		{"s4444", S4444},
	}
	for _, tt := range tests {
		got, err := ParseDataRate(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("ParseDataRate(%q) = %v, %v", tt.name, got, err)
		}
		if got.String() != tt.name {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tt.name)
		}
	}
	if _, err := ParseDataRate("422"); err == nil {
		t.Error("ParseDataRate(\"422\") expected error")
	}
}

func TestPresetTable(t *testing.T) {
	tests := []struct {
		name        string
		compression string
	}{
		{"fastpreview", "dwaa:45"},
		{"normal", "dwaa:30"},
		{"hq", "dwaa:15"},
		{"ultrahq", "zips"},
		{"scan", "dwaa:15"},
	}
	for _, tt := range tests {
		p, err := ParsePreset(tt.name)
		if err != nil {
			t.Errorf("ParsePreset(%q): %v", tt.name, err)
			continue
		}
		if p.Compression != tt.compression || p.Bitdepth != "half" {
			t.Errorf("ParsePreset(%q) = %+v", tt.name, p)
		}
	}
}
