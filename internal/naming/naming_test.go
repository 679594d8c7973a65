package naming

import "testing"

func TestStem(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/media/raw/P1000123.RW2", "P1000123"},
		{"clip.mov", "clip"},
		{"/a/b/archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
		{"/dir/.hidden", ".hidden"},
		{".exiftool_config", ".exiftool_config"},
	}
	for _, tt := range tests {
		if got := Stem(tt.in); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandTokens(t *testing.T) {
	values := map[string]string{
		"input_filestem": "P1000123",
		"preset":         "normal",
		"colorspace":     "@native",
	}

	tests := []struct {
		template, want string
	}{
		{
			"{input_filestem}.{preset}.{colorspace}.exr",
			"P1000123.normal.native.exr",
		},
		{
			"{input_filestem}_{preset}.exr",
			"P1000123_normal.exr",
		},
		{
			// Unknown tokens survive so typos are visible in the output name.
			"{input_filestem}.{presett}.exr",
			"P1000123.{presett}.exr",
		},
		{
			"fixed-name.exr",
			"fixed-name.exr",
		},
	}
	for _, tt := range tests {
		if got := ExpandTokens(tt.template, values); got != tt.want {
			t.Errorf("ExpandTokens(%q) = %q, want %q", tt.template, got, tt.want)
		}
	}
}

func TestExpandTokensSanitizesValues(t *testing.T) {
	got := ExpandTokens("{colorspace}.exr", map[string]string{
		"colorspace": "aces/rec709",
	})
	if got != "aces-rec709.exr" {
		t.Errorf("ExpandTokens = %q", got)
	}
}
