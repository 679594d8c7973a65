package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseCommand(t *testing.T) {
	for _, name := range []string{"dng", "exr", "prores", "mosaic", "check"} {
		cmd, err := ParseCommand(name)
		if err != nil {
			t.Errorf("ParseCommand(%q) unexpected error: %v", name, err)
		}
		if string(cmd) != name {
			t.Errorf("ParseCommand(%q) = %q", name, cmd)
		}
	}
	if _, err := ParseCommand("wav"); err == nil {
		t.Error("ParseCommand(\"wav\") expected error")
	}
}

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/media/raw/", "/media/raw"},
		{"/media/raw///", "/media/raw"},
		{"/media/raw", "/media/raw"},
		{"/", "/"},
		{"relative/dir/", "relative/dir"},
	}
	for _, tt := range tests {
		if got := NormalizeDirArg(tt.in); got != tt.want {
			t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeExtensions(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"rw2,cr2", []string{".rw2", ".cr2"}},
		{".RW2, Cr2 ", []string{".rw2", ".cr2"}},
		{"mov", []string{".mov"}},
		{"mov,,mp4", []string{".mov", ".mp4"}},
	}
	for _, tt := range tests {
		if got := NormalizeExtensions(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NormalizeExtensions(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	base := func(cmd Command) Config {
		cfg := DefaultConfig()
		cfg.Command = cmd
		commandDefaults(&cfg)
		cfg.InputDir = "/in"
		cfg.OutputDir = "/out"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "dng defaults pass",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing output dir",
			mutate:  func(c *Config) { c.OutputDir = "" },
			wantErr: "input_dir and output_dir",
		},
		{
			name:    "empty extension list",
			mutate:  func(c *Config) { c.Extensions = nil },
			wantErr: "--ext",
		},
		{
			name:    "zero jobs",
			mutate:  func(c *Config) { c.Jobs = 0 },
			wantErr: "--jobs",
		},
		{
			name:    "bad color mode",
			mutate:  func(c *Config) { c.ColorMode = "sometimes" },
			wantErr: "color mode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(CommandDNG)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}

	t.Run("prores quality range", func(t *testing.T) {
		cfg := base(CommandProRes)
		cfg.ProResQuality = 32
		if err := cfg.Validate(); err == nil {
			t.Error("quality 32 should fail")
		}
		cfg.ProResQuality = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("quality 0 should pass: %v", err)
		}
	})

	t.Run("exr bad preset", func(t *testing.T) {
		cfg := base(CommandEXR)
		cfg.EXRPreset = "giant"
		if err := cfg.Validate(); err == nil {
			t.Error("unknown preset should fail")
		}
	})

	t.Run("mosaic scale range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Command = CommandMosaic
		cfg.MosaicOutput = "out.jpg"
		cfg.MosaicInputs = []string{"a.jpg"}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("mosaic defaults should pass: %v", err)
		}
		cfg.MosaicScale = 150
		if err := cfg.Validate(); err == nil {
			t.Error("scale over 100 should fail")
		}
	})

	t.Run("check needs nothing", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Command = CommandCheck
		if err := cfg.Validate(); err != nil {
			t.Errorf("check should pass: %v", err)
		}
	})
}

func TestValidatePaths(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		in, out string
		wantErr bool
	}{
		{"/media/raw", "/media/dng", false},
		{"/media/raw", "/media/raw/dng", true},
		{"/media/raw", "/media/raw", true},
		{"/media/raw", "/media/rawdng", false},
	}
	for _, tt := range tests {
		err := cfg.ValidatePaths(tt.in, tt.out)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePaths(%q, %q) = %v, wantErr %v", tt.in, tt.out, err, tt.wantErr)
		}
	}
}
