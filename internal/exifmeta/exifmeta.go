// Package exifmeta reads image metadata. The full tag set comes from a
// single exiftool JSON call; for plain JPEG/TIFF files a lightweight
// in-process reader extracts the capture time without spawning a subprocess.
package exifmeta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata is the grouped tag table: group name ("EXIF", "File", "XMP",
// "MakerNotes", ...) to tag name to printed value.
type Metadata map[string]map[string]string

// Get returns the value for group/tag and whether it is present.
func (m Metadata) Get(group, tag string) (string, bool) {
	tags, ok := m[group]
	if !ok {
		return "", false
	}
	v, ok := tags[tag]
	return v, ok
}

// EXIF returns the EXIF group (nil when absent).
func (m Metadata) EXIF() map[string]string { return m["EXIF"] }

// Read runs one exiftool JSON call against imagePath and returns the parsed
// grouped metadata. The flag set asks for group prefixes, duplicate and
// unknown tags, no print conversion, and minor-error tolerance.
func Read(ctx context.Context, exiftoolPath, imagePath string) (Metadata, error) {
	cmd := exec.CommandContext(ctx, exiftoolPath,
		"-G", "-a", "-u", "-n", "-m", "-sort", "-json",
		imagePath,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("exiftool %q: %w", imagePath, err)
	}
	return ParseJSON(out)
}

// ParseJSON converts raw exiftool -json output into grouped Metadata.
// Exported for testing without a real exiftool binary.
func ParseJSON(data []byte) (Metadata, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse exiftool JSON: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("exiftool returned no objects")
	}

	md := make(Metadata)
	for key, value := range raw[0] {
		group, tag := "General", key
		if idx := strings.Index(key, ":"); idx > 0 {
			group, tag = key[:idx], key[idx+1:]
		}
		if md[group] == nil {
			md[group] = make(map[string]string)
		}
		md[group][tag] = printValue(value)
	}
	return md, nil
}

// printValue renders a decoded JSON value the way exiftool printed it:
// numbers keep their literal form, arrays are comma-joined.
func printValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case []interface{}:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = printValue(e)
		}
		return strings.Join(parts, ",")
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// CaptureTime extracts the capture timestamp of a JPEG or TIFF file using
// the in-process EXIF reader. Returns an error for files without EXIF data.
func CaptureTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, fmt.Errorf("exif decode %q: %w", path, err)
	}
	return x.DateTime()
}
