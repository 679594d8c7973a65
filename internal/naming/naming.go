// Package naming builds destination file names from {token} templates.
//
// Templates come from the --name flags; tokens carry the conversion
// parameters so that re-runs with different settings never collide:
//
//	{input_filestem}.{preset}.{colorspace}.exr
//	{input_filestem}.{datarate}.q{quality}.mov
package naming

import (
	"path/filepath"
	"strings"
)

// Stem returns the file name without directory or extension. Dotfiles have
// no extension to strip; for them the whole name is the stem.
func Stem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// ExpandTokens replaces every {key} occurrence in template with its value.
// Unknown tokens are left untouched so a typo shows up in the output name
// instead of silently vanishing. Values are sanitized for filename use.
func ExpandTokens(template string, values map[string]string) string {
	out := template
	for k, v := range values {
		out = strings.ReplaceAll(out, "{"+k+"}", sanitize(v))
	}
	return out
}

// sanitize strips characters that are path separators or markers from token
// values (e.g. the "@native" colorspace label becomes "native").
func sanitize(v string) string {
	v = strings.TrimPrefix(v, "@")
	v = strings.ReplaceAll(v, "/", "-")
	v = strings.ReplaceAll(v, "\\", "-")
	return v
}
