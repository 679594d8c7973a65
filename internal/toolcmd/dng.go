package toolcmd

import "path/filepath"

// buildDNG assembles the Adobe DNG Converter invocation for one raw file.
// The converter only takes an output directory (-d); the file keeps its stem
// with a .dng suffix, which is what Job.Dest must point at.
//
// Uncompressed output (-u) is the default: Nuke cannot read the converter's
// lossless-compressed DNGs.
func buildDNG(j Job) []string {
	args := []string{j.Tool.Path}

	if j.OptBool(OptCompressed) {
		args = append(args, "-c")
	} else {
		args = append(args, "-u")
	}

	args = append(args, "-d", filepath.Dir(j.Dest), j.Source)
	return args
}
