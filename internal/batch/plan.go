package batch

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/lxmworks/imgbatch/internal/config"
	"github.com/lxmworks/imgbatch/internal/naming"
	"github.com/lxmworks/imgbatch/internal/toolcmd"
	"github.com/lxmworks/imgbatch/internal/tools"
)

// PlanJobs builds one conversion job per discovered file, with the
// destination name and tool options derived from the active workflow's
// configuration. Recursive discovery flattens into one output directory, so
// sources with equal stems would collide; colliding EXR/ProRes destinations
// are disambiguated with a _dupN suffix. The DNG converter names its output
// after the source stem itself, so a DNG collision cannot be renamed away
// and fails the plan instead. Planning checks nothing on disk.
func PlanJobs(cfg *config.Config, tool tools.Tool, files []string) ([]toolcmd.Job, error) {
	resolver := naming.NewCollisionResolver()
	jobs := make([]toolcmd.Job, 0, len(files))
	for _, src := range files {
		job := planJob(cfg, tool, src)
		resolved := resolver.Resolve(job.Dest)
		if resolved != job.Dest {
			if cfg.Command == config.CommandDNG {
				return nil, fmt.Errorf(
					"duplicate destination %s (source %s): the DNG converter names outputs by source stem; rename the source or convert the subdirectories separately",
					job.Dest, src)
			}
			job.Dest = resolved
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func planJob(cfg *config.Config, tool tools.Tool, src string) toolcmd.Job {
	stem := naming.Stem(src)

	switch cfg.Command {
	case config.CommandDNG:
		return toolcmd.Job{
			Tool:   tool,
			Source: src,
			Dest:   filepath.Join(cfg.OutputDir, stem+".dng"),
			Options: toolcmd.Options{
				toolcmd.OptCompressed: strconv.FormatBool(cfg.DNGCompressed),
			},
		}

	case config.CommandEXR:
		name := naming.ExpandTokens(cfg.EXRName, map[string]string{
			"input_filestem": stem,
			"preset":         cfg.EXRPreset,
			"colorspace":     cfg.EXRColorspace,
		})
		return toolcmd.Job{
			Tool:   tool,
			Source: src,
			Dest:   filepath.Join(cfg.OutputDir, name),
			Options: toolcmd.Options{
				toolcmd.OptPreset:     cfg.EXRPreset,
				toolcmd.OptColorspace: cfg.EXRColorspace,
				toolcmd.OptExposure:   strconv.FormatFloat(cfg.ExposureShift, 'g', -1, 64),
			},
		}

	case config.CommandProRes:
		name := naming.ExpandTokens(cfg.ProResName, map[string]string{
			"input_filestem": stem,
			"datarate":       cfg.ProResDataRate,
			"quality":        strconv.Itoa(cfg.ProResQuality),
		})
		return toolcmd.Job{
			Tool:   tool,
			Source: src,
			Dest:   filepath.Join(cfg.OutputDir, name),
			Options: toolcmd.Options{
				toolcmd.OptDataRate:  cfg.ProResDataRate,
				toolcmd.OptQuality:   strconv.Itoa(cfg.ProResQuality),
				toolcmd.OptColorTag:  string(cfg.ColorTag),
				toolcmd.OptOverwrite: strconv.FormatBool(!cfg.SkipExisting),
				toolcmd.OptVerbose:   strconv.FormatBool(cfg.Verbose),
			},
			Extra: cfg.ExtraArgs,
		}
	}

	return toolcmd.Job{Tool: tool, Source: src}
}
