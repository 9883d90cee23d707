package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"skillkit/internal/config"
	"skillkit/internal/render"
	"skillkit/internal/skill"
)

type skillsOptions struct {
	format string
	output string
}

func newSkillsCmd() *cobra.Command {
	opts := &skillsOptions{}

	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List discovered skill packages",
		Long:  "Scan the configured skill directories for SKILL.md manifests and list them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSkills(opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", render.FormatTable, "output format: table, csv, markdown")
	cmd.Flags().StringVar(&opts.output, "output", "", "write output to file instead of stdout")

	return cmd
}

func runSkills(opts *skillsOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	discovery := skill.NewDiscovery(skill.WithSkillDirs(cfg.SkillDirs...))
	manifests, err := discovery.Discover()
	if err != nil {
		return err
	}

	rec, err := skill.ListRecord(manifests)
	if err != nil {
		return err
	}

	renderer, err := render.ForFormat(opts.format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, rec); err != nil {
		return err
	}
	return render.SinkFor(opts.output).Commit(buf.Bytes())
}
