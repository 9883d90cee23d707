package cli

import (
	"context"

	"github.com/spf13/cobra"

	"skillkit/internal/docconv"
	"skillkit/internal/logger"
	"skillkit/internal/pipeline"
	"skillkit/internal/render"
)

type convertOptions struct {
	input  string
	output string
}

func newConvertCmd() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an HTML document to Markdown",
		Long:  "Convert a local HTML file or an http(s) URL to Markdown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "HTML file path or URL to convert (required)")
	cmd.Flags().StringVar(&opts.output, "output", "", "write output to file instead of stdout")

	return cmd
}

func runConvert(ctx context.Context, opts *convertOptions) error {
	if opts.input == "" {
		return pipeline.InvalidArgument("--input is required")
	}

	fetcher := docconv.NewDocumentFetcher(opts.input)

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	ctx = logger.WithLogger(ctx, logger.G(ctx).WithField("key", fetcher.Key()))

	return pipeline.Run(ctx, fetcher, &docconv.MarkdownNormalizer{}, &render.MarkdownRenderer{}, render.SinkFor(opts.output))
}
