package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"skillkit/internal/batch"
	"skillkit/internal/config"
	"skillkit/internal/logger"
	"skillkit/internal/pipeline"
	"skillkit/internal/render"
	"skillkit/internal/subtitles"
)

type subtitlesOptions struct {
	url       string
	lang      string
	listLangs bool
	input     string
	format    string
	output    string

	// set from flag change detection; a format left at its default can be
	// reinterpreted for track listings, an explicit one cannot
	formatChanged bool
}

func newSubtitlesCmd() *cobra.Command {
	opts := &subtitlesOptions{}

	cmd := &cobra.Command{
		Use:   "subtitles",
		Short: "Download subtitle tracks for a video",
		Long: `Download subtitle cues for a video URL, list its available tracks, or
process a file of URLs in sequence. In batch mode --output names a
directory; items that fail are reported individually and do not stop the
remaining items.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formatChanged = cmd.Flags().Changed("format")
			return runSubtitles(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "video URL to fetch subtitles for")
	cmd.Flags().StringVar(&opts.lang, "lang", "en", "subtitle track language")
	cmd.Flags().BoolVar(&opts.listLangs, "list-langs", false, "list available subtitle tracks")
	cmd.Flags().StringVar(&opts.input, "input", "", "file with one video URL per line (batch mode)")
	cmd.Flags().StringVar(&opts.format, "format", subtitles.FormatVTT, "output format: vtt, srt, table, csv, markdown")
	cmd.Flags().StringVar(&opts.output, "output", "", "output file (or directory in batch mode); absent means stdout")

	return cmd
}

func runSubtitles(cmd *cobra.Command, opts *subtitlesOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if opts.input != "" {
		return runSubtitleBatch(cmd, opts, cfg)
	}

	if opts.url == "" {
		return pipeline.InvalidArgument("--url is required (or --input for batch mode)")
	}

	videoID, err := subtitles.VideoID(opts.url)
	if err != nil {
		return err
	}

	var (
		fetcher    pipeline.Fetcher
		normalizer pipeline.Normalizer
		renderer   pipeline.Renderer
	)

	if opts.listLangs {
		// track listings are tabular; the cue formats do not apply
		format := opts.format
		if !opts.formatChanged {
			format = render.FormatTable
		} else if format == subtitles.FormatVTT || format == subtitles.FormatSRT {
			return pipeline.InvalidArgument("--list-langs produces a track listing, format %q does not apply (use table, csv, or markdown)", format)
		}
		fetcher = subtitles.NewTrackListFetcher(videoID, cfg.TimedTextBaseURL)
		normalizer = &subtitles.TrackListNormalizer{}
		renderer, err = render.ForFormat(format)
	} else {
		fetcher = subtitles.NewCueFetcher(videoID, opts.lang, cfg.TimedTextBaseURL)
		normalizer = &subtitles.CueNormalizer{}
		renderer, err = subtitles.RendererFor(opts.format)
	}
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
	defer cancel()

	ctx = logger.WithLogger(ctx, logger.G(ctx).WithField("key", fetcher.Key()))

	return pipeline.Run(ctx, fetcher, normalizer, renderer, render.SinkFor(opts.output))
}

func runSubtitleBatch(cmd *cobra.Command, opts *subtitlesOptions, cfg *config.Config) error {
	urls, err := readURLList(opts.input)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return pipeline.InvalidArgument("input file %s contains no URLs", opts.input)
	}

	renderer, err := subtitles.RendererFor(opts.format)
	if err != nil {
		return err
	}

	outDir := opts.output
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return pipeline.IOFailed(err, "failed to create output directory %s", outDir)
	}

	out := cmd.OutOrStdout()
	results := batch.Run(cmd.Context(), urls, func(ctx context.Context, rawURL string) batch.Result {
		videoID, err := subtitles.VideoID(rawURL)
		if err != nil {
			return batch.Result{Key: rawURL, Error: err}
		}

		fetcher := subtitles.NewCueFetcher(videoID, opts.lang, cfg.TimedTextBaseURL)
		target := filepath.Join(outDir, fmt.Sprintf("%s.%s.%s", videoID, opts.lang, subtitles.Extension(opts.format)))

		itemCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()

		err = pipeline.Run(itemCtx, fetcher, &subtitles.CueNormalizer{}, renderer, &render.FileSink{Path: target})
		if err != nil {
			return batch.Result{Key: fetcher.Key(), Error: err}
		}
		return batch.Result{Key: fetcher.Key(), Target: target}
	})

	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(out, "%s: ERROR - %v\n", result.Key, result.Error)
		} else {
			fmt.Fprintf(out, "%s: saved to %s\n", result.Key, result.Target)
		}
	}

	if failed := batch.Failed(results); len(failed) > 0 {
		return errors.Errorf("%d of %d items failed", len(failed), len(results))
	}
	return nil
}

// readURLList loads a batch input file: one URL per line, blank lines and
// #-comments skipped.
func readURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pipeline.IOFailed(err, "failed to open input file %s", path)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, pipeline.IOFailed(err, "failed to read input file %s", path)
	}
	return urls, nil
}
