package subtitles

import (
	"fmt"
	"io"
	"strings"

	"skillkit/internal/pipeline"
	"skillkit/internal/record"
	"skillkit/internal/render"
)

// Subtitle-specific format names, accepted by --format alongside the
// generic ones.
const (
	FormatVTT = "vtt"
	FormatSRT = "srt"
)

// RendererFor resolves a format name for cue records, handing generic
// formats to the shared renderers.
func RendererFor(format string) (pipeline.Renderer, error) {
	switch format {
	case FormatVTT:
		return &VTTRenderer{}, nil
	case FormatSRT:
		return &SRTRenderer{}, nil
	case render.FormatTable, render.FormatCSV, render.FormatMarkdown:
		return render.ForFormat(format)
	default:
		return nil, pipeline.InvalidArgument("unknown subtitle format %q (supported: vtt, srt, table, csv, markdown)", format)
	}
}

// Extension returns the output filename extension for a subtitle format.
func Extension(format string) string {
	switch format {
	case render.FormatCSV:
		return "csv"
	case render.FormatMarkdown:
		return "md"
	case FormatSRT:
		return "srt"
	case render.FormatTable:
		return "txt"
	default:
		return "vtt"
	}
}

// cueRows validates that a record carries the cue schema.
func cueRows(rec *record.Record) ([][]string, error) {
	if rec.Table == nil || len(rec.Table.Columns) != len(CueColumns) {
		return nil, pipeline.InvalidArgument("record %q is not a cue table", rec.Name)
	}
	for i, c := range CueColumns {
		if rec.Table.Columns[i] != c {
			return nil, pipeline.InvalidArgument("record %q is not a cue table", rec.Name)
		}
	}
	return rec.Table.Rows, nil
}

// VTTRenderer writes a cue record back out as a WebVTT document with the
// original timestamps.
type VTTRenderer struct{}

// Render implements pipeline.Renderer
func (r *VTTRenderer) Render(w io.Writer, rec *record.Record) error {
	rows, err := cueRows(rec)
	if err != nil {
		return err
	}

	fmt.Fprint(w, "WEBVTT\n\n")
	for _, row := range rows {
		fmt.Fprintf(w, "%s --> %s\n%s\n\n", row[0], row[1], row[2])
	}
	return nil
}

// SRTRenderer writes a cue record as SubRip: numbered cues with
// comma-separated milliseconds in the timestamps.
type SRTRenderer struct{}

// Render implements pipeline.Renderer
func (r *SRTRenderer) Render(w io.Writer, rec *record.Record) error {
	rows, err := cueRows(rec)
	if err != nil {
		return err
	}

	for i, row := range rows {
		fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n", i+1, srtTimestamp(row[0]), srtTimestamp(row[1]), row[2])
	}
	return nil
}

// srtTimestamp converts a WebVTT timestamp to SubRip form: the millisecond
// separator becomes a comma and a missing hours field is added.
func srtTimestamp(ts string) string {
	ts = strings.Replace(ts, ".", ",", 1)
	if strings.Count(ts, ":") == 1 {
		ts = "00:" + ts
	}
	return ts
}
