package subtitles

import (
	"context"
	"fmt"
	"strings"

	"resty.dev/v3"

	"skillkit/internal/pipeline"
	"skillkit/internal/ratelimit"
	"skillkit/internal/record"
)

// CueColumns is the fixed schema for cue records.
var CueColumns = []string{"start", "end", "text"}

// TrackPayload holds the raw WebVTT document for one track.
type TrackPayload struct {
	VideoID  string
	Language string
	VTT      string
}

// CueFetcher downloads the WebVTT payload for one subtitle track
type CueFetcher struct {
	videoID  string
	language string
	client   *resty.Client
}

// NewCueFetcher creates a new cue fetcher for a video and track language
func NewCueFetcher(videoID, language, baseURL string) *CueFetcher {
	return &CueFetcher{
		videoID:  videoID,
		language: language,
		client:   pipeline.NewHTTPClient(baseURL),
	}
}

// Fetch retrieves the raw WebVTT payload
func (f *CueFetcher) Fetch(ctx context.Context) (pipeline.RawResult, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APITimedText); err != nil {
		return nil, pipeline.FetchFailed(err, "rate limiter interrupted for %s", f.videoID)
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"video": f.videoID,
			"lang":  f.language,
			"fmt":   "vtt",
		}).
		Get("/track")

	if err != nil {
		return nil, pipeline.FetchFailed(err, "failed to fetch %s subtitles for %s", f.language, f.videoID)
	}

	if !resp.IsSuccess() {
		return nil, pipeline.ClassifyHTTPStatus(resp.StatusCode())
	}

	body := resp.String()
	if strings.TrimSpace(body) == "" {
		return nil, pipeline.FetchFailed(nil, "empty subtitle payload for %s (%s), the track may be unavailable", f.videoID, f.language)
	}

	return &TrackPayload{VideoID: f.videoID, Language: f.language, VTT: body}, nil
}

// Key returns the hierarchical key for this fetcher
func (f *CueFetcher) Key() string {
	return fmt.Sprintf("skill:timedtext:%s:%s", f.videoID, f.language)
}

// CueNormalizer parses the WebVTT payload into a cue table. Cue order and
// timestamp text match the payload exactly.
type CueNormalizer struct{}

// Normalize implements pipeline.Normalizer
func (n *CueNormalizer) Normalize(raw pipeline.RawResult) (*record.Record, error) {
	payload, ok := raw.(*TrackPayload)
	if !ok {
		return nil, pipeline.SchemaViolation("expected track payload, got %T", raw)
	}

	cues, err := ParseVTT(payload.VTT)
	if err != nil {
		return nil, err
	}

	table := record.NewTable(CueColumns...)
	for _, cue := range cues {
		if err := table.Append(cue.Start, cue.End, cue.Text); err != nil {
			return nil, pipeline.SchemaViolation("%v", err)
		}
	}

	name := fmt.Sprintf("Subtitles: %s (%s)", payload.VideoID, payload.Language)
	return record.Tabular(name, table), nil
}
