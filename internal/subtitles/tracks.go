package subtitles

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"skillkit/internal/pipeline"
	"skillkit/internal/ratelimit"
	"skillkit/internal/record"
)

// TrackColumns is the fixed schema for track listing records.
var TrackColumns = []string{"language", "name", "kind"}

// Track describes one available subtitle track for a video.
type Track struct {
	Language string `json:"language"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
}

// TrackListResponse represents the timedtext API response for a track listing
type TrackListResponse struct {
	Tracks []Track `json:"tracks"`
}

// TrackListFetcher fetches the available subtitle tracks for a video
type TrackListFetcher struct {
	videoID string
	client  *resty.Client
}

// NewTrackListFetcher creates a new track listing fetcher
func NewTrackListFetcher(videoID, baseURL string) *TrackListFetcher {
	return &TrackListFetcher{
		videoID: videoID,
		client:  pipeline.NewHTTPClient(baseURL),
	}
}

// Fetch retrieves the track list
func (f *TrackListFetcher) Fetch(ctx context.Context) (pipeline.RawResult, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APITimedText); err != nil {
		return nil, pipeline.FetchFailed(err, "rate limiter interrupted for %s", f.videoID)
	}

	var result TrackListResponse

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"video": f.videoID,
		}).
		SetResult(&result).
		Get("/tracks")

	if err != nil {
		return nil, pipeline.FetchFailed(err, "failed to fetch track list for %s", f.videoID)
	}

	if !resp.IsSuccess() {
		return nil, pipeline.ClassifyHTTPStatus(resp.StatusCode())
	}

	if len(result.Tracks) == 0 {
		return nil, pipeline.FetchFailed(nil, "no subtitle tracks available for %s, the video may be unavailable", f.videoID)
	}

	return &result, nil
}

// Key returns the hierarchical key for this fetcher
func (f *TrackListFetcher) Key() string {
	return fmt.Sprintf("skill:timedtext:%s:tracks", f.videoID)
}

// TrackListNormalizer reshapes a track listing into a table, preserving the
// order the source reports.
type TrackListNormalizer struct{}

// Normalize implements pipeline.Normalizer
func (n *TrackListNormalizer) Normalize(raw pipeline.RawResult) (*record.Record, error) {
	list, ok := raw.(*TrackListResponse)
	if !ok {
		return nil, pipeline.SchemaViolation("expected track list response, got %T", raw)
	}

	table := record.NewTable(TrackColumns...)
	for _, t := range list.Tracks {
		if t.Language == "" {
			return nil, pipeline.SchemaViolation("track listing contains an entry without a language")
		}
		if err := table.Append(t.Language, t.Name, t.Kind); err != nil {
			return nil, pipeline.SchemaViolation("%v", err)
		}
	}

	return record.Tabular("Subtitle tracks", table), nil
}
