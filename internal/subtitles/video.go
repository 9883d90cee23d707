package subtitles

import (
	"net/url"
	"strings"

	"skillkit/internal/pipeline"
)

// VideoID extracts the video identifier from a watch URL. Supported shapes:
// youtube.com/watch?v=ID, youtu.be/ID, and bare IDs.
func VideoID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", pipeline.InvalidArgument("video URL is empty")
	}

	// Bare identifiers pass through
	if !strings.Contains(rawURL, "/") && !strings.Contains(rawURL, ".") {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", pipeline.InvalidArgument("invalid video URL %q", rawURL)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return id, nil
		}
		// Shorts and embeds carry the id in the path
		for _, prefix := range []string{"/shorts/", "/embed/"} {
			if strings.HasPrefix(u.Path, prefix) {
				if id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/"); id != "" {
					return id, nil
				}
			}
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	}

	return "", pipeline.InvalidArgument("could not extract a video id from %q", rawURL)
}
