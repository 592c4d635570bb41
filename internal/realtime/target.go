package realtime

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// wsPathPrefix is the venue stream mount point on the dashboard API.
const wsPathPrefix = "/api/v1/ws/venue/"

// Target builds the connection URL for cfg: the venue stream endpoint
// under the configured origin, with the channel list as one comma-joined
// query parameter. http and https schemes are mapped to ws and wss so
// callers can pass the dashboard origin unchanged. In token auth mode the
// token rides along as a query parameter.
func Target(cfg Config) (string, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", ErrMissingBaseURL
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + wsPathPrefix + strconv.Itoa(cfg.VenueID)

	// The server reads channels as a single comma-joined value, so the
	// query is assembled by hand; url.Values would escape the commas.
	escaped := make([]string, len(cfg.Channels))
	for i, ch := range cfg.Channels {
		escaped[i] = url.QueryEscape(ch)
	}
	query := "channels=" + strings.Join(escaped, ",")
	if cfg.AuthMode == AuthToken {
		query += "&token=" + url.QueryEscape(cfg.Token)
	}
	u.RawQuery = query

	return u.String(), nil
}
