package client

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/glimpse/internal/models"
)

// CreateHTTPClient initializes an HTTP client for the listing source. Every request carries
// the directory User-Agent and redirects are logged.
func CreateHTTPClient(log *slog.Logger, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{base: http.DefaultTransport},
		CheckRedirect: func(req *http.Request, _ []*http.Request) error {
			log.Debug("Redirected to URL", "URL", req.URL)

			return nil
		},
	}
}

type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", models.UserAgent)

	return t.base.RoundTrip(clone)
}
