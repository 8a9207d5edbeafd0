package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/glimpse/internal/lib/logger/sl"
)

// Pinger is implemented by every key/value backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports the state of the key/value store and the listing host.
type HealthChecker struct {
	store       Pinger
	listingHost string
	httpClient  *http.Client
	log         *slog.Logger
}

func NewHealthChecker(store Pinger, listingHost string, log *slog.Logger) *HealthChecker {
	clientTO := 5
	return &HealthChecker{
		store:       store,
		listingHost: listingHost,
		httpClient:  &http.Client{Timeout: time.Duration(clientTO) * time.Second},
		log:         log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	h.log.DebugContext(ctx, "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		status["storage"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(ctx, "Health check failed: storage ping", sl.Err(err))
	} else {
		status["storage"] = "ok"
	}

	hostStatus, code, err := h.checkListingHost(ctx)
	status["listing_host"] = hostStatus
	switch {
	case err != nil:
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(ctx, "Health check failed: listing host unreachable",
			"host", h.listingHost, sl.Err(err))
	case hostStatus != "ok":
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(ctx, "Health check failed: listing host returned error status",
			"host", h.listingHost, "status_code", code)
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err = json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(ctx, "Failed to write health check response", sl.Err(err))
	}

	h.log.DebugContext(ctx, "Health checks completed", "status", overallStatus)
}

func (h *HealthChecker) checkListingHost(ctx context.Context) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.listingHost, nil)
	if err != nil {
		return "unreachable", 0, err
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "unreachable", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "degraded", resp.StatusCode, nil
	}

	return "ok", resp.StatusCode, nil
}
