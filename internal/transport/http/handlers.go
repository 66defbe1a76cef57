package transporthttp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ralph-groupscholar/website/internal/config"
	"github.com/ralph-groupscholar/website/internal/domain"
	"github.com/ralph-groupscholar/website/internal/intake"
	"github.com/ralph-groupscholar/website/internal/logger"
	"github.com/ralph-groupscholar/website/internal/metrics"
)

type ServerDeps struct {
	Cfg     config.Config
	Service *intake.Service
	Metrics *metrics.Metrics
}

// Page sizes served to the landing page.
const (
	feedLimit   = 5
	signalLimit = 4
)

var errTrailingData = errors.New("unexpected data after json body")

// decodeJSONStrict accepts exactly one JSON value with known fields.
func decodeJSONStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return errTrailingData
	}
	return nil
}

// --- Health ---

func (d *ServerDeps) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (d *ServerDeps) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	storage := "fallback"
	if d.Service.StorageConfigured() {
		storage = "postgres"
	}
	if err := d.Service.Ready(r.Context()); err != nil {
		logger.WithCtx(r.Context()).Warn().Err(err).Msg("readiness check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "storage": storage})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "storage": storage})
}

// --- Intake writer ---

func (d *ServerDeps) HandlePostIntent(w http.ResponseWriter, r *http.Request) {
	defer DrainBody(r)

	var in domain.IntentInput
	if err := decodeJSONStrict(r, &in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload too large", nil)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if in.UserAgent == nil || strings.TrimSpace(*in.UserAgent) == "" {
		if ua := strings.TrimSpace(strings.ToValidUTF8(r.UserAgent(), "")); ua != "" {
			ua = domain.Truncate(ua, domain.MaxUserAgentLen)
			in.UserAgent = &ua
		} else {
			in.UserAgent = nil
		}
	}

	ack, err := d.Service.Submit(r.Context(), in)
	if err != nil {
		var perr *intake.InvalidPayloadError
		if errors.As(err, &perr) {
			writeError(w, http.StatusBadRequest, "invalid payload", perr.Errs.Fields())
			return
		}
		writeError(w, http.StatusInternalServerError, "unable to record intent", nil)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

// --- Reads ---

type pulseResponse struct {
	Pulse domain.PulseSnapshot `json:"pulse"`
}

type timelineResponse struct {
	Timeline []domain.TimelineBucket `json:"timeline"`
}

type feedResponse struct {
	Feed []domain.FeedEntry `json:"feed"`
}

type signalsResponse struct {
	Signals []domain.ImpactSignal `json:"signals"`
}

func (d *ServerDeps) HandleGetPulse(w http.ResponseWriter, r *http.Request) {
	pulse, err := d.Service.Pulse(r.Context())
	if err != nil {
		d.storageFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pulseResponse{Pulse: pulse})
}

func (d *ServerDeps) HandleGetTimeline(w http.ResponseWriter, r *http.Request) {
	days := intake.DefaultTimelineDays
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "days must be an integer", nil)
			return
		}
		days = max(n, 1)
	}

	timeline, err := d.Service.Timeline(r.Context(), days)
	if err != nil {
		d.storageFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timelineResponse{Timeline: timeline})
}

func (d *ServerDeps) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := d.Service.Feed(r.Context(), feedLimit)
	if err != nil {
		d.storageFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feedResponse{Feed: feed})
}

func (d *ServerDeps) HandleGetSignals(w http.ResponseWriter, r *http.Request) {
	signals, err := d.Service.Signals(r.Context(), signalLimit)
	if err != nil {
		d.storageFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signalsResponse{Signals: signals})
}

func (d *ServerDeps) storageFailure(w http.ResponseWriter, r *http.Request, err error) {
	logger.WithCtx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("storage query failed")
	writeError(w, http.StatusInternalServerError, "storage unavailable", nil)
}
