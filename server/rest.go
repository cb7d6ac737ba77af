package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/nwsalerts/pkg/alerts"
	"github.com/umputun/nwsalerts/pkg/domain"
	"github.com/umputun/nwsalerts/pkg/location"
)

// maxLimit caps the requested number of alerts
const maxLimit = 500

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// alertsHandler returns the ranked alerts for the requested location.
// Pipeline failures are reported in the body with status 200, only bad parameters are 400.
func (s *Server) alertsHandler(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	set := s.builder.Build(r.Context(), req)
	renderJSON(w, r, http.StatusOK, s.makeAlertSetView(set, req, strings.TrimSpace(r.URL.Query().Get("location_title"))))
}

// alertsMapHandler returns the map centre and the polygons of the ranked alerts
func (s *Server) alertsMapHandler(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	set := s.builder.Build(r.Context(), req)
	renderJSON(w, r, http.StatusOK, makeMapView(set))
}

// parseRequest reads the location, scope and limit query parameters
func (s *Server) parseRequest(r *http.Request) (alerts.Request, error) {
	q := r.URL.Query()

	scope, err := domain.ParseScope(strings.ToLower(strings.TrimSpace(q.Get("scope"))))
	if err != nil {
		return alerts.Request{}, fmt.Errorf("invalid scope: %w", err)
	}

	limit := s.config.GetDefaultLimit()
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 || limit > maxLimit {
			return alerts.Request{}, fmt.Errorf("invalid limit %q, expected 0-%d", v, maxLimit)
		}
	}

	return alerts.Request{
		Query: location.Query{
			Zip:    strings.TrimSpace(q.Get("zip")),
			City:   strings.TrimSpace(q.Get("city")),
			State:  strings.TrimSpace(q.Get("state")),
			County: strings.TrimSpace(q.Get("county")),
		},
		Scope: scope,
		Limit: limit,
	}, nil
}

// renderJSON sends JSON response, the body is encoded before the status is written
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	if data == nil {
		w.WriteHeader(code)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"can't encode response"}` + "\n"))
		return
	}
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		lgr.Printf("[WARN] can't write response: %v", err)
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
