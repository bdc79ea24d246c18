package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/crime360/internal/export"
	"github.com/hyperjump/crime360/internal/models"
	"github.com/hyperjump/crime360/internal/store"
)

var errReloadDisabled = errors.New("reload not enabled")

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type faceSearchRequest struct {
	Features  []float64 `json:"features"`
	Threshold *float64  `json:"threshold,omitempty"`
}

func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (*models.SearchQuery, bool) {
	var query models.SearchQuery
	if err := s.decodeBody(w, r, &query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return &query, true
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("from", query.From), zap.Int("size", query.Size))
	resp, err := s.Runtime().Search.Search(r.Context(), query)
	if err != nil {
		s.respondEngineError(w, "search", err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	query, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}
	resp, err := s.Runtime().Search.Search(r.Context(), query)
	if err != nil {
		s.respondEngineError(w, "export", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="incidents.xlsx"`)
	w.Header().Set("X-Total-Count", strconv.Itoa(resp.Total))
	if err := export.WriteIncidentsXLSX(w, resp.Hits); err != nil {
		s.logger.Error("export failed", zap.Error(err))
	}
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	table, err := s.Runtime().Analytics.AggregateBy(chi.URLParam(r, "field"))
	if err != nil {
		s.respondEngineError(w, "aggregate", err)
		return
	}
	s.respondJSON(w, http.StatusOK, table)
}

func (s *Server) handleFaceSearch(w http.ResponseWriter, r *http.Request) {
	rt := s.Runtime()
	var req faceSearchRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	threshold := rt.Config.Faces.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	resp, err := rt.Search.SearchBySimilarity(r.Context(), req.Features, threshold)
	if err != nil {
		s.respondEngineError(w, "face search", err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFaceMatch(w http.ResponseWriter, r *http.Request) {
	rt := s.Runtime()
	threshold := rt.Config.Faces.DefaultThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid threshold")
			return
		}
		threshold = v
	}
	image, err := io.ReadAll(s.limitBody(w, r))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := rt.MatchImage(r.Context(), image, threshold)
	if err != nil {
		s.respondEngineError(w, "face match", err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var dateRange *models.DateRange
	if q.Get("from") != "" || q.Get("to") != "" {
		from, err := models.ParseDate(q.Get("from"))
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		to, err := models.ParseDate(q.Get("to"))
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		dateRange = &models.DateRange{From: from, To: to}
	}
	snap, err := s.Runtime().Analytics.Snapshot(r.Context(), dateRange)
	if err != nil {
		s.respondEngineError(w, "analytics", err)
		return
	}
	s.respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	bounds, err := parseBounds(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	hm, err := s.Runtime().Analytics.Heatmap(r.Context(), bounds)
	if err != nil {
		s.respondEngineError(w, "heatmap", err)
		return
	}
	s.respondJSON(w, http.StatusOK, hm)
}

// parseBounds reads the four corner parameters. All absent means no bounds.
func parseBounds(q url.Values) (*models.Bounds, error) {
	names := []string{"top_left_lat", "top_left_lon", "bottom_right_lat", "bottom_right_lon"}
	present := 0
	for _, n := range names {
		if q.Get(n) != "" {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present != len(names) {
		return nil, fmt.Errorf("bounds need all of %v", names)
	}
	vals := make([]float64, len(names))
	for i, n := range names {
		v, err := strconv.ParseFloat(q.Get(n), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s", n)
		}
		vals[i] = v
	}
	return &models.Bounds{
		TopLeft:     models.GeoPoint{Lat: vals[0], Lon: vals[1]},
		BottomRight: models.GeoPoint{Lat: vals[2], Lon: vals[3]},
	}, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rt := s.Runtime()
	resp := map[string]interface{}{
		"snapshot":       rt.Status(),
		"reload_enabled": s.reload != nil,
	}
	configInfo := map[string]interface{}{
		"seed_source":       rt.Config.Seed.Source,
		"seed_watch":        rt.Config.Seed.Watch,
		"default_size":      rt.Config.Search.DefaultSize,
		"max_size":          rt.Config.Search.MaxSize,
		"face_threshold":    rt.Config.Faces.DefaultThreshold,
		"feature_dimension": rt.Features.Dimensions(),
	}
	if path := rt.Source.WatchPath(); path != "" {
		if diskBytes, err := store.DiskUsageBytes(path); err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	rt, err := s.Reload(r.Context())
	if errors.Is(err, errReloadDisabled) {
		s.respondError(w, http.StatusNotImplemented, err.Error())
		return
	}
	if err != nil {
		s.respondEngineError(w, "reload", err)
		return
	}
	s.respondJSON(w, http.StatusOK, rt.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) limitBody(w http.ResponseWriter, r *http.Request) io.Reader {
	if s.config != nil && s.config.MaxUploadBytes > 0 {
		return http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	}
	return r.Body
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(s.limitBody(w, r)).Decode(v)
}

// respondEngineError maps query errors to 400 and hides everything else behind a generic 500.
func (s *Server) respondEngineError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, models.ErrInvalidQuery) || errors.Is(err, models.ErrUnknownField) {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error(op+" failed", zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, "operation failed")
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
