// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spatial/internal/logging"
	"github.com/tomtom215/spatial/internal/spatial"
	"github.com/tomtom215/spatial/internal/temporal"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Pinger reports storage connectivity. *database.DB implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the entity families of one set of stores.
type Handler struct {
	stores *spatial.Stores
	db     Pinger
	start  time.Time

	maps   *family[*spatial.Map]
	layers *family[*spatial.Layer]
}

// NewHandler creates the handler. db may be nil for in-memory stores.
func NewHandler(stores *spatial.Stores, db Pinger) *Handler {
	return &Handler{
		stores: stores,
		db:     db,
		start:  time.Now(),
		maps: &family[*spatial.Map]{
			name:  spatial.FamilyMap,
			store: stores.Maps,
			blank: func(id string) *spatial.Map { return spatial.NewMap(id, "") },
			render: func(m *spatial.Map, actor string) interface{} {
				return mapView{MapJSON: m.AsJSON(actor), ScaleText: m.ScaleText(), Outputs: m.Outputs()}
			},
		},
		layers: &family[*spatial.Layer]{
			name:  spatial.FamilyLayer,
			store: stores.Layers,
			blank: func(id string) *spatial.Layer { return spatial.NewLayer(id, "") },
			render: func(l *spatial.Layer, _ string) interface{} {
				return l.AsJSON()
			},
		},
	}
}

// versionView is the audit record of a version next to its client
// representation.
type versionView struct {
	temporal.Record
	Data interface{} `json:"data"`
}

type mapView struct {
	spatial.MapJSON
	ScaleText string           `json:"scale_text"`
	Outputs   []spatial.Output `json:"outputs,omitempty"`
}

// repairView lists failures as messages; RepairReport keeps them as errors.
type repairView struct {
	*temporal.RepairReport
	Failures []string `json:"failures,omitempty"`
}

func newRepairView(report *temporal.RepairReport) repairView {
	view := repairView{RepairReport: report}
	for _, f := range report.Failures {
		view.Failures = append(view.Failures, f.Error())
	}
	return view
}

// endRequest is the optional body of an end call.
type endRequest struct {
	EffectiveTo *time.Time `json:"effective_to"`
}

// decodeBody reads a JSON body into v. An empty body leaves v unchanged
// when optional is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, optional bool) error {
	if r.Body == nil || r.Body == http.NoBody {
		if optional {
			return nil
		}
		return errMalformedBody
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Join(errMalformedBody, err)
	}
	return nil
}

// HealthStatus is the payload of /health.
type HealthStatus struct {
	Status   string       `json:"status"`
	Database string       `json:"database"`
	Uptime   float64      `json:"uptime_seconds"`
	Cache    *CacheStatus `json:"cache,omitempty"`
}

// CacheStatus reports version cache effectiveness for backends that count
// lookups.
type CacheStatus struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Keys      int64   `json:"keys"`
	HitRate   float64 `json:"hit_rate"`
}

// Health reports database connectivity and version cache counters.
// In-memory stores are always healthy.
//
// @Summary Health check
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Healthy"
// @Failure 503 {object} APIResponse{data=HealthStatus} "Database unreachable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:   "healthy",
		Database: "memory",
		Uptime:   time.Since(h.start).Seconds(),
	}
	if stats, rate, ok := h.stores.Cache.Stats(); ok {
		status.Cache = &CacheStatus{
			Hits:      stats.Hits,
			Misses:    stats.Misses,
			Evictions: stats.Evictions,
			Keys:      stats.TotalKeys,
			HitRate:   rate,
		}
	}
	if h.db == nil {
		respondData(w, r, http.StatusOK, status, -1)
		return
	}

	status.Database = "connected"
	if err := h.db.Ping(r.Context()); err != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check failed")
		respondData(w, r, http.StatusServiceUnavailable, status, -1)
		return
	}
	respondData(w, r, http.StatusOK, status, -1)
}

// RepairAll runs FixVersions over every identity of every family and lists
// the timelines that needed work.
//
// @Summary Repair every timeline
// @Tags Repair
// @Produce json
// @Success 200 {object} APIResponse{data=[]repairView} "Timelines that needed work"
// @Failure 500 {object} APIResponse "Internal server error"
// @Router /api/v1/repair [post]
func (h *Handler) RepairAll(w http.ResponseWriter, r *http.Request) {
	reports, err := h.stores.RepairAll(r.Context(), nil)
	if err != nil && !errors.Is(err, temporal.ErrRepairFailed) {
		respondStoreError(w, r, err)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Repair left versions unfixed")
	}

	views := make([]repairView, len(reports))
	for i, report := range reports {
		views[i] = newRepairView(report)
	}
	respondData(w, r, http.StatusOK, views, len(views))
}
