// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/spatial/internal/logging"
	"github.com/tomtom215/spatial/internal/temporal"
)

// entity is a versioned entity that can validate its business fields.
type entity interface {
	temporal.Entity
	Validate() error
}

// family serves the routes of one entity family.
type family[T entity] struct {
	name  string
	store *temporal.Store[T]

	// blank returns an unsaved candidate with identity id and the family
	// defaults. Request bodies are decoded over it.
	blank func(id string) T

	// render returns the client representation for the requesting actor.
	render func(v T, actor string) interface{}
}

func (f *family[T]) routes(r chi.Router) {
	r.Get("/", f.list)
	r.Get("/{id}", f.get)
	r.Post("/{id}", f.save)
	r.Post("/{id}/end", f.end)
	r.Post("/{id}/repair", f.repair)
}

func (f *family[T]) view(v T, actor string) versionView {
	return versionView{Record: *v.Audit(), Data: f.render(v, actor)}
}

func (f *family[T]) views(versions []T, actor string) []versionView {
	out := make([]versionView, len(versions))
	for i, v := range versions {
		out[i] = f.view(v, actor)
	}
	return out
}

// list returns the active version of every identity.
//
// @Summary List active versions
// @Description Returns the active version of every map or layer.
// @Tags Versions
// @Produce json
// @Param X-Actor header string false "Requesting actor"
// @Success 200 {object} APIResponse{data=[]versionView} "Active versions"
// @Failure 500 {object} APIResponse "Internal server error"
// @Router /api/v1/maps/ [get]
// @Router /api/v1/layers/ [get]
func (f *family[T]) list(w http.ResponseWriter, r *http.Request) {
	versions, err := f.store.ListCurrent(r.Context())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	actor := logging.ActorFromContext(r.Context())
	respondData(w, r, http.StatusOK, f.views(versions, actor), len(versions))
}

// get runs the query named by the from and to parameters. List queries
// answer with an array, point queries with one version.
//
// @Summary Get versions by query
// @Description Without parameters returns the active version. from=all|oldest|newest,
// @Description from=<time> (version at that time), from=<time>&to=next and from=<time>&to=<time>
// @Description (versions spanning the range) are also accepted. Times are RFC3339.
// @Tags Versions
// @Produce json
// @Param id path string true "Map or layer id"
// @Param from query string false "all, oldest, newest or an RFC3339 time"
// @Param to query string false "next or an RFC3339 time"
// @Success 200 {object} APIResponse{data=versionView} "Version or list of versions"
// @Failure 400 {object} APIResponse "Bad query"
// @Failure 404 {object} APIResponse "No version matches"
// @Router /api/v1/maps/{id} [get]
// @Router /api/v1/layers/{id} [get]
func (f *family[T]) get(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q, err := temporal.ParseQuery(params.Get("from"), params.Get("to"))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	versions, err := f.store.GetVersion(r.Context(), f.blank(chi.URLParam(r, "id")), q)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	actor := logging.ActorFromContext(r.Context())
	if q.Multi() {
		respondData(w, r, http.StatusOK, f.views(versions, actor), len(versions))
		return
	}
	respondData(w, r, http.StatusOK, f.view(versions[0], actor), -1)
}

// save stores the body as a new version. The body may carry
// effective_from (insert at that point) and effective_to (bulk write, only
// together with effective_from). skip_compare=true saves even an unchanged
// version.
//
// @Summary Save a new version
// @Description Appends a version at now, or inserts it at effective_from. effective_to
// @Description together with effective_from writes a closed version directly.
// @Tags Versions
// @Accept json
// @Produce json
// @Param id path string true "Map or layer id"
// @Param skip_compare query bool false "Save even when identical to the neighbouring version"
// @Param X-Actor header string false "Requesting actor"
// @Param version body spatial.Map true "Map or layer fields"
// @Success 201 {object} APIResponse{data=versionView} "Saved version"
// @Failure 400 {object} APIResponse "Malformed body or bad validity bounds"
// @Failure 409 {object} APIResponse "Identical version or unique constraint collision"
// @Failure 422 {object} APIResponse "Validation failed"
// @Router /api/v1/maps/{id} [post]
// @Router /api/v1/layers/{id} [post]
func (f *family[T]) save(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v := f.blank(id)
	if err := decodeBody(w, r, v, false); err != nil {
		respondStoreError(w, r, err)
		return
	}
	if got := v.NaturalKey().Identity; !got.Equal(temporal.Identity{id}) {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest,
			fmt.Sprintf("%s id %q does not match path id %q", f.name, got, id), nil, nil)
		return
	}

	// Only the validity bounds of the audit record are taken from the client.
	rec := v.Audit()
	from, to := rec.EffectiveFrom, rec.EffectiveTo
	*rec = temporal.Record{EffectiveFrom: from}
	if to != nil && from.IsZero() {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "effective_to requires effective_from", nil, nil)
		return
	}

	skipCompare := false
	if raw := r.URL.Query().Get("skip_compare"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "skip_compare must be a boolean", nil, nil)
			return
		}
		skipCompare = parsed
	}

	if err := v.Validate(); err != nil {
		respondStoreError(w, r, err)
		return
	}

	actor := logging.ActorFromContext(r.Context())
	opts := temporal.SaveOptions{Actor: actor, EffectiveTo: to, SkipCompare: skipCompare}
	if err := f.store.SaveVersion(r.Context(), v, opts); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, r, http.StatusCreated, f.view(v, actor), -1)
}

// end closes the active version at the body's effective_to, or now.
//
// @Summary End the active version
// @Tags Versions
// @Accept json
// @Produce json
// @Param id path string true "Map or layer id"
// @Param X-Actor header string false "Requesting actor"
// @Param request body endRequest false "Optional end time"
// @Success 200 {object} APIResponse{data=versionView} "Closed version"
// @Failure 404 {object} APIResponse "No active version"
// @Failure 409 {object} APIResponse "Unique constraint collision"
// @Router /api/v1/maps/{id}/end [post]
// @Router /api/v1/layers/{id}/end [post]
func (f *family[T]) end(w http.ResponseWriter, r *http.Request) {
	var req endRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		respondStoreError(w, r, err)
		return
	}

	ctx := r.Context()
	current, err := f.store.Current(ctx, f.blank(chi.URLParam(r, "id")))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	actor := logging.ActorFromContext(ctx)
	if err := f.store.EndVersion(ctx, current, req.EffectiveTo, actor); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, f.view(current, actor), -1)
}

// repair runs FixVersions on one timeline. A bounded repair that left
// versions unfixed still answers 200 and lists the failures.
//
// @Summary Repair one timeline
// @Tags Repair
// @Produce json
// @Param id path string true "Map or layer id"
// @Success 200 {object} APIResponse{data=repairView} "Repair report"
// @Failure 500 {object} APIResponse "Internal server error"
// @Router /api/v1/maps/{id}/repair [post]
// @Router /api/v1/layers/{id}/repair [post]
func (f *family[T]) repair(w http.ResponseWriter, r *http.Request) {
	report, err := f.store.FixVersions(r.Context(), f.blank(chi.URLParam(r, "id")))
	if err != nil && !errors.Is(err, temporal.ErrRepairFailed) {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, newRepairView(report), -1)
}
