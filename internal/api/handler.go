// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the clustering pipeline over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/geo-cluster/internal/fetch"
	"github.com/pdiddy/geo-cluster/internal/pipeline"
)

const (
	msgInvalidRequest = "Invalid request. Please provide pmids and email."
	msgPMIDsNotList   = "PMIDs must be provided as a list of strings."
	maxBodyBytes      = 1 << 20
)

// FetcherFactory builds the record fetcher for one request. The contact
// email arrives with each request, so fetchers are not shared.
type FetcherFactory func(email string) (fetch.Fetcher, error)

// Handler serves the clustering endpoint.
type Handler struct {
	NewFetcher     FetcherFactory
	Options        pipeline.Options
	MaxIdentifiers int
	Logger         log.FieldLogger
}

// NewHandler returns a Handler. A nil logger selects the standard logger.
func NewHandler(newFetcher FetcherFactory, opts pipeline.Options, maxIdentifiers int, logger log.FieldLogger) *Handler {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return &Handler{
		NewFetcher:     newFetcher,
		Options:        opts,
		MaxIdentifiers: maxIdentifiers,
		Logger:         logger,
	}
}

// RegisterRoutes mounts the API on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Post("/api/fetch-geo-data", h.FetchGeoData)
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

type fetchRequest struct {
	PMIDs json.RawMessage `json:"pmids"`
	Email *string         `json:"email"`
}

// FetchGeoData clusters the GEO datasets linked to the posted PMIDs.
func (h *Handler) FetchGeoData(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if len(req.PMIDs) == 0 || req.Email == nil || strings.TrimSpace(*req.Email) == "" {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	pmids, ok := parsePMIDs(req.PMIDs)
	if !ok {
		writeError(w, http.StatusBadRequest, msgPMIDsNotList)
		return
	}
	if h.MaxIdentifiers > 0 && len(pmids) > h.MaxIdentifiers {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Too many PMIDs: %d (maximum %d).", len(pmids), h.MaxIdentifiers))
		return
	}

	fetcher, err := h.NewFetcher(strings.TrimSpace(*req.Email))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	resp, err := pipeline.Run(r.Context(), pmids, fetcher, h.Options)
	if err != nil {
		entry := h.Logger.WithError(err).WithField("pmids", len(pmids))
		if errors.Is(err, fetch.ErrUpstreamUnavailable) {
			entry.Error("upstream unavailable")
		} else {
			entry.Error("clustering failed")
		}
		writeError(w, http.StatusInternalServerError, "An error occurred: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// parsePMIDs decodes a JSON list of strings. Null elements make the list
// invalid; blank entries are dropped.
func parsePMIDs(raw json.RawMessage) ([]string, bool) {
	var elems []*string
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		return nil, false
	}
	pmids := make([]string, 0, len(elems))
	for _, e := range elems {
		if e == nil {
			return nil, false
		}
		if p := strings.TrimSpace(*e); p != "" {
			pmids = append(pmids, p)
		}
	}
	return pmids, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
