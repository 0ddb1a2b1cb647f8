package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/daygrid/daygrid/pkg/buildinfo"
	"github.com/daygrid/daygrid/pkg/cache"
	dgerrors "github.com/daygrid/daygrid/pkg/errors"
	"github.com/daygrid/daygrid/pkg/pipeline"
	"github.com/daygrid/daygrid/pkg/render/grid/layout"
	"github.com/daygrid/daygrid/pkg/schedule"
	"github.com/daygrid/daygrid/pkg/store"
)

// contentTypes maps output formats to MIME types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatHTML: "text/html; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

// layoutRequest is the body of POST /v1/layout and POST /v1/render.
type layoutRequest struct {
	SourceID string `json:"source_id"`
	pipeline.Options
}

// layoutResponse is the body returned by POST /v1/layout.
type layoutResponse struct {
	Layout       layout.Layout      `json:"layout"`
	ScheduleHash string             `json:"schedule_hash"`
	EventCount   int                `json:"event_count"`
	GroupCount   int                `json:"group_count"`
	Cache        pipeline.CacheInfo `json:"cache"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleFeeds(w http.ResponseWriter, r *http.Request) {
	// URLs stay private; feed URLs routinely carry access tokens.
	type feedInfo struct {
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
	}
	out := make([]feedInfo, 0, len(s.cfg.Feeds))
	for _, f := range s.cfg.Feeds {
		out = append(out, feedInfo{ID: f.ID, Name: f.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}

	result, err := s.executeStages(r, opts, false)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, layoutResponse{
		Layout:       result.Layout,
		ScheduleHash: result.ScheduleHash,
		EventCount:   result.Stats.EventCount,
		GroupCount:   result.Stats.GroupCount,
		Cache:        result.CacheInfo,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}
	if len(opts.Formats) != 1 {
		s.writeError(w, dgerrors.New(dgerrors.ErrCodeInvalidFormat, "render accepts exactly one format"))
		return
	}

	result, err := s.executeStages(r, opts, true)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeArtifact(w, opts.Formats[0], result.Artifacts[opts.Formats[0]])
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if err := dgerrors.ValidateDate(date); err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Date:      date,
		View:      q.Get("view"),
		Timezone:  s.cfg.Timezone,
		WeekStart: s.cfg.WeekStart,
		Style:     q.Get("style"),
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	if opts.Style == "" {
		opts.Style = s.cfg.Style
	}
	s.applyFrame(&opts)

	sourceID := q.Get("source")
	if sourceID == "" && len(s.cfg.Feeds) > 0 {
		sourceID = s.cfg.Feeds[0].ID
	}
	src, err := s.sourceFor(sourceID)
	if err != nil {
		s.writeError(w, dgerrors.Wrap(dgerrors.ErrCodeInvalidSource, err, "unknown source"))
		return
	}
	opts.Source = src
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeArtifact(w, format, result.Artifacts[format])
}

// snapshotRequest is the body of POST /v1/snapshots.
type snapshotRequest struct {
	SourceID string `json:"source_id"`
	Date     string `json:"date"`
	View     string `json:"view,omitempty"`
}

func (s *Server) handlePublishSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, dgerrors.New(dgerrors.ErrCodeUnsupported, "snapshot store not configured"))
		return
	}

	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, dgerrors.Wrap(dgerrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if err := dgerrors.ValidateDate(req.Date); err != nil {
		s.writeError(w, err)
		return
	}

	src, err := s.sourceFor(req.SourceID)
	if err != nil {
		s.writeError(w, dgerrors.Wrap(dgerrors.ErrCodeInvalidSource, err, "unknown source"))
		return
	}

	opts := pipeline.Options{
		Source:    src,
		Date:      req.Date,
		View:      req.View,
		Timezone:  s.cfg.Timezone,
		WeekStart: s.cfg.WeekStart,
		Logger:    s.logger,
	}
	s.applyFrame(&opts)

	sched, err := s.runner.Load(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	l, err := s.runner.BuildLayout(r.Context(), sched, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := layout.MarshalLayout(l)
	if err != nil {
		s.writeError(w, err)
		return
	}

	snap, err := store.NewSnapshot(req.Date, opts.View, data)
	if err != nil {
		s.writeError(w, dgerrors.Wrap(dgerrors.ErrCodeInvalidInput, err, "invalid snapshot"))
		return
	}
	if opts.View == "" {
		snap.View = schedule.ViewDay
	}
	if err := s.store.Publish(r.Context(), snap); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":         snap.ID,
		"date":       snap.Date,
		"view":       snap.View,
		"created_at": snap.CreatedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, dgerrors.New(dgerrors.ErrCodeUnsupported, "snapshot store not configured"))
		return
	}

	snaps, err := s.store.List(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	type snapInfo struct {
		ID        string    `json:"id"`
		Date      string    `json:"date"`
		View      string    `json:"view"`
		CreatedAt time.Time `json:"created_at"`
	}
	out := make([]snapInfo, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, snapInfo{ID: snap.ID, Date: snap.Date, View: snap.View, CreatedAt: snap.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, dgerrors.New(dgerrors.ErrCodeUnsupported, "snapshot store not configured"))
		return
	}

	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, dgerrors.New(dgerrors.ErrCodeSnapshotNotFound, "snapshot not found"))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" || format == pipeline.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(snap.Layout)
		return
	}

	opts := pipeline.Options{
		Formats: []string{format},
		Style:   orDefault(r.URL.Query().Get("style"), s.cfg.Style),
	}
	artifacts, err := pipeline.RenderFromLayoutData(r.Context(), snap.Layout, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeArtifact(w, format, artifacts[format])
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, dgerrors.New(dgerrors.ErrCodeUnsupported, "snapshot store not configured"))
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

// decodeOptions parses a layoutRequest body and resolves its source.
func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, dgerrors.Wrap(dgerrors.ErrCodeInvalidInput, err, "invalid request body"))
		return pipeline.Options{}, false
	}
	if err := dgerrors.ValidateDate(req.Date); err != nil {
		s.writeError(w, err)
		return pipeline.Options{}, false
	}

	src, err := s.sourceFor(req.SourceID)
	if err != nil {
		s.writeError(w, dgerrors.Wrap(dgerrors.ErrCodeInvalidSource, err, "unknown source"))
		return pipeline.Options{}, false
	}

	opts := req.Options
	opts.Source = src
	opts.Logger = s.logger
	if opts.Timezone == "" {
		opts.Timezone = s.cfg.Timezone
	}
	if opts.WeekStart == "" {
		opts.WeekStart = s.cfg.WeekStart
	}
	if opts.Style == "" {
		opts.Style = s.cfg.Style
	}
	s.applyFrame(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, dgerrors.Wrap(dgerrors.ErrCodeInvalidInput, err, "invalid options"))
		return pipeline.Options{}, false
	}
	return opts, true
}

// executeStages runs load+layout, and render too when withRender is set.
func (s *Server) executeStages(r *http.Request, opts pipeline.Options, withRender bool) (*pipeline.Result, error) {
	if withRender {
		return s.runner.Execute(r.Context(), opts)
	}

	result := &pipeline.Result{}
	sched, loadHit, err := s.runner.LoadWithCacheInfo(r.Context(), opts)
	if err != nil {
		return nil, err
	}
	l, layoutHit, err := s.runner.BuildLayoutWithCacheInfo(r.Context(), sched, opts)
	if err != nil {
		return nil, err
	}

	result.Schedule = sched
	result.Layout = l
	result.Stats.EventCount = len(sched.Events)
	if l.Day != nil {
		result.Stats.GroupCount = len(l.Day.Groups)
	}
	result.CacheInfo.LoadHit = loadHit
	result.CacheInfo.LayoutHit = layoutHit
	if data, merr := schedule.MarshalSchedule(sched); merr == nil {
		result.ScheduleHash = cache.Hash(data)
	}
	return result, nil
}

// applyFrame copies configured frame overrides onto unset options.
func (s *Server) applyFrame(opts *pipeline.Options) {
	f := s.cfg.Frame
	if opts.Width == 0 {
		opts.Width = f.Width
	}
	if opts.HourHeight == 0 {
		opts.HourHeight = f.HourHeight
	}
	if opts.GridStart == 0 {
		opts.GridStart = f.GridStart
	}
	if opts.GridEnd == 0 {
		opts.GridEnd = f.GridEnd
	}
}

func (s *Server) writeArtifact(w http.ResponseWriter, format string, data []byte) {
	ct := contentTypes[format]
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
