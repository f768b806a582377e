package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/trackline/internal/dependency"
	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/drag"
	"github.com/alexanderramin/trackline/internal/hierarchy"
	"github.com/alexanderramin/trackline/internal/repository"
	"github.com/alexanderramin/trackline/internal/service"
	"github.com/alexanderramin/trackline/internal/timeline"
)

type barJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ParentID    *string  `json:"parent_id"`
	Status      string   `json:"status"`
	Progress    int      `json:"progress"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Explicit    bool     `json:"explicit"`
	Unscheduled bool     `json:"unscheduled"`
	Offset      float64  `json:"offset"`
	Width       float64  `json:"width"`
	DueOffset   *float64 `json:"due_offset,omitempty"`
	Depth       int      `json:"depth"`
	HasChildren bool     `json:"has_children"`
	Expanded    bool     `json:"expanded"`
	IsLast      bool     `json:"is_last"`
	Overdue     bool     `json:"overdue"`
}

type edgeJSON struct {
	FeatureID   string `json:"feature_id"`
	DependsOnID string `json:"depends_on_id"`
}

type timelineJSON struct {
	Start        string     `json:"start"`
	End          string     `json:"end"`
	Days         int        `json:"days"`
	Weeks        []string   `json:"weeks"`
	Today        float64    `json:"today"`
	TodayVisible bool       `json:"today_visible"`
	Bars         []barJSON  `json:"bars"`
	Dependencies []edgeJSON `json:"dependencies"`
}

type featureJSON struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	ParentID       *string `json:"parent_id"`
	HierarchyLevel int     `json:"hierarchy_level"`
	Status         string  `json:"status"`
	StartDate      string  `json:"start_date,omitempty"`
	EndDate        string  `json:"end_date,omitempty"`
}

type datesRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleTimeline(c *gin.Context) {
	ctx := c.Request.Context()
	projectID := c.Param("id")

	expand := c.Query("expand")
	var expanded hierarchy.ExpandSet
	if expand != "" && expand != "all" {
		expanded = hierarchy.NewExpandSet(splitIDs(expand)...)
	}

	view, err := s.svc.Timeline.Build(ctx, projectID, expanded)
	if err == nil && expand == "all" {
		view, err = s.svc.Timeline.Build(ctx, projectID, hierarchy.ExpandAll(view.Forest))
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toTimelineJSON(view),
	})
}

func (s *Server) handleProjectCandidates(c *gin.Context) {
	features, err := s.svc.Dependencies.ProjectCandidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": toFeaturesJSON(features)})
}

func (s *Server) handleFeatureCandidates(c *gin.Context) {
	features, err := s.svc.Dependencies.Candidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": toFeaturesJSON(features)})
}

func (s *Server) handleUpdateDates(c *gin.Context) {
	var req datesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	change := drag.DateChange{Start: start, End: end}
	if err := s.svc.Features.UpdateDates(c.Request.Context(), c.Param("id"), change); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"start_date": change.StartDate(), "end_date": change.EndDate()},
	})
}

func (s *Server) handleListDependencies(c *gin.Context) {
	deps, err := s.svc.Dependencies.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]domain.Feature, 0, len(deps))
	for _, d := range deps {
		out = append(out, *d)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": toFeaturesJSON(out)})
}

func (s *Server) handleAddDependency(c *gin.Context) {
	if err := s.svc.Dependencies.Add(c.Request.Context(), c.Param("id"), c.Param("dep")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (s *Server) handleRemoveDependency(c *gin.Context) {
	if err := s.svc.Dependencies.Remove(c.Request.Context(), c.Param("id"), c.Param("dep")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// fail maps service errors onto status codes.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dependency.ErrCycle), errors.Is(err, dependency.ErrDuplicateEdge):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidDates),
		errors.Is(err, service.ErrInvalidParent),
		errors.Is(err, dependency.ErrSelfDependency),
		errors.Is(err, dependency.ErrCrossProject),
		errors.Is(err, dependency.ErrOwnSubFeature),
		errors.Is(err, dependency.ErrParentFeature):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func toTimelineJSON(v *timeline.View) timelineJSON {
	out := timelineJSON{
		Start:        domain.FormatDate(v.Domain.Start),
		End:          domain.FormatDate(v.Domain.End),
		Days:         v.Domain.Len(),
		Today:        v.Today,
		TodayVisible: v.TodayVisible,
		Weeks:        formatDates(v.Domain.Weeks()),
		Bars:         make([]barJSON, 0, len(v.Bars)),
		Dependencies: make([]edgeJSON, 0, len(v.Dependencies)),
	}
	for _, b := range v.Bars {
		out.Bars = append(out.Bars, barJSON{
			ID:          b.Feature.ID,
			Title:       b.Feature.Title,
			ParentID:    b.Feature.ParentID,
			Status:      string(b.Feature.Status),
			Progress:    b.Feature.ProgressPercentage,
			Start:       domain.FormatDate(b.Range.Start),
			End:         domain.FormatDate(b.Range.End),
			Explicit:    b.Range.Explicit,
			Unscheduled: b.Range.Unscheduled,
			Offset:      b.Offset,
			Width:       b.Width,
			DueOffset:   b.DueOffset,
			Depth:       b.Depth,
			HasChildren: b.HasChildren,
			Expanded:    b.Expanded,
			IsLast:      b.IsLast,
			Overdue:     b.Overdue,
		})
	}
	for _, d := range v.Dependencies {
		out.Dependencies = append(out.Dependencies, edgeJSON{FeatureID: d.FeatureID, DependsOnID: d.DependsOnID})
	}
	return out
}

func toFeaturesJSON(features []domain.Feature) []featureJSON {
	out := make([]featureJSON, 0, len(features))
	for _, f := range features {
		out = append(out, featureJSON{
			ID:             f.ID,
			Title:          f.Title,
			ParentID:       f.ParentID,
			HierarchyLevel: f.HierarchyLevel,
			Status:         string(f.Status),
			StartDate:      domain.FormatOptionalDate(f.StartDate),
			EndDate:        domain.FormatOptionalDate(f.EndDate),
		})
	}
	return out
}

func formatDates(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = domain.FormatDate(d)
	}
	return out
}
