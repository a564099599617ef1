package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nadart/gallery/internal/service"
)

type resumeContentPayload struct {
	Content *string `json:"content" binding:"required"`
}

type timelineCreatePayload struct {
	DateRange   string    `json:"date_range"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Items       *[]string `json:"items"`
}

func (p timelineCreatePayload) toInput() service.TimelineInput {
	return service.TimelineInput{
		DateRange:   p.DateRange,
		Title:       p.Title,
		Description: p.Description,
		Items:       p.Items,
	}
}

type timelineUpdatePayload struct {
	DateRange    *string   `json:"date_range"`
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Items        *[]string `json:"items"`
	DisplayOrder *int      `json:"display_order"`
}

func (p timelineUpdatePayload) toPatch() service.TimelineUpdate {
	return service.TimelineUpdate{
		DateRange:    p.DateRange,
		Title:        p.Title,
		Description:  p.Description,
		Items:        p.Items,
		DisplayOrder: p.DisplayOrder,
	}
}

type expertiseCreatePayload struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (p expertiseCreatePayload) toInput() service.ExpertiseInput {
	return service.ExpertiseInput{
		Icon:        p.Icon,
		Title:       p.Title,
		Description: p.Description,
	}
}

type expertiseUpdatePayload struct {
	Icon         *string `json:"icon"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order"`
}

func (p expertiseUpdatePayload) toPatch() service.ExpertiseUpdate {
	return service.ExpertiseUpdate{
		Icon:         p.Icon,
		Title:        p.Title,
		Description:  p.Description,
		DisplayOrder: p.DisplayOrder,
	}
}

// GetResume returns the aggregated resume payload.
func (a *API) GetResume(c *gin.Context) {
	view, err := a.resume.GetAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load resume")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateResumeContent upserts one content section by key.
func (a *API) UpdateResumeContent(c *gin.Context) {
	var payload resumeContentPayload
	if !bindJSON(c, &payload, "content is required") {
		return
	}

	row, err := a.resume.UpsertContent(c.Param("key"), *payload.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save resume content")
		return
	}
	c.JSON(http.StatusOK, row)
}

// ListTimelineEntries returns all timeline entries in display order.
func (a *API) ListTimelineEntries(c *gin.Context) {
	items, err := a.resume.Timeline()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load timeline")
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateTimelineEntry appends a timeline entry.
func (a *API) CreateTimelineEntry(c *gin.Context) {
	var payload timelineCreatePayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	item, err := a.resume.CreateTimelineEntry(payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTimelineFieldsMissing):
			respondError(c, http.StatusBadRequest, "date range and title are required")
		default:
			respondError(c, http.StatusInternalServerError, "failed to create timeline entry")
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateTimelineEntry applies a partial update to a timeline entry.
func (a *API) UpdateTimelineEntry(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid timeline entry id")
		return
	}

	var payload timelineUpdatePayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	item, err := a.resume.UpdateTimelineEntry(id, payload.toPatch())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTimelineEntryNotFound):
			respondError(c, http.StatusNotFound, "timeline entry not found")
		case errors.Is(err, service.ErrTimelineFieldsMissing):
			respondError(c, http.StatusBadRequest, "date range and title are required")
		default:
			respondError(c, http.StatusInternalServerError, "failed to update timeline entry")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteTimelineEntry removes a timeline entry.
func (a *API) DeleteTimelineEntry(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid timeline entry id")
		return
	}

	if err := a.resume.DeleteTimelineEntry(id); err != nil {
		switch {
		case errors.Is(err, service.ErrTimelineEntryNotFound):
			respondError(c, http.StatusNotFound, "timeline entry not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to delete timeline entry")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "timeline entry deleted"})
}

// ListExpertiseAreas returns all expertise areas in display order.
func (a *API) ListExpertiseAreas(c *gin.Context) {
	items, err := a.resume.Expertise()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load expertise areas")
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateExpertiseArea appends an expertise area.
func (a *API) CreateExpertiseArea(c *gin.Context) {
	var payload expertiseCreatePayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	item, err := a.resume.CreateExpertiseArea(payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExpertiseFieldsMissing):
			respondError(c, http.StatusBadRequest, "icon and title are required")
		default:
			respondError(c, http.StatusInternalServerError, "failed to create expertise area")
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateExpertiseArea applies a partial update to an expertise area.
func (a *API) UpdateExpertiseArea(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid expertise area id")
		return
	}

	var payload expertiseUpdatePayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	item, err := a.resume.UpdateExpertiseArea(id, payload.toPatch())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExpertiseAreaNotFound):
			respondError(c, http.StatusNotFound, "expertise area not found")
		case errors.Is(err, service.ErrExpertiseFieldsMissing):
			respondError(c, http.StatusBadRequest, "icon and title are required")
		default:
			respondError(c, http.StatusInternalServerError, "failed to update expertise area")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteExpertiseArea removes an expertise area.
func (a *API) DeleteExpertiseArea(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid expertise area id")
		return
	}

	if err := a.resume.DeleteExpertiseArea(id); err != nil {
		switch {
		case errors.Is(err, service.ErrExpertiseAreaNotFound):
			respondError(c, http.StatusNotFound, "expertise area not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to delete expertise area")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "expertise area deleted"})
}
