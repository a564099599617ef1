package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nadart/gallery/internal/service"
)

type galleryCreatePayload struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsMain      bool   `json:"is_main"`
}

func (p galleryCreatePayload) toInput() service.GalleryInput {
	return service.GalleryInput{
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		IsMain:      p.IsMain,
	}
}

type galleryUpdatePayload struct {
	Name         *string `json:"name"`
	Slug         *string `json:"slug"`
	Description  *string `json:"description"`
	IsMain       *bool   `json:"is_main"`
	DisplayOrder *int    `json:"display_order"`
}

func (p galleryUpdatePayload) toPatch() service.GalleryUpdate {
	return service.GalleryUpdate{
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		IsMain:       p.IsMain,
		DisplayOrder: p.DisplayOrder,
	}
}

type galleryReorderPayload struct {
	GalleryIDs []uint `json:"galleryIds" binding:"required"`
}

// ListGalleries returns all galleries with their visible painting counts.
func (a *API) ListGalleries(c *gin.Context) {
	items, err := a.galleries.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load galleries")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetMainGallery returns the gallery flagged as main with its visible
// paintings.
func (a *API) GetMainGallery(c *gin.Context) {
	item, err := a.galleries.GetMain()
	if err != nil {
		if errors.Is(err, service.ErrGalleryNotFound) {
			respondError(c, http.StatusNotFound, "main gallery not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load gallery")
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetGalleryBySlug returns one gallery with its visible paintings.
func (a *API) GetGalleryBySlug(c *gin.Context) {
	item, err := a.galleries.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrGalleryNotFound) {
			respondError(c, http.StatusNotFound, "gallery not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load gallery")
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateGallery creates a new gallery and its storage folder.
func (a *API) CreateGallery(c *gin.Context) {
	var payload galleryCreatePayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	item, err := a.galleries.Create(payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryNameMissing):
			respondError(c, http.StatusBadRequest, "gallery name is required")
		case errors.Is(err, service.ErrGallerySlugMissing):
			respondError(c, http.StatusBadRequest, "gallery slug is required")
		default:
			respondError(c, http.StatusInternalServerError, "failed to create gallery")
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateGallery applies a partial update to a gallery.
func (a *API) UpdateGallery(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid gallery id")
		return
	}

	var payload galleryUpdatePayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	item, err := a.galleries.Update(id, payload.toPatch())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryNotFound):
			respondError(c, http.StatusNotFound, "gallery not found")
		case errors.Is(err, service.ErrGalleryNameMissing):
			respondError(c, http.StatusBadRequest, "gallery name is required")
		case errors.Is(err, service.ErrGallerySlugMissing):
			respondError(c, http.StatusBadRequest, "gallery slug is required")
		default:
			respondError(c, http.StatusInternalServerError, "failed to update gallery")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteGallery removes a non-main gallery with its paintings and files.
func (a *API) DeleteGallery(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid gallery id")
		return
	}

	if err := a.galleries.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryNotFound):
			respondError(c, http.StatusNotFound, "gallery not found")
		case errors.Is(err, service.ErrGalleryIsMain):
			respondError(c, http.StatusBadRequest, "the main gallery cannot be deleted")
		default:
			respondError(c, http.StatusInternalServerError, "failed to delete gallery")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "gallery deleted"})
}

// ReorderGalleries applies a new display order and returns the updated list.
func (a *API) ReorderGalleries(c *gin.Context) {
	var payload galleryReorderPayload
	if !bindJSON(c, &payload, "galleryIds is required") {
		return
	}

	if err := a.galleries.Reorder(payload.GalleryIDs); err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryOrder):
			respondError(c, http.StatusBadRequest, "invalid gallery order")
		case errors.Is(err, service.ErrGalleryNotFound):
			respondError(c, http.StatusNotFound, "gallery not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to reorder galleries")
		}
		return
	}

	items, err := a.galleries.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load galleries")
		return
	}
	c.JSON(http.StatusOK, items)
}
