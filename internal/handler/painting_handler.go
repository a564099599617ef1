package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nadart/gallery/internal/service"
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

type paintingReorderPayload struct {
	PaintingIDs []uint `json:"paintingIds" binding:"required"`
}

type paintingMovePayload struct {
	GalleryID uint `json:"gallery_id" binding:"required"`
}

// ListPaintings returns paintings, optionally filtered by gallery_id.
func (a *API) ListPaintings(c *gin.Context) {
	var galleryID uint
	if raw := c.Query("gallery_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid gallery_id")
			return
		}
		galleryID = uint(parsed)
	}

	items, err := a.paintings.List(galleryID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load paintings")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetPainting returns one painting by id.
func (a *API) GetPainting(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid painting id")
		return
	}

	item, err := a.paintings.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrPaintingNotFound) {
			respondError(c, http.StatusNotFound, "painting not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load painting")
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreatePainting accepts a multipart form with painting fields and the image
// file under the "image" key.
func (a *API) CreatePainting(c *gin.Context) {
	rawGalleryID := c.PostForm("gallery_id")
	galleryID, err := strconv.ParseUint(rawGalleryID, 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid gallery_id")
		return
	}

	image, ok := a.formImage(c, true)
	if !ok {
		return
	}

	input := service.PaintingInput{
		GalleryID:   uint(galleryID),
		Title:       c.PostForm("title"),
		Technique:   c.PostForm("technique"),
		Description: c.PostForm("description"),
		Dimensions:  c.PostForm("dimensions"),
		Medium:      c.PostForm("medium"),
	}

	item, err := a.paintings.Create(input, image)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaintingTitleMissing):
			respondError(c, http.StatusBadRequest, "painting title is required")
		case errors.Is(err, service.ErrPaintingImageMissing):
			respondError(c, http.StatusBadRequest, "painting image is required")
		case errors.Is(err, service.ErrGalleryNotFound):
			respondError(c, http.StatusNotFound, "gallery not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to create painting")
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdatePainting applies a partial multipart update. Absent fields stay
// untouched; a new "image" file replaces the stored pair.
func (a *API) UpdatePainting(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid painting id")
		return
	}

	var patch service.PaintingUpdate
	if raw, set := c.GetPostForm("gallery_id"); set {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid gallery_id")
			return
		}
		galleryID := uint(parsed)
		patch.GalleryID = &galleryID
	}
	if value, set := c.GetPostForm("title"); set {
		patch.Title = &value
	}
	if value, set := c.GetPostForm("technique"); set {
		patch.Technique = &value
	}
	if value, set := c.GetPostForm("description"); set {
		patch.Description = &value
	}
	if value, set := c.GetPostForm("dimensions"); set {
		patch.Dimensions = &value
	}
	if value, set := c.GetPostForm("medium"); set {
		patch.Medium = &value
	}
	if raw, set := c.GetPostForm("display_order"); set {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid display_order")
			return
		}
		patch.DisplayOrder = &parsed
	}
	if raw, set := c.GetPostForm("is_visible"); set {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid is_visible")
			return
		}
		patch.IsVisible = &parsed
	}

	image, ok := a.formImage(c, false)
	if !ok {
		return
	}

	item, err := a.paintings.Update(id, patch, image)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaintingNotFound):
			respondError(c, http.StatusNotFound, "painting not found")
		case errors.Is(err, service.ErrPaintingTitleMissing):
			respondError(c, http.StatusBadRequest, "painting title is required")
		case errors.Is(err, service.ErrGalleryNotFound):
			respondError(c, http.StatusNotFound, "gallery not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to update painting")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeletePainting removes a painting and its image files.
func (a *API) DeletePainting(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid painting id")
		return
	}

	if err := a.paintings.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrPaintingNotFound):
			respondError(c, http.StatusNotFound, "painting not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to delete painting")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "painting deleted"})
}

// TogglePaintingVisibility flips the public visibility flag.
func (a *API) TogglePaintingVisibility(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid painting id")
		return
	}

	item, err := a.paintings.ToggleVisibility(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaintingNotFound):
			respondError(c, http.StatusNotFound, "painting not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to update painting")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// MovePainting relocates a painting into another gallery.
func (a *API) MovePainting(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid painting id")
		return
	}

	var payload paintingMovePayload
	if !bindJSON(c, &payload, "gallery_id is required") {
		return
	}

	item, err := a.paintings.Move(id, payload.GalleryID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaintingNotFound):
			respondError(c, http.StatusNotFound, "painting not found")
		case errors.Is(err, service.ErrGalleryNotFound):
			respondError(c, http.StatusNotFound, "gallery not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to move painting")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// ReorderPaintings applies a new display order to the given paintings.
func (a *API) ReorderPaintings(c *gin.Context) {
	var payload paintingReorderPayload
	if !bindJSON(c, &payload, "paintingIds is required") {
		return
	}

	if err := a.paintings.Reorder(payload.PaintingIDs); err != nil {
		switch {
		case errors.Is(err, service.ErrPaintingOrder):
			respondError(c, http.StatusBadRequest, "invalid painting order")
		case errors.Is(err, service.ErrPaintingNotFound):
			respondError(c, http.StatusNotFound, "painting not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to reorder paintings")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "paintings reordered"})
}

// formImage reads the optional "image" multipart file, enforcing the allowed
// content types and the configured size cap. Returns false after writing an
// error response.
func (a *API) formImage(c *gin.Context, required bool) (*service.ImageUpload, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		if !required {
			return nil, true
		}
		respondError(c, http.StatusBadRequest, "painting image is required")
		return nil, false
	}

	contentType := strings.ToLower(strings.TrimSpace(file.Header.Get("Content-Type")))
	if _, ok := allowedImageTypes[contentType]; !ok {
		respondError(c, http.StatusBadRequest, "only jpeg, png and webp images are accepted")
		return nil, false
	}
	if a.maxUpload > 0 && file.Size > a.maxUpload {
		respondError(c, http.StatusBadRequest, "image exceeds the maximum upload size")
		return nil, false
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to read uploaded image")
		return nil, false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to read uploaded image")
		return nil, false
	}

	return &service.ImageUpload{Filename: file.Filename, Data: data}, true
}
