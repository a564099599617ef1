package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nadart/gallery/internal/service"
)

func TestCreatePaintingRequiresImage(t *testing.T) {
	api, _ := setupTestAPI(t, "painting-no-image")

	gallery, err := api.galleries.Create(service.GalleryInput{Name: "Main", Slug: "main"})
	if err != nil {
		t.Fatalf("seed gallery: %v", err)
	}

	body, contentType := buildMultipart(t, map[string]string{
		"gallery_id": strconv.Itoa(int(gallery.ID)),
		"title":      "No Image",
	}, "", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/paintings", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.CreatePainting(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreatePaintingMultipart(t *testing.T) {
	api, _ := setupTestAPI(t, "painting-create")

	gallery, err := api.galleries.Create(service.GalleryInput{Name: "Main", Slug: "main"})
	if err != nil {
		t.Fatalf("seed gallery: %v", err)
	}

	body, contentType := buildMultipart(t, map[string]string{
		"gallery_id": strconv.Itoa(int(gallery.ID)),
		"title":      "Sunrise",
		"technique":  "oil",
	}, "sunrise.jpg", testJPEG(t, 500, 400))

	req := httptest.NewRequest(http.MethodPost, "/api/paintings", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.CreatePainting(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Title             string `json:"title"`
		ImageFilename     string `json:"image_filename"`
		ThumbnailFilename string `json:"thumbnail_filename"`
		IsVisible         bool   `json:"is_visible"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Title != "Sunrise" {
		t.Fatalf("unexpected title %q", created.Title)
	}
	if created.ImageFilename == "" || created.ThumbnailFilename == "" {
		t.Fatalf("expected stored filenames, got %+v", created)
	}
	if !created.IsVisible {
		t.Fatal("new paintings should be visible")
	}
}

func TestCreatePaintingRejectsBadGalleryID(t *testing.T) {
	api, _ := setupTestAPI(t, "painting-bad-gallery")

	body, contentType := buildMultipart(t, map[string]string{
		"gallery_id": "not-a-number",
		"title":      "Broken",
	}, "broken.jpg", testJPEG(t, 300, 300))

	req := httptest.NewRequest(http.MethodPost, "/api/paintings", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.CreatePainting(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestUpdatePaintingPartialFields(t *testing.T) {
	api, _ := setupTestAPI(t, "painting-update")

	gallery, err := api.galleries.Create(service.GalleryInput{Name: "Main", Slug: "main"})
	if err != nil {
		t.Fatalf("seed gallery: %v", err)
	}
	item, err := api.paintings.Create(service.PaintingInput{
		GalleryID: gallery.ID,
		Title:     "Before",
		Technique: "oil",
	}, &service.ImageUpload{Filename: "before.jpg", Data: testJPEG(t, 400, 400)})
	if err != nil {
		t.Fatalf("seed painting: %v", err)
	}

	body, contentType := buildMultipart(t, map[string]string{"title": "After"}, "", nil)
	req := httptest.NewRequest(http.MethodPut, "/api/paintings/"+strconv.Itoa(int(item.ID)), body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(item.ID))}}

	api.UpdatePainting(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated struct {
		Title     string `json:"title"`
		Technique string `json:"technique"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.Title != "After" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
	if updated.Technique != "oil" {
		t.Fatalf("absent fields must stay untouched, got %q", updated.Technique)
	}
}

func TestReorderPaintings(t *testing.T) {
	api, _ := setupTestAPI(t, "painting-reorder")

	gallery, err := api.galleries.Create(service.GalleryInput{Name: "Main", Slug: "main"})
	if err != nil {
		t.Fatalf("seed gallery: %v", err)
	}

	var ids []uint
	for _, title := range []string{"a", "b"} {
		item, err := api.paintings.Create(service.PaintingInput{GalleryID: gallery.ID, Title: title}, &service.ImageUpload{
			Filename: title + ".jpg", Data: testJPEG(t, 200, 200),
		})
		if err != nil {
			t.Fatalf("seed painting %s: %v", title, err)
		}
		ids = append(ids, item.ID)
	}

	payload := map[string]any{"paintingIds": []uint{ids[1], ids[0]}}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, "/api/paintings/reorder", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.ReorderPaintings(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	list, err := api.paintings.List(gallery.ID)
	if err != nil {
		t.Fatalf("list paintings: %v", err)
	}
	if list[0].ID != ids[1] {
		t.Fatalf("expected painting %d first, got %d", ids[1], list[0].ID)
	}
}
