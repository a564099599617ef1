package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nadart/gallery/internal/db"
	"github.com/nadart/gallery/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Gallery{}, &db.Painting{}, &db.ResumeContent{}, &db.TimelineEntry{}, &db.ExpertiseArea{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestGalleryServiceCreateAssignsOrderAndFolder(t *testing.T) {
	gdb := setupServiceTestDB(t, "gallery-create")
	baseDir := t.TempDir()
	svc := NewGalleryService(gdb, storage.NewImageStore(baseDir))

	first, err := svc.Create(GalleryInput{Name: "Landscapes", Slug: "Land Scapes!!"})
	if err != nil {
		t.Fatalf("create first gallery: %v", err)
	}
	if first.Slug != "land-scapes" {
		t.Fatalf("expected sanitized slug land-scapes, got %q", first.Slug)
	}
	if first.DisplayOrder != 0 {
		t.Fatalf("expected display order 0, got %d", first.DisplayOrder)
	}

	second, err := svc.Create(GalleryInput{Name: "Portraits", Slug: "portraits"})
	if err != nil {
		t.Fatalf("create second gallery: %v", err)
	}
	if second.DisplayOrder != 1 {
		t.Fatalf("expected display order 1, got %d", second.DisplayOrder)
	}

	for _, sub := range []string{"originals", "thumbnails"} {
		dir := filepath.Join(baseDir, first.FolderName, sub)
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected folder %s: %v", dir, err)
		}
	}
}

func TestGalleryServiceCreateRequiresNameAndSlug(t *testing.T) {
	gdb := setupServiceTestDB(t, "gallery-validate")
	svc := NewGalleryService(gdb, storage.NewImageStore(t.TempDir()))

	if _, err := svc.Create(GalleryInput{Slug: "x"}); !errors.Is(err, ErrGalleryNameMissing) {
		t.Fatalf("expected ErrGalleryNameMissing, got %v", err)
	}
	if _, err := svc.Create(GalleryInput{Name: "X", Slug: "!!!"}); !errors.Is(err, ErrGallerySlugMissing) {
		t.Fatalf("expected ErrGallerySlugMissing, got %v", err)
	}
}

func TestGalleryServiceSingleMainInvariant(t *testing.T) {
	gdb := setupServiceTestDB(t, "gallery-main")
	svc := NewGalleryService(gdb, storage.NewImageStore(t.TempDir()))

	first, err := svc.Create(GalleryInput{Name: "First", Slug: "first", IsMain: true})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(GalleryInput{Name: "Second", Slug: "second", IsMain: true})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	var count int64
	if err := gdb.Model(&db.Gallery{}).Where("is_main = ?", true).Count(&count).Error; err != nil {
		t.Fatalf("count main galleries: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one main gallery, got %d", count)
	}

	main, err := svc.GetMain()
	if err != nil {
		t.Fatalf("get main: %v", err)
	}
	if main.ID != second.ID {
		t.Fatalf("expected gallery %d to be main, got %d", second.ID, main.ID)
	}

	// 通过更新把主画廊切回第一个
	isMain := true
	if _, err := svc.Update(first.ID, GalleryUpdate{IsMain: &isMain}); err != nil {
		t.Fatalf("promote first: %v", err)
	}
	main, err = svc.GetMain()
	if err != nil {
		t.Fatalf("get main after update: %v", err)
	}
	if main.ID != first.ID {
		t.Fatalf("expected gallery %d to be main, got %d", first.ID, main.ID)
	}
}

func TestGalleryServiceClearingMainLeavesNoMain(t *testing.T) {
	gdb := setupServiceTestDB(t, "gallery-demote")
	svc := NewGalleryService(gdb, storage.NewImageStore(t.TempDir()))

	main, err := svc.Create(GalleryInput{Name: "Main", Slug: "main", IsMain: true})
	if err != nil {
		t.Fatalf("create main: %v", err)
	}

	notMain := false
	if _, err := svc.Update(main.ID, GalleryUpdate{IsMain: &notMain}); err != nil {
		t.Fatalf("demote main: %v", err)
	}

	if _, err := svc.GetMain(); !errors.Is(err, ErrGalleryNotFound) {
		t.Fatalf("expected ErrGalleryNotFound after demotion, got %v", err)
	}
}

func TestGalleryServiceDeleteMainRejected(t *testing.T) {
	gdb := setupServiceTestDB(t, "gallery-delete-main")
	svc := NewGalleryService(gdb, storage.NewImageStore(t.TempDir()))

	main, err := svc.Create(GalleryInput{Name: "Main", Slug: "main", IsMain: true})
	if err != nil {
		t.Fatalf("create main: %v", err)
	}

	if err := svc.Delete(main.ID); !errors.Is(err, ErrGalleryIsMain) {
		t.Fatalf("expected ErrGalleryIsMain, got %v", err)
	}
}

func TestGalleryServiceDeleteCascades(t *testing.T) {
	gdb := setupServiceTestDB(t, "gallery-delete")
	baseDir := t.TempDir()
	store := storage.NewImageStore(baseDir)
	galleries := NewGalleryService(gdb, store)
	paintings := NewPaintingService(gdb, store)

	gallery, err := galleries.Create(GalleryInput{Name: "Doomed", Slug: "doomed"})
	if err != nil {
		t.Fatalf("create gallery: %v", err)
	}

	if _, err := paintings.Create(PaintingInput{GalleryID: gallery.ID, Title: "Work"}, &ImageUpload{
		Filename: "work.jpg",
		Data:     testJPEG(t, 500, 400),
	}); err != nil {
		t.Fatalf("create painting: %v", err)
	}

	if err := galleries.Delete(gallery.ID); err != nil {
		t.Fatalf("delete gallery: %v", err)
	}

	var count int64
	if err := gdb.Model(&db.Painting{}).Where("gallery_id = ?", gallery.ID).Count(&count).Error; err != nil {
		t.Fatalf("count paintings: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected paintings to be deleted with the gallery, got %d rows", count)
	}

	if _, err := os.Stat(filepath.Join(baseDir, gallery.FolderName)); !os.IsNotExist(err) {
		t.Fatal("gallery folder still exists after delete")
	}
}

func TestGalleryServiceGetBySlugReturnsVisiblePaintingsOnly(t *testing.T) {
	gdb := setupServiceTestDB(t, "gallery-slug")
	store := storage.NewImageStore(t.TempDir())
	galleries := NewGalleryService(gdb, store)
	paintings := NewPaintingService(gdb, store)

	gallery, err := galleries.Create(GalleryInput{Name: "Show", Slug: "show"})
	if err != nil {
		t.Fatalf("create gallery: %v", err)
	}

	visible, err := paintings.Create(PaintingInput{GalleryID: gallery.ID, Title: "Visible"}, &ImageUpload{
		Filename: "a.jpg", Data: testJPEG(t, 300, 300),
	})
	if err != nil {
		t.Fatalf("create visible painting: %v", err)
	}
	hidden, err := paintings.Create(PaintingInput{GalleryID: gallery.ID, Title: "Hidden"}, &ImageUpload{
		Filename: "b.jpg", Data: testJPEG(t, 300, 300),
	})
	if err != nil {
		t.Fatalf("create hidden painting: %v", err)
	}
	if _, err := paintings.ToggleVisibility(hidden.ID); err != nil {
		t.Fatalf("hide painting: %v", err)
	}

	detail, err := galleries.GetBySlug("show")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if len(detail.Paintings) != 1 {
		t.Fatalf("expected 1 visible painting, got %d", len(detail.Paintings))
	}
	if detail.Paintings[0].ID != visible.ID {
		t.Fatalf("expected painting %d, got %d", visible.ID, detail.Paintings[0].ID)
	}

	list, err := galleries.List()
	if err != nil {
		t.Fatalf("list galleries: %v", err)
	}
	if list[0].PaintingCount != 1 {
		t.Fatalf("expected painting count 1, got %d", list[0].PaintingCount)
	}
}

func TestGalleryServiceReorder(t *testing.T) {
	gdb := setupServiceTestDB(t, "gallery-reorder")
	svc := NewGalleryService(gdb, storage.NewImageStore(t.TempDir()))

	var ids []uint
	for _, slug := range []string{"one", "two", "three"} {
		item, err := svc.Create(GalleryInput{Name: slug, Slug: slug})
		if err != nil {
			t.Fatalf("create gallery %s: %v", slug, err)
		}
		ids = append(ids, item.ID)
	}

	reversed := []uint{ids[2], ids[1], ids[0]}
	if err := svc.Reorder(reversed); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	list, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for idx, want := range reversed {
		if list[idx].ID != want {
			t.Fatalf("position %d: expected gallery %d, got %d", idx, want, list[idx].ID)
		}
		if list[idx].DisplayOrder != idx {
			t.Fatalf("position %d: expected display order %d, got %d", idx, idx, list[idx].DisplayOrder)
		}
	}
}

func TestGalleryServiceReorderRejectsBadBatches(t *testing.T) {
	gdb := setupServiceTestDB(t, "gallery-reorder-bad")
	svc := NewGalleryService(gdb, storage.NewImageStore(t.TempDir()))

	item, err := svc.Create(GalleryInput{Name: "Solo", Slug: "solo"})
	if err != nil {
		t.Fatalf("create gallery: %v", err)
	}

	if err := svc.Reorder([]uint{0}); !errors.Is(err, ErrGalleryOrder) {
		t.Fatalf("expected ErrGalleryOrder for zero id, got %v", err)
	}
	if err := svc.Reorder([]uint{item.ID, item.ID}); !errors.Is(err, ErrGalleryOrder) {
		t.Fatalf("expected ErrGalleryOrder for duplicate ids, got %v", err)
	}
	if err := svc.Reorder([]uint{item.ID, 9999}); !errors.Is(err, ErrGalleryNotFound) {
		t.Fatalf("expected ErrGalleryNotFound for unknown id, got %v", err)
	}

	// 整批失败不应留下部分更新
	refreshed, err := svc.GetByID(item.ID)
	if err != nil {
		t.Fatalf("reload gallery: %v", err)
	}
	if refreshed.DisplayOrder != 0 {
		t.Fatalf("expected display order unchanged, got %d", refreshed.DisplayOrder)
	}
}

func TestSanitizeSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Land Scapes!!", "land-scapes"},
		{"  main  ", "main"},
		{"déjà-vu", "d-j-vu"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := SanitizeSlug(tc.in); got != tc.want {
			t.Fatalf("SanitizeSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
