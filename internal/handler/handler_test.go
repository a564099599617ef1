package handler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/nadart/gallery/internal/db"
	"github.com/nadart/gallery/internal/service"
	"github.com/nadart/gallery/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testAdminEmail = "admin@example.com"

type googleVerifierStub struct {
	identity *GoogleIdentity
	err      error
}

func (s *googleVerifierStub) Verify(context.Context, string) (*GoogleIdentity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func setupTestAPI(t *testing.T, name string) (*API, *googleVerifierStub) {
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

	store := storage.NewImageStore(t.TempDir())
	tokens := service.NewTokenManager("handler-test-secret", time.Hour)
	google := &googleVerifierStub{}

	api := NewAPI(
		gdb,
		service.NewGalleryService(gdb, store),
		service.NewPaintingService(gdb, store),
		service.NewResumeService(gdb),
		service.NewAuthService(gdb, tokens, testAdminEmail),
		tokens,
		google,
		10<<20,
	)
	return api, google
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

// buildMultipart assembles a multipart body with text fields and an optional
// image part carrying an explicit content type.
func buildMultipart(t *testing.T, fields map[string]string, imageName string, imageData []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}

	if imageName != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, imageName))
		header.Set("Content-Type", "image/jpeg")
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create image part: %v", err)
		}
		if _, err := part.Write(imageData); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}
