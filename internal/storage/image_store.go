package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ThumbnailWidth is the fixed width thumbnails are resized to.
// Smaller originals are never upscaled.
const ThumbnailWidth = 400

// ImagePair names a stored original and its derived thumbnail.
type ImagePair struct {
	Original  string
	Thumbnail string
}

// ImageStore manages gallery image files under a base directory.
// Every gallery folder holds an originals/ and a thumbnails/ subdirectory.
type ImageStore struct {
	baseDir string
}

// NewImageStore creates an ImageStore rooted at baseDir.
func NewImageStore(baseDir string) *ImageStore {
	return &ImageStore{baseDir: baseDir}
}

// EnsureGalleryFolders creates the originals/thumbnails directory pair for a
// gallery. Safe to call repeatedly.
func (s *ImageStore) EnsureGalleryFolders(folder string) error {
	for _, sub := range []string{"originals", "thumbnails"} {
		if err := os.MkdirAll(filepath.Join(s.baseDir, folder, sub), 0o755); err != nil {
			return err
		}
	}
	return nil
}

var (
	disallowedRunes = regexp.MustCompile(`[^a-z0-9.-]+`)
	hyphenRuns      = regexp.MustCompile(`-+`)
)

// SanitizeFilename lowercases a name and collapses disallowed runes to hyphens.
func SanitizeFilename(name string) string {
	name = strings.ToLower(name)
	name = disallowedRunes.ReplaceAllString(name, "-")
	name = hyphenRuns.ReplaceAllString(name, "-")
	return strings.Trim(name, "-")
}

// SaveImage writes the original bytes under originals/ and a derived thumbnail
// under thumbnails/, both named with a millisecond timestamp prefix so repeated
// uploads of the same file never collide. The thumbnail carries a "thumb-"
// prefix; WebP sources are re-encoded as JPEG because Go has no webp encoder.
func (s *ImageStore) SaveImage(folder, originalName string, data []byte) (ImagePair, error) {
	if err := s.EnsureGalleryFolders(folder); err != nil {
		return ImagePair{}, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ImagePair{}, fmt.Errorf("decode image: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	base := SanitizeFilename(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
	filename := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), base, ext)

	thumbName := "thumb-" + filename
	if format == "webp" {
		thumbName = "thumb-" + strings.TrimSuffix(filename, ext) + ".jpg"
	}

	if err := os.WriteFile(filepath.Join(s.baseDir, folder, "originals", filename), data, 0o644); err != nil {
		return ImagePair{}, err
	}

	if err := writeThumbnail(filepath.Join(s.baseDir, folder, "thumbnails", thumbName), img, format); err != nil {
		return ImagePair{}, err
	}

	return ImagePair{Original: filename, Thumbnail: thumbName}, nil
}

// DeleteImage removes the original and the thumbnail. Missing files are not an
// error so deletes stay idempotent.
func (s *ImageStore) DeleteImage(folder string, pair ImagePair) error {
	paths := make([]string, 0, 2)
	if pair.Original != "" {
		paths = append(paths, filepath.Join(s.baseDir, folder, "originals", pair.Original))
	}
	if pair.Thumbnail != "" {
		paths = append(paths, filepath.Join(s.baseDir, folder, "thumbnails", pair.Thumbnail))
	}

	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// MoveImage relocates both files into another gallery folder, creating the
// destination directories first. Files already gone are skipped.
func (s *ImageStore) MoveImage(fromFolder, toFolder string, pair ImagePair) error {
	if err := s.EnsureGalleryFolders(toFolder); err != nil {
		return err
	}

	moves := make([][2]string, 0, 2)
	if pair.Original != "" {
		moves = append(moves, [2]string{
			filepath.Join(s.baseDir, fromFolder, "originals", pair.Original),
			filepath.Join(s.baseDir, toFolder, "originals", pair.Original),
		})
	}
	if pair.Thumbnail != "" {
		moves = append(moves, [2]string{
			filepath.Join(s.baseDir, fromFolder, "thumbnails", pair.Thumbnail),
			filepath.Join(s.baseDir, toFolder, "thumbnails", pair.Thumbnail),
		})
	}

	for _, move := range moves {
		if err := os.Rename(move[0], move[1]); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
	}
	return nil
}

// DeleteGalleryFolder removes a gallery directory and everything under it.
func (s *ImageStore) DeleteGalleryFolder(folder string) error {
	return os.RemoveAll(filepath.Join(s.baseDir, folder))
}

func writeThumbnail(path string, img image.Image, format string) error {
	thumb := resizeToWidth(img, ThumbnailWidth)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if format == "png" {
		return png.Encode(out, thumb)
	}
	return jpeg.Encode(out, thumb, &jpeg.Options{Quality: 85})
}

// resizeToWidth scales proportionally to the target width without upscaling.
func resizeToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= width {
		return img
	}

	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
