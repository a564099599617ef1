package service

import (
	"errors"
	"strings"

	"github.com/nadart/gallery/internal/db"
	"github.com/nadart/gallery/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrPaintingNotFound     = errors.New("painting not found")
	ErrPaintingTitleMissing = errors.New("painting title is required")
	ErrPaintingImageMissing = errors.New("painting image is required")
	ErrPaintingOrder        = errors.New("invalid painting order")
)

// ImageUpload carries raw uploaded image bytes and the client filename.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// PaintingService handles painting CRUD. Image files are written before the
// row referencing them and removed after the row stops referencing them, so a
// stored row never points at files that were never on disk.
type PaintingService struct {
	db    *gorm.DB
	store *storage.ImageStore
}

// PaintingInput represents fields accepted when creating a painting.
type PaintingInput struct {
	GalleryID   uint
	Title       string
	Technique   string
	Description string
	Dimensions  string
	Medium      string
}

// PaintingUpdate carries the partial patch for an existing painting.
// Nil fields are left untouched.
type PaintingUpdate struct {
	GalleryID    *uint
	Title        *string
	Technique    *string
	Description  *string
	Dimensions   *string
	Medium       *string
	DisplayOrder *int
	IsVisible    *bool
}

// NewPaintingService creates a PaintingService instance.
func NewPaintingService(gdb *gorm.DB, store *storage.ImageStore) *PaintingService {
	return &PaintingService{db: gdb, store: store}
}

// List returns paintings in display order, optionally scoped to one gallery.
// A galleryID of zero lists everything.
func (s *PaintingService) List(galleryID uint) ([]db.Painting, error) {
	query := s.db.Model(&db.Painting{})
	if galleryID != 0 {
		query = query.Where("gallery_id = ?", galleryID)
	}

	var items []db.Painting
	if err := query.Order("display_order asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID fetches a painting by id.
func (s *PaintingService) GetByID(id uint) (*db.Painting, error) {
	var item db.Painting
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaintingNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create stores the image pair and inserts the row referencing it. The owning
// gallery is resolved first so uploads never land in a folder without a row.
func (s *PaintingService) Create(input PaintingInput, image *ImageUpload) (*db.Painting, error) {
	if image == nil || len(image.Data) == 0 {
		return nil, ErrPaintingImageMissing
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrPaintingTitleMissing
	}

	gallery, err := s.gallery(input.GalleryID)
	if err != nil {
		return nil, err
	}

	pair, err := s.store.SaveImage(gallery.FolderName, image.Filename, image.Data)
	if err != nil {
		return nil, err
	}

	item := db.Painting{
		GalleryID:         gallery.ID,
		Title:             title,
		Technique:         strings.TrimSpace(input.Technique),
		Description:       strings.TrimSpace(input.Description),
		Dimensions:        strings.TrimSpace(input.Dimensions),
		Medium:            strings.TrimSpace(input.Medium),
		ImageFilename:     pair.Original,
		ThumbnailFilename: pair.Thumbnail,
		IsVisible:         true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		if err := tx.Model(&db.Painting{}).
			Where("gallery_id = ?", gallery.ID).
			Select("COALESCE(MAX(display_order), -1)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}
		item.DisplayOrder = maxOrder + 1

		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies a partial patch. The patch is validated in full before any
// file is written, deleted or moved, so a rejected update leaves the stored
// pair untouched. A replacement image is written before the old files are
// deleted, so a failed save loses nothing. A gallery change moves the current
// files into the destination folder before the row update.
func (s *PaintingService) Update(id uint, patch PaintingUpdate, image *ImageUpload) (*db.Painting, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	gallery, err := s.gallery(item.GalleryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.GalleryID != nil {
		updates["gallery_id"] = *patch.GalleryID
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrPaintingTitleMissing
		}
		updates["title"] = title
	}
	if patch.Technique != nil {
		updates["technique"] = strings.TrimSpace(*patch.Technique)
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Dimensions != nil {
		updates["dimensions"] = strings.TrimSpace(*patch.Dimensions)
	}
	if patch.Medium != nil {
		updates["medium"] = strings.TrimSpace(*patch.Medium)
	}
	if patch.DisplayOrder != nil {
		updates["display_order"] = *patch.DisplayOrder
	}
	if patch.IsVisible != nil {
		updates["is_visible"] = *patch.IsVisible
	}

	var target *db.Gallery
	if patch.GalleryID != nil && *patch.GalleryID != item.GalleryID {
		if target, err = s.gallery(*patch.GalleryID); err != nil {
			return nil, err
		}
	}

	pair := storage.ImagePair{Original: item.ImageFilename, Thumbnail: item.ThumbnailFilename}
	if image != nil {
		newPair, err := s.store.SaveImage(gallery.FolderName, image.Filename, image.Data)
		if err != nil {
			return nil, err
		}
		if err := s.store.DeleteImage(gallery.FolderName, pair); err != nil {
			return nil, err
		}
		pair = newPair
		updates["image_filename"] = pair.Original
		updates["thumbnail_filename"] = pair.Thumbnail
	}

	if target != nil {
		if err := s.store.MoveImage(gallery.FolderName, target.FolderName, pair); err != nil {
			return nil, err
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(item).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetByID(id)
}

// Delete removes the image files and then the row.
func (s *PaintingService) Delete(id uint) error {
	item, err := s.GetByID(id)
	if err != nil {
		return err
	}
	gallery, err := s.gallery(item.GalleryID)
	if err != nil {
		return err
	}

	pair := storage.ImagePair{Original: item.ImageFilename, Thumbnail: item.ThumbnailFilename}
	if err := s.store.DeleteImage(gallery.FolderName, pair); err != nil {
		return err
	}

	return s.db.Delete(&db.Painting{}, id).Error
}

// ToggleVisibility flips the visibility flag.
func (s *PaintingService) ToggleVisibility(id uint) (*db.Painting, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(item).Update("is_visible", !item.IsVisible).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Move relocates the painting's files into the target gallery folder and then
// updates the owning gallery reference.
func (s *PaintingService) Move(id, galleryID uint) (*db.Painting, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	from, err := s.gallery(item.GalleryID)
	if err != nil {
		return nil, err
	}
	to, err := s.gallery(galleryID)
	if err != nil {
		return nil, err
	}

	pair := storage.ImagePair{Original: item.ImageFilename, Thumbnail: item.ThumbnailFilename}
	if err := s.store.MoveImage(from.FolderName, to.FolderName, pair); err != nil {
		return nil, err
	}

	if err := s.db.Model(item).Update("gallery_id", to.ID).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Reorder assigns display orders 0..N-1 following the given id sequence.
// Same all-or-nothing batch semantics as gallery reordering.
func (s *PaintingService) Reorder(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return ErrPaintingOrder
		}
		if _, ok := seen[id]; ok {
			return ErrPaintingOrder
		}
		seen[id] = struct{}{}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range ids {
			result := tx.Model(&db.Painting{}).Where("id = ?", id).Update("display_order", idx)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrPaintingNotFound
			}
		}
		return nil
	})
}

func (s *PaintingService) gallery(id uint) (*db.Gallery, error) {
	var gallery db.Gallery
	if err := s.db.First(&gallery, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return &gallery, nil
}
