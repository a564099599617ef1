package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nadart/gallery/internal/db"
	"github.com/nadart/gallery/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrGalleryNotFound    = errors.New("gallery not found")
	ErrGalleryNameMissing = errors.New("gallery name is required")
	ErrGallerySlugMissing = errors.New("gallery slug is required")
	ErrGalleryIsMain      = errors.New("cannot delete the main gallery")
	ErrGalleryOrder       = errors.New("invalid gallery order")
)

// GalleryService handles gallery CRUD and keeps the per-gallery storage
// folders in sync with the rows.
type GalleryService struct {
	db    *gorm.DB
	store *storage.ImageStore
}

// GalleryInput represents fields accepted when creating a gallery.
type GalleryInput struct {
	Name        string
	Slug        string
	Description string
	IsMain      bool
}

// GalleryUpdate carries the partial patch for an existing gallery.
// Nil fields are left untouched.
type GalleryUpdate struct {
	Name         *string
	Slug         *string
	Description  *string
	IsMain       *bool
	DisplayOrder *int
}

// GalleryWithCount pairs a gallery with its live visible-painting count.
type GalleryWithCount struct {
	db.Gallery
	PaintingCount int64 `json:"painting_count"`
}

// GalleryDetail bundles a gallery with its visible paintings in display order.
type GalleryDetail struct {
	db.Gallery
	Paintings []db.Painting `json:"paintings"`
}

// NewGalleryService creates a GalleryService instance.
func NewGalleryService(gdb *gorm.DB, store *storage.ImageStore) *GalleryService {
	return &GalleryService{db: gdb, store: store}
}

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns = regexp.MustCompile(`-+`)
)

// SanitizeSlug lowercases a slug and collapses disallowed runes to hyphens.
func SanitizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	slug = slugDisallowed.ReplaceAllString(slug, "-")
	slug = slugHyphenRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// List returns all galleries in display order with visible-painting counts.
func (s *GalleryService) List() ([]GalleryWithCount, error) {
	var items []GalleryWithCount
	if err := s.db.Model(&db.Gallery{}).
		Select("galleries.*, (SELECT COUNT(*) FROM paintings p WHERE p.gallery_id = galleries.id AND p.is_visible = ?) AS painting_count", true).
		Order("display_order asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID fetches a gallery by id.
func (s *GalleryService) GetByID(id uint) (*db.Gallery, error) {
	var item db.Gallery
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetBySlug fetches a gallery by slug together with its visible paintings.
func (s *GalleryService) GetBySlug(slug string) (*GalleryDetail, error) {
	var item db.Gallery
	if err := s.db.Where("slug = ?", slug).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return s.withVisiblePaintings(item)
}

// GetMain fetches the gallery flagged as main together with its visible
// paintings.
func (s *GalleryService) GetMain() (*GalleryDetail, error) {
	var item db.Gallery
	if err := s.db.Where("is_main = ?", true).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return s.withVisiblePaintings(item)
}

func (s *GalleryService) withVisiblePaintings(item db.Gallery) (*GalleryDetail, error) {
	var paintings []db.Painting
	if err := s.db.
		Where("gallery_id = ? AND is_visible = ?", item.ID, true).
		Order("display_order asc").
		Find(&paintings).Error; err != nil {
		return nil, err
	}
	return &GalleryDetail{Gallery: item, Paintings: paintings}, nil
}

// Create inserts a new gallery and provisions its storage folder. Demoting an
// existing main gallery and inserting happen in one transaction so the
// single-main invariant holds even under a crash between statements.
func (s *GalleryService) Create(input GalleryInput) (*db.Gallery, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrGalleryNameMissing
	}
	slug := SanitizeSlug(input.Slug)
	if slug == "" {
		return nil, ErrGallerySlugMissing
	}

	item := db.Gallery{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		IsMain:      input.IsMain,
		FolderName:  slug,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if input.IsMain {
			if err := tx.Model(&db.Gallery{}).Where("is_main = ?", true).Update("is_main", false).Error; err != nil {
				return err
			}
		}

		var maxOrder int
		if err := tx.Model(&db.Gallery{}).Select("COALESCE(MAX(display_order), -1)").Scan(&maxOrder).Error; err != nil {
			return err
		}
		item.DisplayOrder = maxOrder + 1

		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.EnsureGalleryFolders(item.FolderName); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies a partial patch. Setting is_main true demotes any other main
// gallery inside the same transaction; clearing it is applied as-is and can
// leave no main gallery, in which case GetMain reports not-found. The storage
// folder keeps its original name even when the slug changes.
func (s *GalleryService) Update(id uint, patch GalleryUpdate) (*db.Gallery, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrGalleryNameMissing
		}
		updates["name"] = name
	}
	if patch.Slug != nil {
		slug := SanitizeSlug(*patch.Slug)
		if slug == "" {
			return nil, ErrGallerySlugMissing
		}
		updates["slug"] = slug
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.IsMain != nil {
		updates["is_main"] = *patch.IsMain
	}
	if patch.DisplayOrder != nil {
		updates["display_order"] = *patch.DisplayOrder
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if patch.IsMain != nil && *patch.IsMain {
			if err := tx.Model(&db.Gallery{}).
				Where("is_main = ? AND id != ?", true, id).
				Update("is_main", false).Error; err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(item).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Delete removes a non-main gallery, its paintings and its storage folder.
// Rows go first so a failed folder removal never leaves dangling references.
func (s *GalleryService) Delete(id uint) error {
	item, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if item.IsMain {
		return ErrGalleryIsMain
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_id = ?", id).Delete(&db.Painting{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Gallery{}, id).Error
	})
	if err != nil {
		return err
	}

	return s.store.DeleteGalleryFolder(item.FolderName)
}

// Reorder assigns display orders 0..N-1 following the given id sequence.
// The batch is a single transaction: an unknown id aborts the whole reorder.
func (s *GalleryService) Reorder(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return ErrGalleryOrder
		}
		if _, ok := seen[id]; ok {
			return ErrGalleryOrder
		}
		seen[id] = struct{}{}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range ids {
			result := tx.Model(&db.Gallery{}).Where("id = ?", id).Update("display_order", idx)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrGalleryNotFound
			}
		}
		return nil
	})
}
