package service

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/nadart/gallery/internal/db"
	"gorm.io/gorm"
)

var (
	ErrResumeContentNotFound  = errors.New("resume content not found")
	ErrTimelineEntryNotFound  = errors.New("timeline entry not found")
	ErrTimelineFieldsMissing  = errors.New("timeline date range and title are required")
	ErrExpertiseAreaNotFound  = errors.New("expertise area not found")
	ErrExpertiseFieldsMissing = errors.New("expertise icon and title are required")
)

// ResumeService handles the resume content store plus the ordered timeline
// and expertise lists.
type ResumeService struct {
	db *gorm.DB
}

// TimelineInput represents fields accepted when creating a timeline entry.
// A nil Items keeps the column NULL; an empty slice stores an empty list.
type TimelineInput struct {
	DateRange   string
	Title       string
	Description string
	Items       *[]string
}

// TimelineUpdate carries the partial patch for a timeline entry.
type TimelineUpdate struct {
	DateRange    *string
	Title        *string
	Description  *string
	Items        *[]string
	DisplayOrder *int
}

// TimelineEntryView decorates a timeline entry with its decoded items list.
type TimelineEntryView struct {
	db.TimelineEntry
	Items []string `json:"items"`
}

// ExpertiseInput represents fields accepted when creating an expertise area.
type ExpertiseInput struct {
	Icon        string
	Title       string
	Description string
}

// ExpertiseUpdate carries the partial patch for an expertise area.
type ExpertiseUpdate struct {
	Icon         *string
	Title        *string
	Description  *string
	DisplayOrder *int
}

// ResumeView is the aggregated public resume payload.
type ResumeView struct {
	Content   map[string]string   `json:"content"`
	Timeline  []TimelineEntryView `json:"timeline"`
	Expertise []db.ExpertiseArea  `json:"expertise"`
}

// NewResumeService creates a ResumeService instance.
func NewResumeService(gdb *gorm.DB) *ResumeService {
	return &ResumeService{db: gdb}
}

// GetAll returns the content map, timeline and expertise lists in one payload.
func (s *ResumeService) GetAll() (*ResumeView, error) {
	var rows []db.ResumeContent
	if err := s.db.Order("section_order asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	content := make(map[string]string, len(rows))
	for _, row := range rows {
		content[row.SectionKey] = row.Content
	}

	timeline, err := s.Timeline()
	if err != nil {
		return nil, err
	}
	expertise, err := s.Expertise()
	if err != nil {
		return nil, err
	}

	return &ResumeView{Content: content, Timeline: timeline, Expertise: expertise}, nil
}

// GetContent fetches one content section by key.
func (s *ResumeService) GetContent(key string) (*db.ResumeContent, error) {
	var row db.ResumeContent
	if err := s.db.Where("section_key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeContentNotFound
		}
		return nil, err
	}
	return &row, nil
}

// UpsertContent updates the section when the key exists and inserts it with
// the next section order when it does not.
func (s *ResumeService) UpsertContent(key, content string) (*db.ResumeContent, error) {
	key = strings.TrimSpace(key)

	existing, err := s.GetContent(key)
	if err != nil && !errors.Is(err, ErrResumeContentNotFound) {
		return nil, err
	}

	if existing != nil {
		if err := s.db.Model(existing).Update("content", content).Error; err != nil {
			return nil, err
		}
		return s.GetContent(key)
	}

	row := db.ResumeContent{SectionKey: key, Content: content}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		if err := tx.Model(&db.ResumeContent{}).Select("COALESCE(MAX(section_order), -1)").Scan(&maxOrder).Error; err != nil {
			return err
		}
		row.SectionOrder = maxOrder + 1
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Timeline returns all timeline entries in display order.
func (s *ResumeService) Timeline() ([]TimelineEntryView, error) {
	var rows []db.TimelineEntry
	if err := s.db.Order("display_order asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]TimelineEntryView, 0, len(rows))
	for _, row := range rows {
		view, err := timelineView(row)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// GetTimelineEntry fetches one timeline entry by id.
func (s *ResumeService) GetTimelineEntry(id uint) (*TimelineEntryView, error) {
	var row db.TimelineEntry
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimelineEntryNotFound
		}
		return nil, err
	}

	view, err := timelineView(row)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// CreateTimelineEntry inserts a timeline entry with the next display order.
func (s *ResumeService) CreateTimelineEntry(input TimelineInput) (*TimelineEntryView, error) {
	dateRange := strings.TrimSpace(input.DateRange)
	title := strings.TrimSpace(input.Title)
	if dateRange == "" || title == "" {
		return nil, ErrTimelineFieldsMissing
	}

	encoded, err := encodeItems(input.Items)
	if err != nil {
		return nil, err
	}

	row := db.TimelineEntry{
		DateRange:   dateRange,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Items:       encoded,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		if err := tx.Model(&db.TimelineEntry{}).Select("COALESCE(MAX(display_order), -1)").Scan(&maxOrder).Error; err != nil {
			return err
		}
		row.DisplayOrder = maxOrder + 1
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetTimelineEntry(row.ID)
}

// UpdateTimelineEntry applies a partial patch to a timeline entry.
func (s *ResumeService) UpdateTimelineEntry(id uint, patch TimelineUpdate) (*TimelineEntryView, error) {
	var row db.TimelineEntry
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimelineEntryNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.DateRange != nil {
		dateRange := strings.TrimSpace(*patch.DateRange)
		if dateRange == "" {
			return nil, ErrTimelineFieldsMissing
		}
		updates["date_range"] = dateRange
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrTimelineFieldsMissing
		}
		updates["title"] = title
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Items != nil {
		encoded, err := encodeItems(patch.Items)
		if err != nil {
			return nil, err
		}
		updates["items"] = encoded
	}
	if patch.DisplayOrder != nil {
		updates["display_order"] = *patch.DisplayOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(&row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetTimelineEntry(id)
}

// DeleteTimelineEntry removes a timeline entry.
func (s *ResumeService) DeleteTimelineEntry(id uint) error {
	var row db.TimelineEntry
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimelineEntryNotFound
		}
		return err
	}
	return s.db.Delete(&row).Error
}

// Expertise returns all expertise areas in display order.
func (s *ResumeService) Expertise() ([]db.ExpertiseArea, error) {
	var rows []db.ExpertiseArea
	if err := s.db.Order("display_order asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetExpertiseArea fetches one expertise area by id.
func (s *ResumeService) GetExpertiseArea(id uint) (*db.ExpertiseArea, error) {
	var row db.ExpertiseArea
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpertiseAreaNotFound
		}
		return nil, err
	}
	return &row, nil
}

// CreateExpertiseArea inserts an expertise area with the next display order.
func (s *ResumeService) CreateExpertiseArea(input ExpertiseInput) (*db.ExpertiseArea, error) {
	icon := strings.TrimSpace(input.Icon)
	title := strings.TrimSpace(input.Title)
	if icon == "" || title == "" {
		return nil, ErrExpertiseFieldsMissing
	}

	row := db.ExpertiseArea{
		Icon:        icon,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		if err := tx.Model(&db.ExpertiseArea{}).Select("COALESCE(MAX(display_order), -1)").Scan(&maxOrder).Error; err != nil {
			return err
		}
		row.DisplayOrder = maxOrder + 1
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateExpertiseArea applies a partial patch to an expertise area.
func (s *ResumeService) UpdateExpertiseArea(id uint, patch ExpertiseUpdate) (*db.ExpertiseArea, error) {
	row, err := s.GetExpertiseArea(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Icon != nil {
		icon := strings.TrimSpace(*patch.Icon)
		if icon == "" {
			return nil, ErrExpertiseFieldsMissing
		}
		updates["icon"] = icon
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrExpertiseFieldsMissing
		}
		updates["title"] = title
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.DisplayOrder != nil {
		updates["display_order"] = *patch.DisplayOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetExpertiseArea(id)
}

// DeleteExpertiseArea removes an expertise area.
func (s *ResumeService) DeleteExpertiseArea(id uint) error {
	row, err := s.GetExpertiseArea(id)
	if err != nil {
		return err
	}
	return s.db.Delete(row).Error
}

// encodeItems serializes an items list. A nil list stays NULL so readers can
// tell "never set" apart from "explicitly empty".
func encodeItems(items *[]string) (*string, error) {
	if items == nil {
		return nil, nil
	}
	raw, err := json.Marshal(*items)
	if err != nil {
		return nil, err
	}
	encoded := string(raw)
	return &encoded, nil
}

func timelineView(row db.TimelineEntry) (TimelineEntryView, error) {
	view := TimelineEntryView{TimelineEntry: row}
	if row.Items == nil {
		return view, nil
	}

	var items []string
	if err := json.Unmarshal([]byte(*row.Items), &items); err != nil {
		return view, err
	}
	if items == nil {
		items = []string{}
	}
	view.Items = items
	return view, nil
}
