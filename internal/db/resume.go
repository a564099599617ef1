package db

import "time"

// ResumeContent 简历分区文本，按 section_key 做 upsert。
type ResumeContent struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	SectionKey   string    `gorm:"uniqueIndex;not null" json:"section_key"`
	Content      string    `json:"content"`
	SectionOrder int       `gorm:"default:0" json:"section_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TimelineEntry 履历时间线条目。Items 为序列化后的明细列表，
// NULL 与空列表需要区分，因此使用指针列。
type TimelineEntry struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	DateRange    string    `gorm:"not null" json:"date_range"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	Items        *string   `json:"-"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ExpertiseArea 专长领域条目
type ExpertiseArea struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Icon         string    `gorm:"not null" json:"icon"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
