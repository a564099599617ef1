package db

import "time"

// Gallery 画廊模型：一组作品及其专属的存储目录。
// is_main 在任意时刻至多允许一条为 true。
type Gallery struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Slug         string    `gorm:"uniqueIndex;not null" json:"slug"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description"`
	IsMain       bool      `gorm:"default:false" json:"is_main"`
	FolderName   string    `gorm:"not null" json:"folder_name"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Paintings []Painting `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
