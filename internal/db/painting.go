package db

import "time"

// Painting 单幅作品记录。image/thumbnail 文件名指向所属画廊目录下的文件，
// 行存在时文件必须已经落盘（由写入顺序保证）。
type Painting struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	GalleryID         uint      `gorm:"index;not null" json:"gallery_id"`
	Title             string    `gorm:"not null" json:"title"`
	Technique         string    `json:"technique"`
	Description       string    `json:"description"`
	Dimensions        string    `json:"dimensions"`
	Medium            string    `json:"medium"`
	ImageFilename     string    `gorm:"not null" json:"image_filename"`
	ThumbnailFilename string    `json:"thumbnail_filename"`
	DisplayOrder      int       `gorm:"default:0" json:"display_order"`
	IsVisible         bool      `gorm:"default:true" json:"is_visible"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
