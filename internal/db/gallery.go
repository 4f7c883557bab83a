package db

// GalleryImage is one ordered image of a gallery page.
type GalleryImage struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	PageID    uint   `gorm:"index;not null" json:"page_id"`
	ImageID   uint   `gorm:"index;not null" json:"image_id"`
	Image     Image  `gorm:"foreignKey:ImageID" json:"image"`
	Caption   string `gorm:"size:255" json:"caption"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}
