package service

import (
	"github.com/radioclub/internal/blocks"
	"github.com/radioclub/internal/db"
	"gorm.io/gorm"
)

// BlockResolver looks up block references in the database. Pages that are not
// live do not resolve, so links to them fall back to plain text.
type BlockResolver struct {
	db *gorm.DB
}

// NewBlockResolver creates a BlockResolver.
func NewBlockResolver(gdb *gorm.DB) *BlockResolver {
	return &BlockResolver{db: gdb}
}

// ResolveImage implements blocks.Resolver.
func (r *BlockResolver) ResolveImage(id uint) (blocks.ImageRef, bool) {
	if id == 0 {
		return blocks.ImageRef{}, false
	}
	var img db.Image
	if err := r.db.Select("id", "title", "url", "width", "height").First(&img, id).Error; err != nil {
		return blocks.ImageRef{}, false
	}
	return blocks.ImageRef{URL: img.URL, Title: img.Title, Width: img.Width, Height: img.Height}, true
}

// ResolvePageURL implements blocks.Resolver.
func (r *BlockResolver) ResolvePageURL(id uint) (string, bool) {
	if id == 0 {
		return "", false
	}
	var page db.Page
	if err := r.db.Select("id", "url_path").Where("live = ?", true).First(&page, id).Error; err != nil {
		return "", false
	}
	return page.URLPath, true
}

// NewBlockRenderer returns a block renderer backed by the database.
func NewBlockRenderer(gdb *gorm.DB) *blocks.Renderer {
	return blocks.NewRenderer(NewBlockResolver(gdb))
}
