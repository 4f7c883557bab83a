package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/radioclub/internal/db"
	"gorm.io/gorm"
)

var (
	ErrGalleryNotFound     = errors.New("gallery page not found")
	ErrGalleryImageMissing = errors.New("gallery image is required")
)

// DefaultGalleryPageSize is the number of galleries per gallery index page.
const DefaultGalleryPageSize = 12

// GalleryService lists galleries and maintains their ordered images.
type GalleryService struct {
	db       *gorm.DB
	pageSize int
}

// GalleryIndex is the context of a gallery index page.
type GalleryIndex struct {
	Galleries  []db.Page
	Pagination Pagination
}

// GalleryImageInput is one image of a gallery, in display order.
type GalleryImageInput struct {
	ImageID uint
	Caption string
}

// NewGalleryService creates a GalleryService; pageSize <= 0 falls back to DefaultGalleryPageSize.
func NewGalleryService(gdb *gorm.DB, pageSize int) *GalleryService {
	return &GalleryService{db: gdb, pageSize: normalizePerPage(pageSize, DefaultGalleryPageSize)}
}

// Index lists the live galleries below index, most recent date first.
func (s *GalleryService) Index(index *db.Page, rawPage string) (GalleryIndex, error) {
	var result GalleryIndex

	query := liveDescendants(s.db, index, PageTypeGallery)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return result, fmt.Errorf("count galleries: %w", err)
	}
	result.Pagination = Paginate(ParsePageNumber(rawPage), total, s.pageSize)

	if err := query.
		Preload("HeaderImage").
		Order("pages.date_from desc").
		Order("pages.path asc").
		Limit(result.Pagination.PerPage).
		Offset(result.Pagination.Offset).
		Find(&result.Galleries).Error; err != nil {
		return result, fmt.Errorf("list galleries: %w", err)
	}
	return result, nil
}

// Images returns the images of a gallery page in display order.
func (s *GalleryService) Images(pageID uint) ([]db.GalleryImage, error) {
	var items []db.GalleryImage
	if err := s.db.Preload("Image").
		Where("page_id = ?", pageID).
		Order("sort_order asc").Order("id asc").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	return items, nil
}

// SetImages replaces the images of a gallery page, keeping the given order.
func (s *GalleryService) SetImages(pageID uint, inputs []GalleryImageInput) ([]db.GalleryImage, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		page, err := findPage(tx, pageID)
		if err != nil {
			return err
		}
		if page.Type != PageTypeGallery {
			return ErrGalleryNotFound
		}

		ids := make([]uint, 0, len(inputs))
		for _, input := range inputs {
			if input.ImageID == 0 {
				return ErrGalleryImageMissing
			}
			ids = append(ids, input.ImageID)
		}
		if unique := uniqueIDs(ids); len(unique) > 0 {
			var count int64
			if err := tx.Model(&db.Image{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
				return err
			}
			if count != int64(len(unique)) {
				return ErrImageNotFound
			}
		}

		if err := tx.Where("page_id = ?", pageID).Delete(&db.GalleryImage{}).Error; err != nil {
			return fmt.Errorf("clear gallery images: %w", err)
		}
		for index, input := range inputs {
			item := db.GalleryImage{
				PageID:    pageID,
				ImageID:   input.ImageID,
				Caption:   strings.TrimSpace(input.Caption),
				SortOrder: index,
			}
			if err := tx.Omit("Image").Create(&item).Error; err != nil {
				return fmt.Errorf("add gallery image: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Images(pageID)
}

// AddImage appends an image at the end of a gallery.
func (s *GalleryService) AddImage(pageID uint, input GalleryImageInput) (*db.GalleryImage, error) {
	page, err := findPage(s.db, pageID)
	if err != nil {
		return nil, err
	}
	if page.Type != PageTypeGallery {
		return nil, ErrGalleryNotFound
	}
	if input.ImageID == 0 {
		return nil, ErrGalleryImageMissing
	}
	if exists, err := recordExists(s.db, &db.Image{}, input.ImageID); err != nil {
		return nil, err
	} else if !exists {
		return nil, ErrImageNotFound
	}

	sortOrder, err := s.nextSortOrder(pageID)
	if err != nil {
		return nil, err
	}

	item := db.GalleryImage{
		PageID:    pageID,
		ImageID:   input.ImageID,
		Caption:   strings.TrimSpace(input.Caption),
		SortOrder: sortOrder,
	}
	if err := s.db.Omit("Image").Create(&item).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Image").First(&item, item.ID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *GalleryService) nextSortOrder(pageID uint) (int, error) {
	var maxOrder int
	if err := s.db.Model(&db.GalleryImage{}).
		Where("page_id = ?", pageID).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}
