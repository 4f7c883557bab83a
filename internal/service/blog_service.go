package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/radioclub/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
)

// DefaultBlogPageSize is the number of posts per blog index page.
const DefaultBlogPageSize = 9

// BlogService lists posts and manages blog categories.
type BlogService struct {
	db       *gorm.DB
	pageSize int
}

// BlogIndex is the context of a blog index page.
type BlogIndex struct {
	Posts           []db.Page
	Pagination      Pagination
	Categories      []db.BlogCategory
	CurrentCategory string
}

// NewBlogService creates a BlogService; pageSize <= 0 falls back to DefaultBlogPageSize.
func NewBlogService(gdb *gorm.DB, pageSize int) *BlogService {
	return &BlogService{db: gdb, pageSize: normalizePerPage(pageSize, DefaultBlogPageSize)}
}

// Index lists the live posts below index, newest publication first, optionally
// restricted to the category with slug category. rawPage is the ?page= value.
func (s *BlogService) Index(index *db.Page, category string, rawPage string) (BlogIndex, error) {
	result := BlogIndex{CurrentCategory: strings.TrimSpace(category)}

	query := liveDescendants(s.db, index, PageTypeBlog)
	if result.CurrentCategory != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM page_categories JOIN blog_categories ON blog_categories.id = page_categories.blog_category_id WHERE page_categories.page_id = pages.id AND blog_categories.slug = ?)",
			result.CurrentCategory,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return result, fmt.Errorf("count blog posts: %w", err)
	}
	result.Pagination = Paginate(ParsePageNumber(rawPage), total, s.pageSize)

	if err := query.
		Preload("HeaderImage").
		Preload("Categories", func(tx *gorm.DB) *gorm.DB { return tx.Order("name asc") }).
		Order("pages.first_published_at desc").
		Order("pages.id desc").
		Limit(result.Pagination.PerPage).
		Offset(result.Pagination.Offset).
		Find(&result.Posts).Error; err != nil {
		return result, fmt.Errorf("list blog posts: %w", err)
	}

	categories, err := s.ListCategories()
	if err != nil {
		return result, err
	}
	result.Categories = categories
	return result, nil
}

// Latest returns the newest live posts below root by post date.
func (s *BlogService) Latest(root *db.Page, limit int) ([]db.Page, error) {
	var posts []db.Page
	if err := liveDescendants(s.db, root, PageTypeBlog).
		Preload("HeaderImage").
		Order("pages.date_from desc").
		Order("pages.id desc").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list latest posts: %w", err)
	}
	return posts, nil
}

// FirstIndex returns the first live blog index below root, or nil when there is none.
func (s *BlogService) FirstIndex(root *db.Page) (*db.Page, error) {
	var pages []db.Page
	if err := liveDescendants(s.db, root, PageTypeBlogIndex).
		Order("pages.path asc").
		Limit(1).
		Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("find blog index: %w", err)
	}
	if len(pages) == 0 {
		return nil, nil
	}
	return &pages[0], nil
}

// ListCategories returns every category by name.
func (s *BlogService) ListCategories() ([]db.BlogCategory, error) {
	var categories []db.BlogCategory
	if err := s.db.Order("name asc").Order("id asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetCategory fetches a category by id.
func (s *BlogService) GetCategory(id uint) (*db.BlogCategory, error) {
	var category db.BlogCategory
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a category; an empty slug is derived from the name.
func (s *BlogService) CreateCategory(name, slug string) (*db.BlogCategory, error) {
	name, slug, err := validateCategory(name, slug)
	if err != nil {
		return nil, err
	}

	var existing db.BlogCategory
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category := db.BlogCategory{Name: name, Slug: slug}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory renames a category while keeping slugs unique.
func (s *BlogService) UpdateCategory(id uint, name, slug string) (*db.BlogCategory, error) {
	name, slug, err := validateCategory(name, slug)
	if err != nil {
		return nil, err
	}

	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	var existing db.BlogCategory
	if err := s.db.Where("slug = ? AND id <> ?", slug, id).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category.Name = name
	category.Slug = slug
	if err := s.db.Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category and detaches it from its posts.
func (s *BlogService) DeleteCategory(id uint) error {
	if _, err := s.GetCategory(id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM page_categories WHERE blog_category_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&db.BlogCategory{}, id).Error
	})
}

func validateCategory(name, slug string) (string, string, error) {
	verr := &ValidationError{}
	name = strings.TrimSpace(name)
	if name == "" {
		verr.Add("name", "El nombre es obligatorio.")
	}
	if strings.TrimSpace(slug) == "" {
		slug = name
	}
	slug = Slugify(slug)
	if slug == "" && name != "" {
		verr.Add("slug", "El slug no es válido.")
	}
	return name, slug, verr.Err()
}
