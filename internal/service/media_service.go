package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/radioclub/internal/db"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"
)

var (
	ErrImageNotFound       = errors.New("image not found")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrUploadTooLarge      = errors.New("uploaded file is too large")
	ErrUnsupportedImage    = errors.New("unsupported image format")
	ErrUnsupportedDocument = errors.New("unsupported document type")
)

// MaxUploadSize caps images and documents.
const MaxUploadSize = 10 << 20

var documentExtensions = []string{".csv", ".docx", ".key", ".odt", ".pdf", ".pptx", ".rtf", ".txt", ".xlsx", ".zip"}

var imageContentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// MediaService stores uploaded images and documents below uploadDir and serves them from uploadURL.
type MediaService struct {
	db        *gorm.DB
	uploadDir string
	uploadURL string
	now       func() time.Time
}

// MediaListResult is one page of images or documents.
type MediaListResult[T any] struct {
	Items      []T
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewMediaService creates a MediaService.
func NewMediaService(gdb *gorm.DB, uploadDir, uploadURL string) *MediaService {
	uploadURL = "/" + strings.Trim(strings.TrimSpace(uploadURL), "/")
	return &MediaService{db: gdb, uploadDir: uploadDir, uploadURL: uploadURL, now: time.Now}
}

// SaveImage stores an uploaded picture and records its dimensions.
func (s *MediaService) SaveImage(title, filename string, r io.Reader) (*db.Image, error) {
	data, err := readUpload(r)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	contentType, ok := imageContentTypes[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, format)
	}

	ext := "." + format
	if format == "jpeg" {
		ext = ".jpg"
	}
	name, url, err := s.writeFile("images", ext, data)
	if err != nil {
		return nil, err
	}

	img := db.Image{
		Title:       defaultTitle(title, filename),
		FileName:    name,
		URL:         url,
		Width:       cfg.Width,
		Height:      cfg.Height,
		FileSize:    int64(len(data)),
		ContentType: contentType,
	}
	if err := s.db.Create(&img).Error; err != nil {
		s.removeFile("images", name)
		return nil, fmt.Errorf("save image: %w", err)
	}
	return &img, nil
}

// SaveDocument stores an uploaded document with an allowed extension.
func (s *MediaService) SaveDocument(title, filename string, r io.Reader) (*db.Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !contains(documentExtensions, ext) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDocument, ext)
	}

	data, err := readUpload(r)
	if err != nil {
		return nil, err
	}

	name, url, err := s.writeFile("documents", ext, data)
	if err != nil {
		return nil, err
	}

	doc := db.Document{
		Title:    defaultTitle(title, filename),
		FileName: name,
		URL:      url,
		FileSize: int64(len(data)),
	}
	if err := s.db.Create(&doc).Error; err != nil {
		s.removeFile("documents", name)
		return nil, fmt.Errorf("save document: %w", err)
	}
	return &doc, nil
}

// ListImages returns images, newest first.
func (s *MediaService) ListImages(page, perPage int) (MediaListResult[db.Image], error) {
	return listMedia[db.Image](s.db, page, perPage)
}

// ListDocuments returns documents, newest first.
func (s *MediaService) ListDocuments(page, perPage int) (MediaListResult[db.Document], error) {
	return listMedia[db.Document](s.db, page, perPage)
}

func listMedia[T any](gdb *gorm.DB, page, perPage int) (MediaListResult[T], error) {
	result := MediaListResult[T]{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 24),
	}

	query := gdb.Model(new(T))
	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Order("created_at desc").Order("id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetImage fetches an image by id.
func (s *MediaService) GetImage(id uint) (*db.Image, error) {
	var img db.Image
	if err := s.db.First(&img, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return &img, nil
}

// GetDocument fetches a document by id.
func (s *MediaService) GetDocument(id uint) (*db.Document, error) {
	var doc db.Document
	if err := s.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// DeleteImage removes an image. Pages, board members and home settings lose the reference;
// galleries drop the entry.
func (s *MediaService) DeleteImage(id uint) error {
	img, err := s.GetImage(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Page{}).Where("header_image_id = ?", id).UpdateColumn("header_image_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&db.HomeSettings{}).Where("hero_image_id = ?", id).UpdateColumn("hero_image_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&db.BoardMember{}).Where("photo_id = ?", id).UpdateColumn("photo_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("image_id = ?", id).Delete(&db.GalleryImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Image{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	s.removeFile("images", img.FileName)
	return nil
}

// DeleteDocument removes a document; contests lose their rules link.
func (s *MediaService) DeleteDocument(id uint) error {
	doc, err := s.GetDocument(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Page{}).Where("rules_document_id = ?", id).UpdateColumn("rules_document_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Document{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	s.removeFile("documents", doc.FileName)
	return nil
}

func readUpload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrUploadTooLarge
	}
	return data, nil
}

func (s *MediaService) writeFile(kind, ext string, data []byte) (string, string, error) {
	dir := filepath.Join(s.uploadDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s%s", s.now().Format("20060102"), uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", "", fmt.Errorf("write upload: %w", err)
	}
	return name, path.Join(s.uploadURL, kind, name), nil
}

func (s *MediaService) removeFile(kind, name string) {
	if name == "" {
		return
	}
	_ = os.Remove(filepath.Join(s.uploadDir, kind, filepath.Base(name)))
}

func defaultTitle(title, filename string) string {
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		return trimmed
	}
	base := filepath.Base(strings.TrimSpace(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "Sin título"
	}
	return base
}
