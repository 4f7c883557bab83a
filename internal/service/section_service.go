package service

import (
	"fmt"

	"github.com/radioclub/internal/db"
	"gorm.io/gorm"
)

// AboutContext lists what the about index shows below its body.
type AboutContext struct {
	BoardMembers []db.BoardMember
	Pages        []db.Page
}

// RadioContext lists the topics below a radio page and the trail leading to it.
type RadioContext struct {
	Topics      []db.Page
	Breadcrumbs []db.Page
}

// SectionService builds the contexts of the about and radio sections.
type SectionService struct {
	pages *PageService
	board *BoardService
}

// NewSectionService creates a SectionService.
func NewSectionService(gdb *gorm.DB) *SectionService {
	return &SectionService{pages: NewPageService(gdb), board: NewBoardService(gdb)}
}

// About returns the board and the live about pages of an about index.
func (s *SectionService) About(index *db.Page) (AboutContext, error) {
	var result AboutContext
	var err error

	if result.BoardMembers, err = s.board.List(); err != nil {
		return result, err
	}
	opts := PublicChildren
	opts.Type = PageTypeAbout
	if result.Pages, err = s.pages.Children(index.ID, opts); err != nil {
		return result, fmt.Errorf("list about pages: %w", err)
	}
	return result, nil
}

// Radio returns the live child topics of a radio index or radio page in tree order,
// and its ancestors below the home page.
func (s *SectionService) Radio(page *db.Page) (RadioContext, error) {
	var result RadioContext
	var err error

	opts := PublicChildren
	opts.Type = PageTypeRadio
	if result.Topics, err = s.pages.Children(page.ID, opts); err != nil {
		return result, fmt.Errorf("list radio topics: %w", err)
	}
	if result.Breadcrumbs, err = s.Breadcrumbs(page); err != nil {
		return result, err
	}
	return result, nil
}

// Breadcrumbs returns the ancestors of page from the home page down, excluding the page itself.
func (s *SectionService) Breadcrumbs(page *db.Page) ([]db.Page, error) {
	if page.ParentID == nil {
		return []db.Page{}, nil
	}
	return s.pages.Ancestors(page.ID)
}
