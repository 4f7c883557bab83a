package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/radioclub/internal/blocks"
	"github.com/radioclub/internal/config"
	"github.com/radioclub/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPageNotFound        = errors.New("page not found")
	ErrPageTypeUnknown     = errors.New("unknown page type")
	ErrPageNotAllowedHere  = errors.New("page type is not allowed under this parent")
	ErrPageLimitReached    = errors.New("page type limit reached")
	ErrPageSlugTaken       = errors.New("slug is already used by a sibling page")
	ErrPageMoveIntoSubtree = errors.New("a page cannot be moved below itself")
	ErrPageOrder           = errors.New("invalid page order")
)

// reservedSlugs cannot be used directly below the home page because the router owns them.
// The uploads prefix is reserved per service, see SetUploadURLPath.
var reservedSlugs = []string{"admin", "static", "healthz", "metrics"}

const defaultUploadSlug = "media"

// PageInput carries the editable fields of a page. Fields the page type does not use are ignored.
type PageInput struct {
	Type              string
	Title             string
	Slug              string
	Live              bool
	ShowInMenus       bool
	Restricted        bool
	SeoTitle          string
	SearchDescription string
	Introduction      string
	Body              blocks.Stream
	HeaderImageID     *uint
	DateFrom          *time.Time
	DateTo            *time.Time
	Location          string
	Icon              string
	RulesDocumentID   *uint
	CategoryIDs       []uint
}

// ChildrenOptions filters Children.
type ChildrenOptions struct {
	Type       string
	LiveOnly   bool
	PublicOnly bool
	MenuOnly   bool
}

// PublicChildren selects what visitors may see.
var PublicChildren = ChildrenOptions{LiveOnly: true, PublicOnly: true}

// PageService maintains the page tree.
type PageService struct {
	db  *gorm.DB
	now func() time.Time
	loc *time.Location

	uploadSlug string
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb, now: time.Now, loc: config.DefaultLocation(), uploadSlug: defaultUploadSlug}
}

// SetUploadURLPath reserves the first segment of the URL prefix uploads are served under.
func (s *PageService) SetUploadURLPath(path string) {
	segment, _, _ := strings.Cut(strings.Trim(strings.TrimSpace(path), "/"), "/")
	if segment == "" {
		segment = defaultUploadSlug
	}
	s.uploadSlug = segment
}

// SetLocation sets the zone that decides which day "today" is.
func (s *PageService) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = config.DefaultLocation()
	}
	s.loc = loc
}

// SetClock replaces the time source, for tests.
func (s *PageService) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

func withPageRelations(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Categories", func(tx *gorm.DB) *gorm.DB { return tx.Order("name asc") }).
		Preload("HeaderImage").
		Preload("RulesDocument").
		Preload("GalleryImages", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order asc, id asc") }).
		Preload("GalleryImages.Image")
}

func findPage(tx *gorm.DB, id uint) (*db.Page, error) {
	var page db.Page
	if err := tx.First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("get page: %w", err)
	}
	return &page, nil
}

// Home returns the single home page at the top of the tree.
func (s *PageService) Home() (*db.Page, error) {
	var page db.Page
	if err := withPageRelations(s.db).
		Where("type = ? AND depth = ?", PageTypeHome, 1).
		Order("path asc").
		First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("get home page: %w", err)
	}
	return &page, nil
}

// Get fetches a page with its categories, images and gallery.
func (s *PageService) Get(id uint) (*db.Page, error) {
	return findPage(withPageRelations(s.db), id)
}

// GetByURLPath resolves a public URL such as /radio/hf/ to its page.
func (s *PageService) GetByURLPath(path string) (*db.Page, error) {
	var page db.Page
	if err := withPageRelations(s.db).
		Where("url_path = ?", NormalizeURLPath(path)).
		Order("depth asc").
		First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("get page by url: %w", err)
	}
	return &page, nil
}

// Tree returns every page in tree order without their bodies.
func (s *PageService) Tree() ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.Omit("body").Order("path asc").Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("load page tree: %w", err)
	}
	return pages, nil
}

// Children returns the direct children of a page in tree order.
func (s *PageService) Children(id uint, opts ChildrenOptions) ([]db.Page, error) {
	query := s.db.Model(&db.Page{}).Where("parent_id = ?", id)
	query = applyChildrenOptions(query, opts)

	var pages []db.Page
	if err := query.Preload("HeaderImage").Order("path asc").Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return pages, nil
}

func applyChildrenOptions(query *gorm.DB, opts ChildrenOptions) *gorm.DB {
	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
	}
	if opts.LiveOnly {
		query = query.Where("live = ?", true)
	}
	if opts.PublicOnly {
		query = query.Where(publicPagesClause, true)
	}
	if opts.MenuOnly {
		query = query.Where("show_in_menus = ?", true)
	}
	return query
}

// Ancestors returns the ancestors of a page, root first, excluding the page itself.
func (s *PageService) Ancestors(id uint) ([]db.Page, error) {
	page, err := findPage(s.db, id)
	if err != nil {
		return nil, err
	}
	paths := ancestorPaths(page.Path)
	if len(paths) == 0 {
		return []db.Page{}, nil
	}

	var pages []db.Page
	if err := s.db.Where("path IN ?", paths).Order("path asc").Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("list ancestors: %w", err)
	}
	return pages, nil
}

// Menu returns the live, public, show-in-menu children of the home page.
func (s *PageService) Menu() ([]db.Page, error) {
	home, err := s.Home()
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			return []db.Page{}, nil
		}
		return nil, err
	}
	opts := PublicChildren
	opts.MenuOnly = true
	return s.Children(home.ID, opts)
}

// AddChild creates a page as the last child of parentID; parentID 0 creates a top-level page.
func (s *PageService) AddChild(parentID uint, input PageInput) (*db.Page, error) {
	pt, ok := LookupPageType(strings.TrimSpace(input.Type))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPageTypeUnknown, input.Type)
	}

	var created db.Page
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var parent *db.Page
		if parentID != 0 {
			p, err := findPage(tx, parentID)
			if err != nil {
				return err
			}
			parent = p
		}
		if err := checkPlacement(pt, parent); err != nil {
			return err
		}
		if err := checkLimit(tx, pt); err != nil {
			return err
		}

		page := db.Page{Type: pt.Name}
		categories, err := s.applyInput(tx, pt, parent, &page, input)
		if err != nil {
			return err
		}
		if err := checkSiblingSlug(tx, parent, page.Slug, 0); err != nil {
			return err
		}

		path, err := nextChildPath(tx, parent)
		if err != nil {
			return err
		}
		page.Path = path
		page.Depth = len(path) / pathStepLen
		page.URLPath = childURLPath(parent, page.Slug)
		if parent != nil {
			page.ParentID = &parent.ID
		}
		if input.Live {
			now := s.now()
			page.Live = true
			page.FirstPublishedAt = &now
			page.LastPublishedAt = &now
		}

		if err := tx.Omit(clause.Associations).Create(&page).Error; err != nil {
			return fmt.Errorf("create page: %w", err)
		}
		if err := replaceCategories(tx, &page, categories); err != nil {
			return err
		}
		if parent != nil {
			if err := tx.Model(&db.Page{}).Where("id = ?", parent.ID).
				UpdateColumn("num_child", gorm.Expr("num_child + 1")).Error; err != nil {
				return fmt.Errorf("update parent child count: %w", err)
			}
		}
		created = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(created.ID)
}

// Update saves new field values. A slug change rewrites the URLs of the whole subtree.
func (s *PageService) Update(id uint, input PageInput) (*db.Page, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		page, err := findPage(tx, id)
		if err != nil {
			return err
		}
		pt, ok := LookupPageType(page.Type)
		if !ok {
			return fmt.Errorf("%w: %q", ErrPageTypeUnknown, page.Type)
		}
		if input.Type != "" && input.Type != page.Type {
			return fmt.Errorf("%w: the type of an existing page cannot change", ErrPageNotAllowedHere)
		}

		var parent *db.Page
		if page.ParentID != nil {
			if parent, err = findPage(tx, *page.ParentID); err != nil {
				return err
			}
		}

		oldURL := page.URLPath
		categories, err := s.applyInput(tx, pt, parent, page, input)
		if err != nil {
			return err
		}
		if err := checkSiblingSlug(tx, parent, page.Slug, page.ID); err != nil {
			return err
		}
		page.URLPath = childURLPath(parent, page.Slug)

		if err := tx.Omit(clause.Associations).Save(page).Error; err != nil {
			return fmt.Errorf("update page: %w", err)
		}
		if err := replaceCategories(tx, page, categories); err != nil {
			return err
		}

		if page.URLPath != oldURL {
			nodes, err := subtree(tx, page)
			if err != nil {
				return err
			}
			descendants := make([]db.Page, 0, len(nodes))
			for _, node := range nodes {
				if node.ID != page.ID {
					descendants = append(descendants, node)
				}
			}
			if err := rewriteSubtree(tx, descendants, page.Path, page.Path, oldURL, page.URLPath, 0); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Move re-parents a page, appending it as the last child of newParentID.
func (s *PageService) Move(id, newParentID uint) (*db.Page, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		page, err := findPage(tx, id)
		if err != nil {
			return err
		}
		pt, ok := LookupPageType(page.Type)
		if !ok {
			return fmt.Errorf("%w: %q", ErrPageTypeUnknown, page.Type)
		}

		var newParent *db.Page
		if newParentID != 0 {
			if newParent, err = findPage(tx, newParentID); err != nil {
				return err
			}
			if strings.HasPrefix(newParent.Path, page.Path) {
				return ErrPageMoveIntoSubtree
			}
		}
		if sameParent(page.ParentID, newParent) {
			return nil
		}
		if err := checkPlacement(pt, newParent); err != nil {
			return err
		}
		if err := checkSiblingSlug(tx, newParent, page.Slug, page.ID); err != nil {
			return err
		}

		nodes, err := subtree(tx, page)
		if err != nil {
			return err
		}
		newPath, err := nextChildPath(tx, newParent)
		if err != nil {
			return err
		}
		newURL := childURLPath(newParent, page.Slug)
		depthDelta := len(newPath)/pathStepLen - page.Depth
		if err := rewriteSubtree(tx, nodes, page.Path, newPath, page.URLPath, newURL, depthDelta); err != nil {
			return err
		}

		var parentID interface{}
		if newParent != nil {
			parentID = newParent.ID
		}
		if err := tx.Model(&db.Page{}).Where("id = ?", page.ID).UpdateColumn("parent_id", parentID).Error; err != nil {
			return fmt.Errorf("update parent: %w", err)
		}
		if page.ParentID != nil {
			if err := tx.Model(&db.Page{}).Where("id = ?", *page.ParentID).
				UpdateColumn("num_child", gorm.Expr("num_child - 1")).Error; err != nil {
				return fmt.Errorf("update old parent child count: %w", err)
			}
		}
		if newParent != nil {
			if err := tx.Model(&db.Page{}).Where("id = ?", newParent.ID).
				UpdateColumn("num_child", gorm.Expr("num_child + 1")).Error; err != nil {
				return fmt.Errorf("update new parent child count: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Reorder sets the order of the children of parentID. ids must list every child exactly once.
func (s *PageService) Reorder(parentID uint, ids []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		parent, err := findPage(tx, parentID)
		if err != nil {
			return err
		}

		var children []db.Page
		if err := tx.Where("parent_id = ?", parent.ID).Order("path asc").Find(&children).Error; err != nil {
			return fmt.Errorf("list children: %w", err)
		}
		if len(children) != len(ids) {
			return ErrPageOrder
		}
		byID := make(map[uint]db.Page, len(children))
		for _, child := range children {
			byID[child.ID] = child
		}

		// Park every sibling subtree under a temporary prefix first so the
		// final paths never collide with paths that have not moved yet.
		type pending struct {
			nodes []db.Page
			page  db.Page
		}
		moves := make([]pending, 0, len(ids))
		seen := make(map[uint]struct{}, len(ids))
		for _, id := range ids {
			child, ok := byID[id]
			if !ok {
				return ErrPageOrder
			}
			if _, dup := seen[id]; dup {
				return ErrPageOrder
			}
			seen[id] = struct{}{}

			nodes, err := subtree(tx, &child)
			if err != nil {
				return err
			}
			if err := rewriteSubtree(tx, nodes, child.Path, tempPathMark+child.Path, child.URLPath, child.URLPath, 0); err != nil {
				return err
			}
			for i := range nodes {
				nodes[i].Path = tempPathMark + nodes[i].Path
			}
			child.Path = tempPathMark + child.Path
			moves = append(moves, pending{nodes: nodes, page: child})
		}

		for index, move := range moves {
			step, err := encodeStep(index + 1)
			if err != nil {
				return err
			}
			if err := rewriteSubtree(tx, move.nodes, move.page.Path, parent.Path+step, move.page.URLPath, move.page.URLPath, 0); err != nil {
				return err
			}
		}
		return nil
	})
}

// Publish makes a page visible; the first publication date is kept forever.
func (s *PageService) Publish(id uint) (*db.Page, error) {
	page, err := findPage(s.db, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	updates := map[string]interface{}{"live": true, "last_published_at": now}
	if page.FirstPublishedAt == nil {
		updates["first_published_at"] = now
	}
	if err := s.db.Model(&db.Page{}).Where("id = ?", id).UpdateColumns(updates).Error; err != nil {
		return nil, fmt.Errorf("publish page: %w", err)
	}
	return s.Get(id)
}

// Unpublish hides a page from visitors.
func (s *PageService) Unpublish(id uint) (*db.Page, error) {
	if _, err := findPage(s.db, id); err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Page{}).Where("id = ?", id).UpdateColumn("live", false).Error; err != nil {
		return nil, fmt.Errorf("unpublish page: %w", err)
	}
	return s.Get(id)
}

// Delete removes a page, its descendants and every row that belongs to them.
func (s *PageService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		page, err := findPage(tx, id)
		if err != nil {
			return err
		}
		nodes, err := subtree(tx, page)
		if err != nil {
			return err
		}
		ids := make([]uint, 0, len(nodes))
		for _, node := range nodes {
			ids = append(ids, node.ID)
		}

		dependents := []interface{}{
			&db.GalleryImage{},
			&db.FormField{},
			&db.FormSubmission{},
			&db.ContactSettings{},
			&db.HomeSettings{},
		}
		for _, model := range dependents {
			if err := tx.Where("page_id IN ?", ids).Delete(model).Error; err != nil {
				return fmt.Errorf("delete page data: %w", err)
			}
		}
		if err := tx.Exec("DELETE FROM page_categories WHERE page_id IN ?", ids).Error; err != nil {
			return fmt.Errorf("delete page categories: %w", err)
		}
		if err := tx.Where("id IN ?", ids).Delete(&db.Page{}).Error; err != nil {
			return fmt.Errorf("delete pages: %w", err)
		}
		if page.ParentID != nil {
			if err := tx.Model(&db.Page{}).Where("id = ?", *page.ParentID).
				UpdateColumn("num_child", gorm.Expr("num_child - 1")).Error; err != nil {
				return fmt.Errorf("update parent child count: %w", err)
			}
		}
		return nil
	})
}

// RequiresLogin reports whether the page or one of its ancestors is restricted to signed-in admins.
func (s *PageService) RequiresLogin(page *db.Page) (bool, error) {
	var count int64
	if err := s.db.Model(&db.Page{}).
		Where("restricted = ? AND ? LIKE path || '%'", true, page.Path).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check page restriction: %w", err)
	}
	return count > 0, nil
}

// CreatableChildTypes lists the types that can still be added below parentID (0 for the top level).
func (s *PageService) CreatableChildTypes(parentID uint) ([]PageType, error) {
	var candidates []PageType
	if parentID == 0 {
		for _, pt := range PageTypes() {
			if pt.AtRoot {
				candidates = append(candidates, pt)
			}
		}
	} else {
		parent, err := findPage(s.db, parentID)
		if err != nil {
			return nil, err
		}
		parentType, ok := LookupPageType(parent.Type)
		if !ok {
			return []PageType{}, nil
		}
		for _, name := range parentType.ChildTypes {
			if parentType.AllowsChild(name) {
				candidates = append(candidates, pageTypes[name])
			}
		}
	}

	out := make([]PageType, 0, len(candidates))
	for _, pt := range candidates {
		if err := checkLimit(s.db, pt); err != nil {
			if errors.Is(err, ErrPageLimitReached) {
				continue
			}
			return nil, err
		}
		out = append(out, pt)
	}
	return out, nil
}

func checkPlacement(pt PageType, parent *db.Page) error {
	if parent == nil {
		if !pt.AtRoot {
			return fmt.Errorf("%w: %s cannot be a top-level page", ErrPageNotAllowedHere, pt.Name)
		}
		return nil
	}
	parentType, ok := LookupPageType(parent.Type)
	if !ok || !parentType.AllowsChild(pt.Name) {
		return fmt.Errorf("%w: %s cannot be created under %s", ErrPageNotAllowedHere, pt.Name, parent.Type)
	}
	return nil
}

func checkLimit(tx *gorm.DB, pt PageType) error {
	if pt.MaxCount <= 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&db.Page{}).Where("type = ?", pt.Name).Count(&count).Error; err != nil {
		return fmt.Errorf("count %s pages: %w", pt.Name, err)
	}
	if count >= int64(pt.MaxCount) {
		return fmt.Errorf("%w: only %d %s page allowed", ErrPageLimitReached, pt.MaxCount, pt.Name)
	}
	return nil
}

func checkSiblingSlug(tx *gorm.DB, parent *db.Page, slug string, excludeID uint) error {
	query := tx.Model(&db.Page{}).Where("slug = ?", slug)
	if parent == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", parent.ID)
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %q", ErrPageSlugTaken, slug)
	}
	return nil
}

func sameParent(current *uint, next *db.Page) bool {
	if current == nil || next == nil {
		return current == nil && next == nil
	}
	return *current == next.ID
}

// applyInput validates input against the page type and copies it onto page.
func (s *PageService) applyInput(tx *gorm.DB, pt PageType, parent *db.Page, page *db.Page, input PageInput) ([]db.BlogCategory, error) {
	verr := &ValidationError{}

	title := strings.TrimSpace(input.Title)
	switch {
	case title == "":
		verr.Add("title", "El título es obligatorio.")
	case utf8.RuneCountInString(title) > 255:
		verr.Add("title", "El título no puede superar los 255 caracteres.")
	}

	slug := Slugify(input.Slug)
	if strings.TrimSpace(input.Slug) == "" {
		slug = Slugify(title)
	}
	if slug == "" && title != "" {
		verr.Add("slug", "No se ha podido generar un slug válido.")
	}
	if parent != nil && parent.Depth == 1 && (contains(reservedSlugs, slug) || slug == s.uploadSlug) {
		verr.Add("slug", fmt.Sprintf("El slug %q está reservado.", slug))
	}

	intro := strings.TrimSpace(input.Introduction)
	if pt.IntroLimit > 0 && utf8.RuneCountInString(intro) > pt.IntroLimit {
		verr.Add("introduction", fmt.Sprintf("La introducción no puede superar los %d caracteres.", pt.IntroLimit))
	}

	body := blocks.Stream{}
	if pt.HasBody && len(input.Body) > 0 {
		normalized, err := blocks.Normalize(input.Body)
		if err != nil {
			verr.Add("body", err.Error())
		} else {
			body = normalized
		}
	}

	var dateFrom, dateTo *time.Time
	if pt.HasDate {
		if input.DateFrom != nil {
			d := dateOnly(*input.DateFrom)
			dateFrom = &d
		} else if pt.DateDefaultsToday {
			d := today(s.now(), s.loc)
			dateFrom = &d
		}
		if pt.RequiresDate && dateFrom == nil {
			verr.Add("date_from", "La fecha de inicio es obligatoria.")
		}
	}
	if pt.HasDateRange && input.DateTo != nil {
		d := dateOnly(*input.DateTo)
		dateTo = &d
		if dateFrom != nil && dateTo.Before(*dateFrom) {
			verr.Add("date_to", "La fecha de fin no puede ser anterior a la de inicio.")
		}
	}

	var headerImageID *uint
	if pt.HasHeaderImage && input.HeaderImageID != nil && *input.HeaderImageID != 0 {
		if exists, err := recordExists(tx, &db.Image{}, *input.HeaderImageID); err != nil {
			return nil, err
		} else if !exists {
			verr.Add("header_image_id", "La imagen no existe.")
		}
		headerImageID = input.HeaderImageID
	}

	var rulesID *uint
	if pt.HasRules && input.RulesDocumentID != nil && *input.RulesDocumentID != 0 {
		if exists, err := recordExists(tx, &db.Document{}, *input.RulesDocumentID); err != nil {
			return nil, err
		} else if !exists {
			verr.Add("rules_document_id", "El documento no existe.")
		}
		rulesID = input.RulesDocumentID
	}

	categories := []db.BlogCategory{}
	if pt.HasCategories && len(input.CategoryIDs) > 0 {
		ids := uniqueIDs(input.CategoryIDs)
		if err := tx.Where("id IN ?", ids).Order("name asc").Find(&categories).Error; err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		if len(categories) != len(ids) {
			verr.Add("category_ids", "Alguna de las categorías no existe.")
		}
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}

	page.Title = title
	page.Slug = slug
	page.ShowInMenus = input.ShowInMenus
	page.Restricted = input.Restricted
	page.SeoTitle = strings.TrimSpace(input.SeoTitle)
	page.SearchDescription = strings.TrimSpace(input.SearchDescription)
	page.Introduction = intro
	page.Body = body
	page.HeaderImageID = headerImageID
	page.DateFrom = dateFrom
	page.DateTo = dateTo
	page.RulesDocumentID = rulesID
	page.Location = ""
	if pt.HasLocation {
		page.Location = strings.TrimSpace(input.Location)
	}
	page.Icon = ""
	if pt.HasIcon {
		page.Icon = strings.TrimSpace(input.Icon)
		if page.Icon == "" {
			page.Icon = defaultRadioIcon
		}
	}
	return categories, nil
}

func replaceCategories(tx *gorm.DB, page *db.Page, categories []db.BlogCategory) error {
	association := tx.Model(page).Association("Categories")
	var err error
	if len(categories) == 0 {
		err = association.Clear()
	} else {
		err = association.Replace(categories)
	}
	if err != nil {
		return fmt.Errorf("save page categories: %w", err)
	}
	page.Categories = categories
	return nil
}

func recordExists(tx *gorm.DB, model interface{}, id uint) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check reference: %w", err)
	}
	return count > 0, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// dateOnly keeps the calendar date of t as midnight UTC so stored dates compare as plain dates.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// today is the calendar date of now on the club's clock.
func today(now time.Time, loc *time.Location) time.Time {
	return dateOnly(now.In(loc))
}
