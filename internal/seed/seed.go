// Package seed creates the initial content of a fresh site. Every step checks
// what already exists, so running it again changes nothing.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/radioclub/internal/config"
	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/service"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed tree.yaml
var treeYAML []byte

// Tree is the seed document.
type Tree struct {
	Home          PageEntry          `yaml:"home"`
	Board         []BoardMemberEntry `yaml:"board"`
	ContactFields []FieldEntry       `yaml:"contact_fields"`
}

// PageEntry describes one page and its children.
type PageEntry struct {
	Type         string        `yaml:"type"`
	Slug         string        `yaml:"slug"`
	Title        string        `yaml:"title"`
	Introduction string        `yaml:"introduction"`
	Icon         string        `yaml:"icon"`
	ShowInMenus  bool          `yaml:"show_in_menus"`
	Draft        bool          `yaml:"draft"`
	Hero         *HeroEntry    `yaml:"hero"`
	Contact      *ContactEntry `yaml:"contact"`
	Children     []PageEntry   `yaml:"children"`
}

type HeroEntry struct {
	Title        string `yaml:"title"`
	Subtitle     string `yaml:"subtitle"`
	CTAText      string `yaml:"cta_text"`
	ClubCallsign string `yaml:"club_callsign"`
}

type ContactEntry struct {
	ThankYouText string `yaml:"thank_you_text"`
	ToAddress    string `yaml:"to_address"`
	FromAddress  string `yaml:"from_address"`
	Subject      string `yaml:"subject"`
}

type BoardMemberEntry struct {
	Name      string `yaml:"name"`
	Callsign  string `yaml:"callsign"`
	Role      string `yaml:"role"`
	Email     string `yaml:"email"`
	SortOrder int    `yaml:"sort_order"`
}

type FieldEntry struct {
	Label     string `yaml:"label"`
	FieldType string `yaml:"field_type"`
	Required  bool   `yaml:"required"`
	Choices   string `yaml:"choices"`
	HelpText  string `yaml:"help_text"`
}

// Report counts what a run created.
type Report struct {
	UserCreated         bool
	PagesCreated        int
	BoardMembersCreated int
	FieldsCreated       int
	SettingsCreated     int
}

// LoadTree parses the embedded seed document.
func LoadTree() (Tree, error) {
	var tree Tree
	if err := yaml.Unmarshal(treeYAML, &tree); err != nil {
		return tree, fmt.Errorf("parse seed tree: %w", err)
	}
	if tree.Home.Type != service.PageTypeHome {
		return tree, fmt.Errorf("seed tree must start with a %s page, got %q", service.PageTypeHome, tree.Home.Type)
	}
	return tree, nil
}

type seeder struct {
	ctx    context.Context
	gdb    *gorm.DB
	logger *slog.Logger
	tree   Tree
	report Report

	pages *service.PageService
	home  *service.HomeService
	forms *service.FormService
	board *service.BoardService
}

// Run seeds gdb with the admin account from cfg and the embedded tree.
func Run(ctx context.Context, gdb *gorm.DB, cfg config.SeedConfig, logger *slog.Logger) (Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tree, err := LoadTree()
	if err != nil {
		return Report{}, err
	}

	s := &seeder{
		ctx:    ctx,
		gdb:    gdb,
		logger: logger,
		tree:   tree,
		pages:  service.NewPageService(gdb),
		home:   service.NewHomeService(gdb, nil, nil),
		forms:  service.NewFormService(gdb, nil, logger),
		board:  service.NewBoardService(gdb),
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"superuser", func() error { return s.superuser(cfg) }},
		{"pages", s.pageTree},
		{"board members", s.boardMembers},
		{"club settings", s.clubSettings},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return s.report, err
		}
		if err := step.run(); err != nil {
			return s.report, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	logger.Info("initial data seeded",
		"user_created", s.report.UserCreated,
		"pages_created", s.report.PagesCreated,
		"board_members_created", s.report.BoardMembersCreated,
		"settings_created", s.report.SettingsCreated,
	)
	return s.report, nil
}

func (s *seeder) superuser(cfg config.SeedConfig) error {
	created, err := db.EnsureUser(s.gdb, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}
	s.report.UserCreated = created
	if created {
		s.logger.Info("created superuser", "username", cfg.AdminUsername)
	} else {
		s.logger.Info("superuser already exists", "username", cfg.AdminUsername)
	}
	return nil
}

func (s *seeder) pageTree() error {
	home, err := s.pages.Home()
	switch {
	case err == nil:
	case errors.Is(err, service.ErrPageNotFound):
		if home, err = s.createPage(0, s.tree.Home); err != nil {
			return err
		}
	default:
		return err
	}
	return s.children(home, s.tree.Home.Children)
}

func (s *seeder) children(parent *db.Page, entries []PageEntry) error {
	for _, entry := range entries {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		page, err := s.existing(entry)
		if err != nil {
			return err
		}
		if page == nil {
			if page, err = s.createPage(parent.ID, entry); err != nil {
				return err
			}
		}
		if page.Type == service.PageTypeContact {
			if err := s.contactFields(page); err != nil {
				return err
			}
		}
		if err := s.children(page, entry.Children); err != nil {
			return err
		}
	}
	return nil
}

// existing finds a page created by an earlier run: the single page of a singleton type,
// or a page of the same type and slug.
func (s *seeder) existing(entry PageEntry) (*db.Page, error) {
	pt, ok := service.LookupPageType(entry.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", service.ErrPageTypeUnknown, entry.Type)
	}
	query := s.gdb.Where("type = ?", entry.Type)
	if pt.MaxCount != 1 {
		query = query.Where("slug = ?", entry.Slug)
	}
	var pages []db.Page
	if err := query.Order("path asc").Limit(1).Find(&pages).Error; err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}
	return &pages[0], nil
}

func (s *seeder) createPage(parentID uint, entry PageEntry) (*db.Page, error) {
	page, err := s.pages.AddChild(parentID, service.PageInput{
		Type:         entry.Type,
		Title:        entry.Title,
		Slug:         entry.Slug,
		Introduction: entry.Introduction,
		Icon:         entry.Icon,
		ShowInMenus:  entry.ShowInMenus,
		Live:         !entry.Draft,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s %q: %w", entry.Type, entry.Slug, err)
	}
	s.report.PagesCreated++
	s.logger.Info("created page", "type", page.Type, "url", page.URLPath)

	if entry.Hero != nil && page.Type == service.PageTypeHome {
		settings, err := s.home.Settings(page.ID)
		if err != nil {
			return nil, err
		}
		input := *settings
		input.HeroTitle = entry.Hero.Title
		input.HeroSubtitle = entry.Hero.Subtitle
		input.HeroCTAText = entry.Hero.CTAText
		input.ClubCallsign = entry.Hero.ClubCallsign
		if _, err := s.home.UpdateSettings(page.ID, input); err != nil {
			return nil, fmt.Errorf("set home hero: %w", err)
		}
	}
	if entry.Contact != nil && page.Type == service.PageTypeContact {
		if _, err := s.forms.UpdateSettings(page.ID, db.ContactSettings{
			ThankYouText: entry.Contact.ThankYouText,
			ToAddress:    entry.Contact.ToAddress,
			FromAddress:  entry.Contact.FromAddress,
			Subject:      entry.Contact.Subject,
		}); err != nil {
			return nil, fmt.Errorf("set contact settings: %w", err)
		}
	}
	return page, nil
}

func (s *seeder) contactFields(page *db.Page) error {
	fields, err := s.forms.Fields(page.ID)
	if err != nil {
		return err
	}
	if len(fields) > 0 || len(s.tree.ContactFields) == 0 {
		return nil
	}
	inputs := make([]service.FormFieldInput, 0, len(s.tree.ContactFields))
	for _, f := range s.tree.ContactFields {
		inputs = append(inputs, service.FormFieldInput{
			Label:     f.Label,
			FieldType: f.FieldType,
			Required:  f.Required,
			Choices:   f.Choices,
			HelpText:  f.HelpText,
		})
	}
	created, err := s.forms.SetFields(page.ID, inputs)
	if err != nil {
		return fmt.Errorf("create contact fields: %w", err)
	}
	s.report.FieldsCreated += len(created)
	return nil
}

func (s *seeder) boardMembers() error {
	for _, entry := range s.tree.Board {
		_, err := s.board.FindByCallsign(entry.Callsign)
		if err == nil {
			continue
		}
		if !errors.Is(err, service.ErrBoardMemberNotFound) {
			return err
		}
		order := entry.SortOrder
		if _, err := s.board.Create(service.BoardMemberInput{
			Name:      entry.Name,
			Callsign:  entry.Callsign,
			Role:      entry.Role,
			Email:     entry.Email,
			SortOrder: &order,
		}); err != nil {
			return fmt.Errorf("create board member %s: %w", entry.Callsign, err)
		}
		s.report.BoardMembersCreated++
	}
	return nil
}

func (s *seeder) clubSettings() error {
	created, err := service.NewSystemSettingService(s.gdb).EnsureDefaults()
	if err != nil {
		return err
	}
	s.report.SettingsCreated = created
	return nil
}
