package service

import (
	"fmt"
	"time"

	"github.com/radioclub/internal/config"
	"github.com/radioclub/internal/db"
	"gorm.io/gorm"
)

// ActivitiesIndex groups the children of an activities index by type.
type ActivitiesIndex struct {
	Events   []db.Page
	Contests []db.Page
	Diplomas []db.Page
}

// ActivitiesService builds the activities listings.
type ActivitiesService struct {
	db  *gorm.DB
	now func() time.Time
	loc *time.Location
}

// NewActivitiesService creates an ActivitiesService.
func NewActivitiesService(gdb *gorm.DB) *ActivitiesService {
	return &ActivitiesService{db: gdb, now: time.Now, loc: config.DefaultLocation()}
}

// SetLocation sets the zone that decides which events are still upcoming.
func (s *ActivitiesService) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = config.DefaultLocation()
	}
	s.loc = loc
}

// SetClock replaces the time source, for tests.
func (s *ActivitiesService) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Index returns the live, public children of index: events and contests by start date
// (latest first) and diplomas in tree order.
func (s *ActivitiesService) Index(index *db.Page) (ActivitiesIndex, error) {
	var result ActivitiesIndex

	children := func(pageType string) *gorm.DB {
		return applyChildrenOptions(s.db.Model(&db.Page{}).Where("parent_id = ?", index.ID), ChildrenOptions{
			Type:       pageType,
			LiveOnly:   true,
			PublicOnly: true,
		}).Preload("HeaderImage")
	}

	if err := children(PageTypeEvent).Order("date_from desc").Order("path asc").Find(&result.Events).Error; err != nil {
		return result, fmt.Errorf("list events: %w", err)
	}
	if err := children(PageTypeContest).Preload("RulesDocument").Order("date_from desc").Order("path asc").Find(&result.Contests).Error; err != nil {
		return result, fmt.Errorf("list contests: %w", err)
	}
	if err := children(PageTypeDiploma).Order("path asc").Find(&result.Diplomas).Error; err != nil {
		return result, fmt.Errorf("list diplomas: %w", err)
	}
	return result, nil
}

// Upcoming returns the live events below root that start today or later, soonest first.
func (s *ActivitiesService) Upcoming(root *db.Page, limit int) ([]db.Page, error) {
	from := today(s.now(), s.loc)

	var events []db.Page
	if err := liveDescendants(s.db, root, PageTypeEvent).
		Where("pages.date_from >= ?", from).
		Preload("HeaderImage").
		Order("pages.date_from asc").
		Order("pages.path asc").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}
