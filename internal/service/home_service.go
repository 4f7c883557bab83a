package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/radioclub/internal/db"
	"gorm.io/gorm"
)

const (
	homeLatestPosts    = 3
	homeUpcomingEvents = 3
)

// DefaultHomeSettings returns the landing section texts of a new home page.
func DefaultHomeSettings() db.HomeSettings {
	return db.HomeSettings{
		HeroTitle:            "Welcome to the Radio Club",
		HeroSubtitle:         "Connecting amateur radio enthusiasts since day one",
		AboutTitle:           "About Our Club",
		AboutDescription:     "We are a community of amateur radio operators dedicated to advancing the art, science, and practice of radio communication. Whether you are a seasoned ham or just getting started, you are welcome here.",
		ActivitiesTitle:      "Our Activities",
		Activity1Title:       "HF & VHF Operating",
		Activity1Description: "Regular on-air activity across HF and VHF bands, including nets, ragchewing, and DX contacts around the world.",
		Activity2Title:       "Contests & Field Day",
		Activity2Description: "We participate in major contests and ARRL Field Day, setting up portable stations and operating around the clock.",
		Activity3Title:       "Training & Licensing",
		Activity3Description: "We offer study sessions and exam preparation for Technician, General, and Amateur Extra license classes.",
		Activity4Title:       "Emergency Communications",
		Activity4Description: "Our members train in emergency communications and support local agencies through ARES and RACES programs.",
		MeetingTitle:         "Meetings & Events",
		MeetingDescription:   "We meet on the first Thursday of each month at 7:00 PM. All meetings are open to the public, bring a friend!",
		ContactTitle:         "Get In Touch",
		ContactEmail:         "info@radioclub.example.com",
		ContactDescription:   "Interested in joining or have questions? Reach out to us and we will be happy to help you get started in amateur radio.",
	}
}

// HomeActivity is one of the four activity teasers of the home page.
type HomeActivity struct {
	Title       string
	Description string
}

// Activities returns the non-empty activity teasers in order.
func Activities(settings db.HomeSettings) []HomeActivity {
	all := []HomeActivity{
		{settings.Activity1Title, settings.Activity1Description},
		{settings.Activity2Title, settings.Activity2Description},
		{settings.Activity3Title, settings.Activity3Description},
		{settings.Activity4Title, settings.Activity4Description},
	}
	out := make([]HomeActivity, 0, len(all))
	for _, a := range all {
		if strings.TrimSpace(a.Title) != "" {
			out = append(out, a)
		}
	}
	return out
}

// HomeContext is everything the home template needs besides the page itself.
type HomeContext struct {
	Settings       db.HomeSettings
	Activities     []HomeActivity
	BlogIndex      *db.Page
	LatestPosts    []db.Page
	UpcomingEvents []db.Page
}

// HomeService manages the home page settings and builds its listings.
type HomeService struct {
	db         *gorm.DB
	blog       *BlogService
	activities *ActivitiesService
}

// NewHomeService creates a HomeService on top of the blog and activities listings.
func NewHomeService(gdb *gorm.DB, blog *BlogService, activities *ActivitiesService) *HomeService {
	if blog == nil {
		blog = NewBlogService(gdb, DefaultBlogPageSize)
	}
	if activities == nil {
		activities = NewActivitiesService(gdb)
	}
	return &HomeService{db: gdb, blog: blog, activities: activities}
}

// Settings returns the settings of a home page, creating them with defaults on first use.
func (s *HomeService) Settings(pageID uint) (*db.HomeSettings, error) {
	var settings db.HomeSettings
	err := s.db.Preload("HeroImage").Where("page_id = ?", pageID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load home settings: %w", err)
	}

	page, err := findPage(s.db, pageID)
	if err != nil {
		return nil, err
	}
	if page.Type != PageTypeHome {
		return nil, fmt.Errorf("%w: page %d is not a home page", ErrPageNotFound, pageID)
	}

	settings = DefaultHomeSettings()
	settings.PageID = pageID
	if err := s.db.Omit("HeroImage").Create(&settings).Error; err != nil {
		return nil, fmt.Errorf("create home settings: %w", err)
	}
	return &settings, nil
}

// UpdateSettings replaces the editable home settings of pageID.
func (s *HomeService) UpdateSettings(pageID uint, input db.HomeSettings) (*db.HomeSettings, error) {
	current, err := s.Settings(pageID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if email := strings.TrimSpace(input.ContactEmail); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			verr.Add("contact_email", "Introduce una dirección de correo válida.")
		}
	}
	if input.HeroImageID != nil {
		if exists, err := recordExists(s.db, &db.Image{}, *input.HeroImageID); err != nil {
			return nil, err
		} else if !exists {
			verr.Add("hero_image_id", "La imagen no existe.")
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	input.ID = current.ID
	input.PageID = pageID
	input.HeroImage = nil
	input.ContactEmail = strings.TrimSpace(input.ContactEmail)
	input.ClubCallsign = strings.ToUpper(strings.TrimSpace(input.ClubCallsign))
	if err := s.db.Omit("HeroImage").Save(&input).Error; err != nil {
		return nil, fmt.Errorf("save home settings: %w", err)
	}
	return s.Settings(pageID)
}

// Context builds the listings of the home page.
func (s *HomeService) Context(home *db.Page) (HomeContext, error) {
	var result HomeContext

	settings, err := s.Settings(home.ID)
	if err != nil {
		return result, err
	}
	result.Settings = *settings
	result.Activities = Activities(*settings)

	if result.BlogIndex, err = s.blog.FirstIndex(home); err != nil {
		return result, err
	}
	if result.LatestPosts, err = s.blog.Latest(home, homeLatestPosts); err != nil {
		return result, err
	}
	if result.UpcomingEvents, err = s.activities.Upcoming(home, homeUpcomingEvents); err != nil {
		return result, err
	}
	return result, nil
}
