package db

import (
	"time"

	"github.com/radioclub/internal/blocks"
)

// Page is a node of the site tree. Every page type shares this table;
// columns a type does not use stay at their zero value.
type Page struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Path      string    `gorm:"size:255;uniqueIndex;not null" json:"path"`
	Depth     int       `gorm:"not null;index" json:"depth"`
	NumChild  int       `gorm:"not null;default:0" json:"num_child"`
	Type      string    `gorm:"size:40;index;not null" json:"type"`
	Slug      string    `gorm:"size:255;index;not null" json:"slug"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	URLPath   string    `gorm:"size:1024;index;not null" json:"url_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Live              bool       `gorm:"not null;default:false;index" json:"live"`
	Restricted        bool       `gorm:"not null;default:false" json:"restricted"`
	ShowInMenus       bool       `gorm:"not null;default:false" json:"show_in_menus"`
	SeoTitle          string     `gorm:"size:255" json:"seo_title"`
	SearchDescription string     `gorm:"type:text" json:"search_description"`
	FirstPublishedAt  *time.Time `json:"first_published_at"`
	LastPublishedAt   *time.Time `json:"last_published_at"`

	Introduction    string        `gorm:"type:text" json:"introduction"`
	Body            blocks.Stream `gorm:"type:text;serializer:json" json:"body"`
	HeaderImageID   *uint         `json:"header_image_id"`
	HeaderImage     *Image        `gorm:"foreignKey:HeaderImageID" json:"header_image"`
	DateFrom        *time.Time    `gorm:"index" json:"date_from"`
	DateTo          *time.Time    `json:"date_to"`
	Location        string        `gorm:"size:255" json:"location"`
	Icon            string        `gorm:"size:50" json:"icon"`
	RulesDocumentID *uint         `json:"rules_document_id"`
	RulesDocument   *Document     `gorm:"foreignKey:RulesDocumentID" json:"rules_document"`

	Categories    []BlogCategory `gorm:"many2many:page_categories;" json:"categories"`
	GalleryImages []GalleryImage `gorm:"foreignKey:PageID" json:"gallery_images"`
}

// BlogCategory groups blog posts; posts link to it through page_categories.
type BlogCategory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Slug      string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c BlogCategory) String() string {
	return c.Name
}

// HomeSettings holds the hero and landing sections of the home page.
type HomeSettings struct {
	ID                   uint      `gorm:"primarykey" json:"id"`
	PageID               uint      `gorm:"uniqueIndex;not null" json:"page_id"`
	HeroTitle            string    `gorm:"size:255" json:"hero_title"`
	HeroSubtitle         string    `gorm:"size:255" json:"hero_subtitle"`
	HeroCTAText          string    `gorm:"size:100" json:"hero_cta_text"`
	HeroImageID          *uint     `json:"hero_image_id"`
	HeroImage            *Image    `gorm:"foreignKey:HeroImageID" json:"hero_image"`
	AboutTitle           string    `gorm:"size:255" json:"about_title"`
	AboutDescription     string    `gorm:"type:text" json:"about_description"`
	ActivitiesTitle      string    `gorm:"size:255" json:"activities_title"`
	Activity1Title       string    `gorm:"size:100" json:"activity1_title"`
	Activity1Description string    `gorm:"type:text" json:"activity1_description"`
	Activity2Title       string    `gorm:"size:100" json:"activity2_title"`
	Activity2Description string    `gorm:"type:text" json:"activity2_description"`
	Activity3Title       string    `gorm:"size:100" json:"activity3_title"`
	Activity3Description string    `gorm:"type:text" json:"activity3_description"`
	Activity4Title       string    `gorm:"size:100" json:"activity4_title"`
	Activity4Description string    `gorm:"type:text" json:"activity4_description"`
	MeetingTitle         string    `gorm:"size:255" json:"meeting_title"`
	MeetingDescription   string    `gorm:"type:text" json:"meeting_description"`
	ContactTitle         string    `gorm:"size:255" json:"contact_title"`
	ContactEmail         string    `gorm:"size:255" json:"contact_email"`
	ContactDescription   string    `gorm:"type:text" json:"contact_description"`
	ClubCallsign         string    `gorm:"size:20" json:"club_callsign"`
	RepeaterInfo         string    `gorm:"size:255" json:"repeater_info"`
	UpdatedAt            time.Time `json:"updated_at"`
}
