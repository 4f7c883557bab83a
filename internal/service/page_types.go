package service

// Page type names stored in db.Page.Type.
const (
	PageTypeHome            = "home"
	PageTypeAboutIndex      = "about_index"
	PageTypeAbout           = "about"
	PageTypeBlogIndex       = "blog_index"
	PageTypeBlog            = "blog"
	PageTypeActivitiesIndex = "activities_index"
	PageTypeEvent           = "event"
	PageTypeContest         = "contest"
	PageTypeDiploma         = "diploma"
	PageTypeRadioIndex      = "radio_index"
	PageTypeRadio           = "radio"
	PageTypeGalleryIndex    = "gallery_index"
	PageTypeGallery         = "gallery"
	PageTypeContact         = "contact"
)

const (
	introductionLimit = 500
	defaultRadioIcon  = "bi-broadcast"
)

// PageType describes where a page type may live in the tree and which fields it uses.
type PageType struct {
	Name     string
	Label    string
	Template string
	// AtRoot allows the type directly below the tree root.
	AtRoot      bool
	ParentTypes []string
	ChildTypes  []string
	// MaxCount limits how many pages of the type may exist; 0 means unlimited.
	MaxCount int

	IntroLimit        int
	HasBody           bool
	HasHeaderImage    bool
	HasDate           bool
	RequiresDate      bool
	DateDefaultsToday bool
	HasDateRange      bool
	HasLocation       bool
	HasIcon           bool
	HasRules          bool
	HasCategories     bool
}

var pageTypeOrder = []string{
	PageTypeHome,
	PageTypeAboutIndex,
	PageTypeAbout,
	PageTypeBlogIndex,
	PageTypeBlog,
	PageTypeActivitiesIndex,
	PageTypeEvent,
	PageTypeContest,
	PageTypeDiploma,
	PageTypeRadioIndex,
	PageTypeRadio,
	PageTypeGalleryIndex,
	PageTypeGallery,
	PageTypeContact,
}

var pageTypes = map[string]PageType{
	PageTypeHome: {
		Name:     PageTypeHome,
		Label:    "Portada",
		Template: "home/home_page.html",
		AtRoot:   true,
		ChildTypes: []string{
			PageTypeAboutIndex, PageTypeBlogIndex, PageTypeActivitiesIndex,
			PageTypeRadioIndex, PageTypeGalleryIndex, PageTypeContact,
		},
		MaxCount: 1,
	},
	PageTypeAboutIndex: {
		Name:        PageTypeAboutIndex,
		Label:       "Índice de nosotros",
		Template:    "about/about_index_page.html",
		ParentTypes: []string{PageTypeHome},
		ChildTypes:  []string{PageTypeAbout},
		MaxCount:    1,
		HasBody:     true,
	},
	PageTypeAbout: {
		Name:        PageTypeAbout,
		Label:       "Página de nosotros",
		Template:    "about/about_page.html",
		ParentTypes: []string{PageTypeAboutIndex},
		HasBody:     true,
	},
	PageTypeBlogIndex: {
		Name:        PageTypeBlogIndex,
		Label:       "Índice de noticias",
		Template:    "blog/blog_index_page.html",
		ParentTypes: []string{PageTypeHome},
		ChildTypes:  []string{PageTypeBlog},
		MaxCount:    1,
	},
	PageTypeBlog: {
		Name:              PageTypeBlog,
		Label:             "Noticia",
		Template:          "blog/blog_page.html",
		ParentTypes:       []string{PageTypeBlogIndex},
		IntroLimit:        introductionLimit,
		HasBody:           true,
		HasHeaderImage:    true,
		HasDate:           true,
		DateDefaultsToday: true,
		HasCategories:     true,
	},
	PageTypeActivitiesIndex: {
		Name:        PageTypeActivitiesIndex,
		Label:       "Índice de actividades",
		Template:    "activities/activities_index_page.html",
		ParentTypes: []string{PageTypeHome},
		ChildTypes:  []string{PageTypeEvent, PageTypeContest, PageTypeDiploma},
		MaxCount:    1,
	},
	PageTypeEvent: {
		Name:           PageTypeEvent,
		Label:          "Evento",
		Template:       "activities/event_page.html",
		ParentTypes:    []string{PageTypeActivitiesIndex},
		IntroLimit:     introductionLimit,
		HasBody:        true,
		HasHeaderImage: true,
		HasDate:        true,
		RequiresDate:   true,
		HasDateRange:   true,
		HasLocation:    true,
	},
	PageTypeContest: {
		Name:         PageTypeContest,
		Label:        "Concurso",
		Template:     "activities/contest_page.html",
		ParentTypes:  []string{PageTypeActivitiesIndex},
		IntroLimit:   introductionLimit,
		HasBody:      true,
		HasDate:      true,
		RequiresDate: true,
		HasDateRange: true,
		HasRules:     true,
	},
	PageTypeDiploma: {
		Name:           PageTypeDiploma,
		Label:          "Diploma",
		Template:       "activities/diploma_page.html",
		ParentTypes:    []string{PageTypeActivitiesIndex},
		IntroLimit:     introductionLimit,
		HasBody:        true,
		HasHeaderImage: true,
	},
	PageTypeRadioIndex: {
		Name:        PageTypeRadioIndex,
		Label:       "Sección radio",
		Template:    "radio/radio_index_page.html",
		ParentTypes: []string{PageTypeHome},
		ChildTypes:  []string{PageTypeRadio},
		MaxCount:    1,
	},
	PageTypeRadio: {
		Name:           PageTypeRadio,
		Label:          "Página técnica de radio",
		Template:       "radio/radio_page.html",
		ParentTypes:    []string{PageTypeRadioIndex, PageTypeRadio},
		ChildTypes:     []string{PageTypeRadio},
		IntroLimit:     introductionLimit,
		HasBody:        true,
		HasHeaderImage: true,
		HasIcon:        true,
	},
	PageTypeGalleryIndex: {
		Name:        PageTypeGalleryIndex,
		Label:       "Índice de galerías",
		Template:    "gallery/gallery_index_page.html",
		ParentTypes: []string{PageTypeHome},
		ChildTypes:  []string{PageTypeGallery},
		MaxCount:    1,
	},
	PageTypeGallery: {
		Name:           PageTypeGallery,
		Label:          "Galería de fotos",
		Template:       "gallery/gallery_page.html",
		ParentTypes:    []string{PageTypeGalleryIndex},
		IntroLimit:     introductionLimit,
		HasHeaderImage: true,
		HasDate:        true,
	},
	PageTypeContact: {
		Name:        PageTypeContact,
		Label:       "Página de contacto",
		Template:    "contact/contact_page.html",
		ParentTypes: []string{PageTypeHome},
		MaxCount:    1,
	},
}

// ContactLandingTemplate is rendered after a successful contact form submission.
const ContactLandingTemplate = "contact/contact_page_landing.html"

// LookupPageType returns the registered type with the given name.
func LookupPageType(name string) (PageType, bool) {
	pt, ok := pageTypes[name]
	return pt, ok
}

// PageTypes returns every registered type in admin display order.
func PageTypes() []PageType {
	out := make([]PageType, 0, len(pageTypeOrder))
	for _, name := range pageTypeOrder {
		out = append(out, pageTypes[name])
	}
	return out
}

// AllowsChild reports whether childType may be created directly below this type.
// Both sides must agree: the parent lists the child and the child lists the parent.
func (t PageType) AllowsChild(childType string) bool {
	child, ok := pageTypes[childType]
	if !ok {
		return false
	}
	return contains(t.ChildTypes, childType) && contains(child.ParentTypes, t.Name)
}

// IsIndex reports whether the type exists to list its children.
func (t PageType) IsIndex() bool {
	return len(t.ChildTypes) > 0 && t.MaxCount == 1
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
