package db

import "time"

// ContactSettings configures the form mail and landing text of a contact page.
type ContactSettings struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	PageID       uint      `gorm:"uniqueIndex;not null" json:"page_id"`
	ThankYouText string    `gorm:"type:text" json:"thank_you_text"`
	MapURL       string    `gorm:"size:1024" json:"map_url"`
	ToAddress    string    `gorm:"size:255" json:"to_address"`
	FromAddress  string    `gorm:"size:255" json:"from_address"`
	Subject      string    `gorm:"size:255" json:"subject"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FormField is one configurable input of a contact form.
type FormField struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	PageID       uint   `gorm:"index;not null" json:"page_id"`
	SortOrder    int    `gorm:"default:0" json:"sort_order"`
	Label        string `gorm:"size:255;not null" json:"label"`
	CleanName    string `gorm:"size:255;not null" json:"clean_name"`
	FieldType    string `gorm:"size:20;not null" json:"field_type"`
	Required     bool   `json:"required"`
	Choices      string `gorm:"type:text" json:"choices"`
	DefaultValue string `gorm:"type:text" json:"default_value"`
	HelpText     string `gorm:"size:255" json:"help_text"`
}

// FormSubmission stores the cleaned values of one contact form post, keyed by clean name.
type FormSubmission struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	PageID      uint              `gorm:"index;not null" json:"page_id"`
	FormData    map[string]string `gorm:"type:text;serializer:json" json:"form_data"`
	SubmittedAt time.Time         `gorm:"index" json:"submitted_at"`
}
