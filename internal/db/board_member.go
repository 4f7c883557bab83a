package db

import "time"

// BoardMember is a member of the club board shown on the about page.
type BoardMember struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Callsign  string    `gorm:"size:20;index" json:"callsign"`
	Role      string    `gorm:"size:255;not null" json:"role"`
	PhotoID   *uint     `json:"photo_id"`
	Photo     *Image    `gorm:"foreignKey:PhotoID" json:"photo"`
	Email     string    `gorm:"size:255" json:"email"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m BoardMember) String() string {
	if m.Callsign != "" {
		return m.Callsign + " - " + m.Name
	}
	return m.Name
}
