package db

import "gorm.io/gorm"

// SystemSetting stores admin-editable key/value settings.
type SystemSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}

// Club settings injected into every public template.
const (
	SettingKeyClubName      = "club_name"
	SettingKeyClubShortName = "club_short_name"
	SettingKeyClubCallsign  = "club_callsign"
	SettingKeyClubAddress   = "club_address"
	SettingKeyClubPhone     = "club_phone"
	SettingKeyClubMobile    = "club_mobile"
	SettingKeyClubEmail     = "club_email"
	SettingKeyClubFacebook  = "club_facebook"
)
