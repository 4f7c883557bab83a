package service

import (
	"fmt"
	"strings"

	"github.com/radioclub/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClubSettings describes the club details shown in every public page.
type ClubSettings struct {
	ClubName      string `json:"club_name"`
	ClubShortName string `json:"club_short_name"`
	ClubCallsign  string `json:"club_callsign"`
	ClubAddress   string `json:"club_address"`
	ClubPhone     string `json:"club_phone"`
	ClubMobile    string `json:"club_mobile"`
	ClubEmail     string `json:"club_email"`
	ClubFacebook  string `json:"club_facebook"`
}

// DefaultClubSettings returns the values used until an admin edits them.
func DefaultClubSettings() ClubSettings {
	return ClubSettings{
		ClubName:      "Unión de Radioaficionados de Vigo - Val Miñor",
		ClubShortName: "URV EA1RKV",
		ClubCallsign:  "EA1RKV",
		ClubAddress:   "c/ Galindra, 16, 36213 Vigo (Pontevedra)",
		ClubPhone:     "986 290 249",
		ClubMobile:    "600 088 937",
		ClubEmail:     "seccion.vigo@ure.es",
		ClubFacebook:  "URE VIGO VAL MIÑOR EA1RKV",
	}
}

// SystemSettingService reads and stores the club settings.
type SystemSettingService struct {
	db *gorm.DB
}

// NewSystemSettingService constructs a SystemSettingService.
func NewSystemSettingService(gdb *gorm.DB) *SystemSettingService {
	return &SystemSettingService{db: gdb}
}

func (c *ClubSettings) fields() []struct {
	key   string
	value *string
} {
	return []struct {
		key   string
		value *string
	}{
		{db.SettingKeyClubName, &c.ClubName},
		{db.SettingKeyClubShortName, &c.ClubShortName},
		{db.SettingKeyClubCallsign, &c.ClubCallsign},
		{db.SettingKeyClubAddress, &c.ClubAddress},
		{db.SettingKeyClubPhone, &c.ClubPhone},
		{db.SettingKeyClubMobile, &c.ClubMobile},
		{db.SettingKeyClubEmail, &c.ClubEmail},
		{db.SettingKeyClubFacebook, &c.ClubFacebook},
	}
}

// GetSettings loads the club settings; missing or blank keys keep their defaults.
func (s *SystemSettingService) GetSettings() (ClubSettings, error) {
	result := DefaultClubSettings()
	fields := result.fields()

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}

	var records []db.SystemSetting
	if err := s.db.Where("key IN ?", keys).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load system settings: %w", err)
	}

	values := make(map[string]string, len(records))
	for _, record := range records {
		values[record.Key] = record.Value
	}
	for _, f := range fields {
		if v := strings.TrimSpace(values[f.key]); v != "" {
			*f.value = v
		}
	}
	return result, nil
}

// UpdateSettings saves the club settings. Blank values fall back to the defaults.
func (s *SystemSettingService) UpdateSettings(input ClubSettings) (ClubSettings, error) {
	sanitized := input
	defaults := DefaultClubSettings()
	defaultFields := defaults.fields()
	fields := sanitized.fields()
	for i, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			*f.value = *defaultFields[i].value
		}
	}
	sanitized.ClubCallsign = strings.ToUpper(sanitized.ClubCallsign)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, f := range fields {
			if err := upsertSetting(tx, f.key, *f.value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ClubSettings{}, fmt.Errorf("update system settings: %w", err)
	}
	return sanitized, nil
}

// EnsureDefaults stores the default value of every setting that has no row yet.
func (s *SystemSettingService) EnsureDefaults() (int, error) {
	defaults := DefaultClubSettings()
	created := 0
	for _, f := range defaults.fields() {
		result := s.db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&db.SystemSetting{Key: f.key, Value: *f.value})
		if result.Error != nil {
			return created, fmt.Errorf("create setting %s: %w", f.key, result.Error)
		}
		created += int(result.RowsAffected)
	}
	return created, nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SystemSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
