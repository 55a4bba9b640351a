package models

import (
	"errors"
	"gallery/db"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const siteSettingsID = 1

// SiteSettings is the public site configuration, a single row with ID 1
type SiteSettings struct {
	ID              uint64            `gorm:"primaryKey" json:"-"`
	Title           string            `gorm:"type:varchar(200)" json:"title"`
	Subtitle        string            `gorm:"type:varchar(300)" json:"subtitle"`
	HeroImage       string            `gorm:"type:varchar(600)" json:"hero_image"`
	HeroText        string            `gorm:"type:text" json:"hero_text"`
	FooterText      string            `gorm:"type:text" json:"footer_text"`
	PrimaryColor    string            `gorm:"type:varchar(20)" json:"primary_color"`
	BackgroundColor string            `gorm:"type:varchar(20)" json:"background_color"`
	TextColor       string            `gorm:"type:varchar(20)" json:"text_color"`
	AccentColor     string            `gorm:"type:varchar(20)" json:"accent_color"`
	Layout          datatypes.JSONMap `json:"layout"`
	IsPublished     bool              `gorm:"not null" json:"is_published"`
	UpdatedAt       int64             `json:"updated_at"`
}

// DefaultSiteSettings is stored the first time the settings are read
var DefaultSiteSettings = SiteSettings{
	ID:              siteSettingsID,
	Title:           "Gallery",
	Subtitle:        "Photography",
	HeroImage:       "",
	HeroText:        "",
	FooterText:      "",
	PrimaryColor:    "#111827",
	BackgroundColor: "#ffffff",
	TextColor:       "#111827",
	AccentColor:     "#6b7280",
	Layout: datatypes.JSONMap{
		"grid":    "masonry",
		"columns": 3,
	},
	IsPublished: true,
}

// SiteSettingsUpdate carries a partial update, nil fields are left untouched
type SiteSettingsUpdate struct {
	Title           *string                `json:"title"`
	Subtitle        *string                `json:"subtitle"`
	HeroImage       *string                `json:"hero_image"`
	HeroText        *string                `json:"hero_text"`
	FooterText      *string                `json:"footer_text"`
	PrimaryColor    *string                `json:"primary_color"`
	BackgroundColor *string                `json:"background_color"`
	TextColor       *string                `json:"text_color"`
	AccentColor     *string                `json:"accent_color"`
	Layout          map[string]interface{} `json:"layout"`
	IsPublished     *bool                  `json:"is_published"`
}

// GetSiteSettings returns the settings row, initializing it with DefaultSiteSettings if absent.
// Concurrent first reads are safe, only one insert wins.
func GetSiteSettings() (settings SiteSettings, err error) {
	err = db.Instance.First(&settings, siteSettingsID).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return settings, err
	}
	defaults := DefaultSiteSettings
	defaults.Layout = copyLayout(DefaultSiteSettings.Layout)
	err = db.Instance.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error
	if err != nil {
		return
	}
	err = db.Instance.First(&settings, siteSettingsID).Error
	return settings, notFound(err)
}

func UpdateSiteSettings(update SiteSettingsUpdate) (SiteSettings, error) {
	if _, err := GetSiteSettings(); err != nil {
		return SiteSettings{}, err
	}
	changes := map[string]interface{}{}
	setString := func(column string, value *string) {
		if value != nil {
			changes[column] = *value
		}
	}
	setString("title", update.Title)
	setString("subtitle", update.Subtitle)
	setString("hero_image", update.HeroImage)
	setString("hero_text", update.HeroText)
	setString("footer_text", update.FooterText)
	setString("primary_color", update.PrimaryColor)
	setString("background_color", update.BackgroundColor)
	setString("text_color", update.TextColor)
	setString("accent_color", update.AccentColor)
	if update.Layout != nil {
		changes["layout"] = datatypes.JSONMap(update.Layout)
	}
	if update.IsPublished != nil {
		changes["is_published"] = *update.IsPublished
	}
	if len(changes) > 0 {
		if err := db.Instance.Model(&SiteSettings{ID: siteSettingsID}).Updates(changes).Error; err != nil {
			return SiteSettings{}, err
		}
	}
	return GetSiteSettings()
}

func copyLayout(in datatypes.JSONMap) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
