package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// SettingDocument is one singleton configuration record stored under a fixed key.
type SettingDocument struct {
	Key       string          `db:"key"`
	Value     json.RawMessage `db:"value"`
	UpdatedAt time.Time       `db:"updated_at"`
}

const (
	SettingKeyWebsite = "website"
	SettingKeyTheme   = "theme"
	SettingKeyBanner  = "banner"

	settingPrefixSEO      = "seo:"
	settingPrefixHomepage = "homepage:"
)

func SEOSettingKey(page string) string {
	return settingPrefixSEO + page
}

func HomepageSettingKey(section string) string {
	return settingPrefixHomepage + section
}

func SEOSettingPrefix() string      { return settingPrefixSEO }
func HomepageSettingPrefix() string { return settingPrefixHomepage }

// SettingName strips the namespace prefix from a stored key.
func SettingName(key string) string {
	if i := strings.Index(key, ":"); i >= 0 {
		return key[i+1:]
	}
	return key
}

type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	YouTube   string `json:"youtube"`
}

type WebsiteSettings struct {
	SiteName           string      `json:"siteName"`
	SiteTagline        string      `json:"siteTagline"`
	ContactEmail       string      `json:"contactEmail"`
	ContactPhone       string      `json:"contactPhone"`
	WhatsAppNumber     string      `json:"whatsappNumber"`
	Address            string      `json:"address"`
	GoogleMapsURL      string      `json:"googleMapsUrl"`
	SocialLinks        SocialLinks `json:"socialLinks"`
	MaintenanceMode    bool        `json:"maintenanceMode"`
	MaintenanceMessage string      `json:"maintenanceMessage"`
	BookingEnabled     bool        `json:"bookingEnabled"`
	Currency           string      `json:"currency"`
	CurrencySymbol     string      `json:"currencySymbol"`
	Timezone           string      `json:"timezone"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

func DefaultWebsiteSettings() WebsiteSettings {
	return WebsiteSettings{
		SiteName:           "Batuwa Travels",
		MaintenanceMessage: "We are currently under maintenance. Please check back soon.",
		BookingEnabled:     true,
		Currency:           "USD",
		CurrencySymbol:     "$",
		Timezone:           "UTC",
	}
}

type ThemeSettings struct {
	Logo            string    `json:"logo"`
	Favicon         string    `json:"favicon"`
	PrimaryColor    string    `json:"primaryColor"`
	SecondaryColor  string    `json:"secondaryColor"`
	AccentColor     string    `json:"accentColor"`
	BackgroundColor string    `json:"backgroundColor"`
	TextColor       string    `json:"textColor"`
	HeadingFont     string    `json:"headingFont"`
	BodyFont        string    `json:"bodyFont"`
	ButtonStyle     string    `json:"buttonStyle"`
	ButtonSize      string    `json:"buttonSize"`
	ThemeMode       string    `json:"themeMode"`
	CustomCSS       string    `json:"customCSS"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func DefaultThemeSettings() ThemeSettings {
	return ThemeSettings{
		PrimaryColor:    "#3B82F6",
		SecondaryColor:  "#8B5CF6",
		AccentColor:     "#F59E0B",
		BackgroundColor: "#FFFFFF",
		TextColor:       "#1F2937",
		HeadingFont:     "Inter",
		BodyFont:        "Inter",
		ButtonStyle:     "rounded",
		ButtonSize:      "medium",
		ThemeMode:       "light",
	}
}

type BannerSettings struct {
	Images           []string  `json:"images"`
	Title            string    `json:"title"`
	Eyebrow          string    `json:"eyebrow"`
	RotationInterval int       `json:"rotationInterval"`
	Enabled          bool      `json:"enabled"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func DefaultBannerSettings() BannerSettings {
	return BannerSettings{
		Images:           []string{},
		Title:            "TRAVEL WITH BATUWA",
		Eyebrow:          "Travel",
		RotationInterval: 4000,
		Enabled:          true,
	}
}

type SEOSettings struct {
	Page            string    `json:"page"`
	MetaTitle       string    `json:"metaTitle"`
	MetaDescription string    `json:"metaDescription"`
	MetaKeywords    []string  `json:"metaKeywords"`
	OGTitle         string    `json:"ogTitle"`
	OGDescription   string    `json:"ogDescription"`
	OGImage         string    `json:"ogImage"`
	CanonicalURL    string    `json:"canonicalUrl"`
	CustomSlug      string    `json:"customSlug"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func DefaultSEOSettings(page string) SEOSettings {
	return SEOSettings{Page: page, MetaKeywords: []string{}}
}

type HomepageSection struct {
	Section         string         `json:"section"`
	Enabled         bool           `json:"enabled"`
	Order           int            `json:"order"`
	Title           string         `json:"title"`
	Subtitle        string         `json:"subtitle"`
	Description     string         `json:"description"`
	Content         string         `json:"content"`
	Image           string         `json:"image"`
	Video           string         `json:"video"`
	CTAText         string         `json:"ctaText"`
	CTALink         string         `json:"ctaLink"`
	BackgroundColor string         `json:"backgroundColor"`
	TextColor       string         `json:"textColor"`
	CustomData      map[string]any `json:"customData"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func DefaultHomepageSection(section string) HomepageSection {
	return HomepageSection{Section: section, Enabled: true, CustomData: map[string]any{}}
}

type SectionOrder struct {
	Section string `json:"section"`
	Order   int    `json:"order"`
}
