package domain

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type TourStatus string

const (
	TourStatusDraft     TourStatus = "draft"
	TourStatusPublished TourStatus = "published"
	TourStatusHidden    TourStatus = "hidden"
)

func (s TourStatus) Valid() bool {
	switch s {
	case TourStatusDraft, TourStatusPublished, TourStatusHidden:
		return true
	}
	return false
}

type TourDifficulty string

const (
	DifficultyEasy        TourDifficulty = "easy"
	DifficultyModerate    TourDifficulty = "moderate"
	DifficultyChallenging TourDifficulty = "challenging"
	DifficultyExpert      TourDifficulty = "expert"
)

func (d TourDifficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyChallenging, DifficultyExpert:
		return true
	}
	return false
}

const (
	DefaultMaxGroupSize = 15
	DefaultMinGroupSize = 2
)

type ItineraryDay struct {
	DayNumber   int    `json:"dayNumber"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Itinerary []ItineraryDay

func (it Itinerary) Value() (driver.Value, error) {
	if it == nil {
		it = Itinerary{}
	}
	return jsonValue(it)
}

func (it *Itinerary) Scan(value any) error {
	*it = Itinerary{}
	return jsonScan(value, it)
}

type SeasonalPrice struct {
	Season          string    `json:"season"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Price           float64   `json:"price"`
	DiscountPercent float64   `json:"discountPercent"`
}

// Covers reports whether day falls inside the season, both ends inclusive.
func (p SeasonalPrice) Covers(day time.Time) bool {
	return !day.Before(p.StartDate) && !day.After(p.EndDate)
}

type SeasonalPricing []SeasonalPrice

func (sp SeasonalPricing) Value() (driver.Value, error) {
	if sp == nil {
		sp = SeasonalPricing{}
	}
	return jsonValue(sp)
}

func (sp *SeasonalPricing) Scan(value any) error {
	*sp = SeasonalPricing{}
	return jsonScan(value, sp)
}

type TourDetails struct {
	Expenses           string   `json:"expenses"`
	CancellationPolicy string   `json:"cancellationPolicy"`
	Highlights         []string `json:"highlights"`
	Requirements       []string `json:"requirements"`
}

func (d TourDetails) Value() (driver.Value, error) {
	if d.Highlights == nil {
		d.Highlights = []string{}
	}
	if d.Requirements == nil {
		d.Requirements = []string{}
	}
	return jsonValue(d)
}

func (d *TourDetails) Scan(value any) error {
	*d = TourDetails{}
	return jsonScan(value, d)
}

type Tour struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	Title           string          `db:"title" json:"title"`
	Slug            string          `db:"slug" json:"slug"`
	Image           string          `db:"img" json:"img"`
	Description     string          `db:"description" json:"desc"`
	FullDescription string          `db:"full_description" json:"fullDescription"`
	Price           float64         `db:"price" json:"price"`
	DiscountPrice   float64         `db:"discount_price" json:"discountPrice"`
	DiscountPercent float64         `db:"discount_percent" json:"discountPercent"`
	Days            int             `db:"days" json:"days"`
	Nights          int             `db:"nights" json:"nights"`
	Location        string          `db:"location" json:"location"`
	Difficulty      TourDifficulty  `db:"difficulty" json:"difficulty"`
	Status          TourStatus      `db:"status" json:"status"`
	Trending        bool            `db:"trending" json:"trending"`
	Upcoming        bool            `db:"upcoming" json:"upcoming"`
	Featured        bool            `db:"featured" json:"featured"`
	Photos          StringList      `db:"photos" json:"photos"`
	Videos          StringList      `db:"videos" json:"videos"`
	MapURL          string          `db:"map_url" json:"mapUrl"`
	MaxGroupSize    int             `db:"max_group_size" json:"maxGroupSize"`
	MinGroupSize    int             `db:"min_group_size" json:"minGroupSize"`
	Includes        StringList      `db:"includes" json:"includes"`
	Excludes        StringList      `db:"excludes" json:"excludes"`
	Itinerary       Itinerary       `db:"itinerary" json:"itinerary"`
	SeasonalPricing SeasonalPricing `db:"seasonal_pricing" json:"seasonalPricing"`
	Details         TourDetails     `db:"details" json:"details"`
	Views           int64           `db:"views" json:"views"`
	Bookings        int64           `db:"bookings" json:"bookings"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

// TourStatusAll is accepted by admin listings to disable status filtering.
const TourStatusAll = "all"

type TourFilter struct {
	Visibility Visibility
	Status     *TourStatus
	Featured   *bool
	Trending   *bool
	Upcoming   *bool
	Search     string
}
