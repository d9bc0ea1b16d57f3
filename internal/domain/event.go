package domain

import "time"

// TagRef is a normalized (label, slug) pair. The Gamma API embeds tags in
// event payloads either as plain strings or as {label, slug} objects; both
// forms are normalized to TagRef at the decoding boundary so query logic only
// ever sees this shape.
type TagRef struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// Event represents a top-level Polymarket prediction topic grouping one or
// more Markets. The primary key is the external Gamma event ID; rows are
// upserted by ID on every sync and never deleted when an event drops out of
// the feed.
type Event struct {
	ID          string `gorm:"primaryKey"`
	Slug        string `gorm:"uniqueIndex"`
	Ticker      string
	Title       string
	Description string `gorm:"type:text"`

	Active     bool
	Closed     bool
	Archived   bool
	Restricted bool
	Featured   bool

	// External timestamps as reported by the API, not row-tracking columns.
	// Unparsable or absent values are stored as NULL, never a zero time.
	CreatedAt *time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`
	StartTime *time.Time
	EndDate   *time.Time `gorm:"index"`

	Icon  string
	Image string

	ResolutionSource string

	Liquidity     float64
	LiquidityAmm  float64
	LiquidityClob float64
	OpenInterest  float64

	Volume     float64
	Volume24hr float64
	Volume1wk  float64
	Volume1mo  float64
	Volume1yr  float64

	Cyom            bool
	Competitive     float64
	CommentCount    int
	EnableOrderBook bool
	NegRisk         bool

	Tags []TagRef `gorm:"serializer:json"`

	Markets []Market `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Event model.
func (Event) TableName() string {
	return "events"
}
