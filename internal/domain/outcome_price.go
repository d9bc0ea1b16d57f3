package domain

import "time"

// OutcomePrice is a single observed price snapshot for one outcome of a
// market. Rows are append-only; the default sync loop does not write them
// unless price snapshot capture is enabled in configuration.
type OutcomePrice struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	MarketID  string `gorm:"index"`
	Outcome   string
	Price     float64
	Timestamp time.Time `gorm:"index"`
}

// TableName specifies the table name for the OutcomePrice model.
func (OutcomePrice) TableName() string {
	return "outcome_prices"
}

// Tag is a normalized lookup-table mirror of the (label, slug) pairs embedded
// in Event.Tags. The table is migrated but not synchronized by the
// reconciler; it exists for ad-hoc joins and future use.
type Tag struct {
	ID    uint   `gorm:"primaryKey;autoIncrement"`
	Label string `gorm:"uniqueIndex"`
	Slug  string
}

// TableName specifies the table name for the Tag model.
func (Tag) TableName() string {
	return "tags"
}
