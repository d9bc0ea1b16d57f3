package domain

import "time"

// Market represents a single tradable question belonging to an Event. Like
// Event, the primary key is the external Gamma market ID. Markets are only
// ever ingested through their parent event's payload, so EventID always
// references an event upserted earlier in the same batch.
type Market struct {
	ID      string `gorm:"primaryKey"`
	EventID string `gorm:"index"`

	Slug        string `gorm:"index"`
	Question    string
	Description string `gorm:"type:text"`
	QuestionID  string // blockchain question ID, opaque
	ConditionID string // blockchain condition ID, opaque

	Active          bool
	Closed          bool
	Archived        bool
	Restricted      bool
	Featured        bool
	AcceptingOrders bool

	// External timestamps as reported by the API, not row-tracking columns.
	CreatedAt                *time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt                *time.Time `gorm:"autoUpdateTime:false"`
	StartDate                *time.Time
	EndDate                  *time.Time `gorm:"index"`
	EndDateISO               string
	EventStartTime           *time.Time
	AcceptingOrdersTimestamp *time.Time

	Icon  string
	Image string

	// Point-in-time pricing snapshot, overwritten on every sync. Historized
	// only via OutcomePrice when snapshot capture is enabled.
	BestBid        float64
	BestAsk        float64
	Spread         float64
	LastTradePrice float64

	Liquidity     string // raw API value, can be a string
	LiquidityNum  float64
	LiquidityAmm  float64
	LiquidityClob float64

	Volume     string // raw API value, can be a string
	VolumeNum  float64
	Volume24hr float64
	Volume1wk  float64
	Volume1mo  float64
	Volume1yr  float64

	OneHourPriceChange  float64
	OneDayPriceChange   float64
	OneWeekPriceChange  float64
	OneMonthPriceChange float64
	OneYearPriceChange  float64

	OrderMinSize          float64
	OrderPriceMinTickSize float64

	ResolutionSource string
	ResolvedBy       string
	UmaBond          string
	UmaReward        string

	ClobTokenIDs  []string `gorm:"serializer:json"`
	Outcomes      []string `gorm:"serializer:json"`
	OutcomePrices []string `gorm:"serializer:json"`

	NegRisk         bool
	EnableOrderBook bool
	Competitive     float64
	Cyom            bool

	SubmittedBy        string
	MarketMakerAddress string
}

// TableName specifies the table name for the Market model.
func (Market) TableName() string {
	return "markets"
}
