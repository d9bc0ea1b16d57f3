package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/polysync/polysync/internal/domain"
)

// The Gamma API is loosely typed: flags arrive as bool or "true"/"false"
// strings, numeric metrics as numbers or quoted numbers, list fields either
// as JSON arrays or as JSON-encoded strings of arrays, and tag entries as
// plain strings or {label, slug} objects. The flex* types below absorb all of
// that at the decoding boundary so the mapped domain records are uniformly
// typed. Decoding never fails a record: unusable values collapse to the zero
// value.

// flexBool unmarshals from JSON bool or string ("true"/"false"/"1").
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// flexFloat unmarshals from a JSON number or a quoted number. null and
// unparsable strings decode to 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(n)
	return nil
}

// flexString unmarshals from a JSON string or number; numeric IDs are
// stringified without scientific notation.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexStringList unmarshals from a JSON array of strings or from a
// JSON-encoded string such as "[\"Yes\",\"No\"]" (the form Gamma uses for
// outcomes, outcomePrices and clobTokenIds).
type flexStringList []string

func (f *flexStringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = nil
		return nil
	}
	if s == "" {
		*f = nil
		return nil
	}
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		*f = nil
		return nil
	}
	*f = list
	return nil
}

// APITag is one entry of an event's tags array: either a bare string or an
// object carrying label and slug. A bare string populates both fields.
type APITag struct {
	Label string
	Slug  string
}

func (t *APITag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Label = s
		t.Slug = s
		return nil
	}
	var obj struct {
		Label string `json:"label"`
		Slug  string `json:"slug"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.Label = obj.Label
	t.Slug = obj.Slug
	return nil
}

// APIEvent represents an event as returned by the Gamma /events endpoint.
type APIEvent struct {
	ID               flexString  `json:"id"`
	Slug             string      `json:"slug"`
	Ticker           string      `json:"ticker"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Active           flexBool    `json:"active"`
	Closed           flexBool    `json:"closed"`
	Archived         flexBool    `json:"archived"`
	Restricted       flexBool    `json:"restricted"`
	Featured         flexBool    `json:"featured"`
	CreatedAt        string      `json:"createdAt"`
	UpdatedAt        string      `json:"updatedAt"`
	StartTime        string      `json:"startTime"`
	EndDate          string      `json:"endDate"`
	Icon             string      `json:"icon"`
	Image            string      `json:"image"`
	ResolutionSource string      `json:"resolutionSource"`
	Liquidity        flexFloat   `json:"liquidity"`
	LiquidityAmm     flexFloat   `json:"liquidityAmm"`
	LiquidityClob    flexFloat   `json:"liquidityClob"`
	OpenInterest     flexFloat   `json:"openInterest"`
	Volume           flexFloat   `json:"volume"`
	Volume24hr       flexFloat   `json:"volume24hr"`
	Volume1wk        flexFloat   `json:"volume1wk"`
	Volume1mo        flexFloat   `json:"volume1mo"`
	Volume1yr        flexFloat   `json:"volume1yr"`
	Cyom             flexBool    `json:"cyom"`
	Competitive      flexFloat   `json:"competitive"`
	CommentCount     flexFloat   `json:"commentCount"`
	EnableOrderBook  flexBool    `json:"enableOrderBook"`
	NegRisk          flexBool    `json:"negRisk"`
	Tags             []APITag    `json:"tags"`
	Markets          []APIMarket `json:"markets"`
}

// APIMarket represents a market nested inside a Gamma event payload.
type APIMarket struct {
	ID                       flexString     `json:"id"`
	Slug                     string         `json:"slug"`
	Question                 string         `json:"question"`
	Description              string         `json:"description"`
	QuestionID               string         `json:"questionID"`
	ConditionID              string         `json:"conditionId"`
	Active                   flexBool       `json:"active"`
	Closed                   flexBool       `json:"closed"`
	Archived                 flexBool       `json:"archived"`
	Restricted               flexBool       `json:"restricted"`
	Featured                 flexBool       `json:"featured"`
	AcceptingOrders          flexBool       `json:"acceptingOrders"`
	CreatedAt                string         `json:"createdAt"`
	UpdatedAt                string         `json:"updatedAt"`
	StartDate                string         `json:"startDate"`
	EndDate                  string         `json:"endDate"`
	EndDateISO               string         `json:"endDateIso"`
	EventStartTime           string         `json:"eventStartTime"`
	AcceptingOrdersTimestamp string         `json:"acceptingOrdersTimestamp"`
	Icon                     string         `json:"icon"`
	Image                    string         `json:"image"`
	BestBid                  flexFloat      `json:"bestBid"`
	BestAsk                  flexFloat      `json:"bestAsk"`
	Spread                   flexFloat      `json:"spread"`
	LastTradePrice           flexFloat      `json:"lastTradePrice"`
	Liquidity                flexString     `json:"liquidity"`
	LiquidityNum             flexFloat      `json:"liquidityNum"`
	LiquidityAmm             flexFloat      `json:"liquidityAmm"`
	LiquidityClob            flexFloat      `json:"liquidityClob"`
	Volume                   flexString     `json:"volume"`
	VolumeNum                flexFloat      `json:"volumeNum"`
	Volume24hr               flexFloat      `json:"volume24hr"`
	Volume1wk                flexFloat      `json:"volume1wk"`
	Volume1mo                flexFloat      `json:"volume1mo"`
	Volume1yr                flexFloat      `json:"volume1yr"`
	OneHourPriceChange       flexFloat      `json:"oneHourPriceChange"`
	OneDayPriceChange        flexFloat      `json:"oneDayPriceChange"`
	OneWeekPriceChange       flexFloat      `json:"oneWeekPriceChange"`
	OneMonthPriceChange      flexFloat      `json:"oneMonthPriceChange"`
	OneYearPriceChange       flexFloat      `json:"oneYearPriceChange"`
	OrderMinSize             flexFloat      `json:"orderMinSize"`
	OrderPriceMinTickSize    flexFloat      `json:"orderPriceMinTickSize"`
	ResolutionSource         string         `json:"resolutionSource"`
	ResolvedBy               string         `json:"resolvedBy"`
	UmaBond                  flexString     `json:"umaBond"`
	UmaReward                flexString     `json:"umaReward"`
	ClobTokenIDs             flexStringList `json:"clobTokenIds"`
	Outcomes                 flexStringList `json:"outcomes"`
	OutcomePrices            flexStringList `json:"outcomePrices"`
	NegRisk                  flexBool       `json:"negRisk"`
	EnableOrderBook          flexBool       `json:"enableOrderBook"`
	Competitive              flexFloat      `json:"competitive"`
	Cyom                     flexBool       `json:"cyom"`
	SubmittedBy              string         `json:"submittedBy"`
	MarketMakerAddress       string         `json:"marketMakerAddress"`
}

// parseTime parses an ISO-8601 timestamp (trailing "Z" means UTC). Absent or
// unparsable values map to nil rather than a zero time.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// ToDomainEvent converts an APIEvent, including its nested markets, to a
// fully populated domain.Event. Mapping is pure and never fails: missing
// fields become zero values and bad timestamps become NULLs.
func (e *APIEvent) ToDomainEvent() domain.Event {
	ev := domain.Event{
		ID:          string(e.ID),
		Slug:        e.Slug,
		Ticker:      e.Ticker,
		Title:       e.Title,
		Description: e.Description,

		Active:     bool(e.Active),
		Closed:     bool(e.Closed),
		Archived:   bool(e.Archived),
		Restricted: bool(e.Restricted),
		Featured:   bool(e.Featured),

		CreatedAt: parseTime(e.CreatedAt),
		UpdatedAt: parseTime(e.UpdatedAt),
		StartTime: parseTime(e.StartTime),
		EndDate:   parseTime(e.EndDate),

		Icon:  e.Icon,
		Image: e.Image,

		ResolutionSource: e.ResolutionSource,

		Liquidity:     float64(e.Liquidity),
		LiquidityAmm:  float64(e.LiquidityAmm),
		LiquidityClob: float64(e.LiquidityClob),
		OpenInterest:  float64(e.OpenInterest),

		Volume:     float64(e.Volume),
		Volume24hr: float64(e.Volume24hr),
		Volume1wk:  float64(e.Volume1wk),
		Volume1mo:  float64(e.Volume1mo),
		Volume1yr:  float64(e.Volume1yr),

		Cyom:            bool(e.Cyom),
		Competitive:     float64(e.Competitive),
		CommentCount:    int(e.CommentCount),
		EnableOrderBook: bool(e.EnableOrderBook),
		NegRisk:         bool(e.NegRisk),
	}

	if len(e.Tags) > 0 {
		ev.Tags = make([]domain.TagRef, 0, len(e.Tags))
		for _, t := range e.Tags {
			ev.Tags = append(ev.Tags, domain.TagRef{Label: t.Label, Slug: t.Slug})
		}
	}

	if len(e.Markets) > 0 {
		ev.Markets = make([]domain.Market, 0, len(e.Markets))
		for i := range e.Markets {
			ev.Markets = append(ev.Markets, e.Markets[i].ToDomainMarket(ev.ID))
		}
	}

	return ev
}

// ToDomainMarket converts a nested APIMarket to a domain.Market owned by the
// given event.
func (m *APIMarket) ToDomainMarket(eventID string) domain.Market {
	return domain.Market{
		ID:      string(m.ID),
		EventID: eventID,

		Slug:        m.Slug,
		Question:    m.Question,
		Description: m.Description,
		QuestionID:  m.QuestionID,
		ConditionID: m.ConditionID,

		Active:          bool(m.Active),
		Closed:          bool(m.Closed),
		Archived:        bool(m.Archived),
		Restricted:      bool(m.Restricted),
		Featured:        bool(m.Featured),
		AcceptingOrders: bool(m.AcceptingOrders),

		CreatedAt:                parseTime(m.CreatedAt),
		UpdatedAt:                parseTime(m.UpdatedAt),
		StartDate:                parseTime(m.StartDate),
		EndDate:                  parseTime(m.EndDate),
		EndDateISO:               m.EndDateISO,
		EventStartTime:           parseTime(m.EventStartTime),
		AcceptingOrdersTimestamp: parseTime(m.AcceptingOrdersTimestamp),

		Icon:  m.Icon,
		Image: m.Image,

		BestBid:        float64(m.BestBid),
		BestAsk:        float64(m.BestAsk),
		Spread:         float64(m.Spread),
		LastTradePrice: float64(m.LastTradePrice),

		Liquidity:     string(m.Liquidity),
		LiquidityNum:  float64(m.LiquidityNum),
		LiquidityAmm:  float64(m.LiquidityAmm),
		LiquidityClob: float64(m.LiquidityClob),

		Volume:     string(m.Volume),
		VolumeNum:  float64(m.VolumeNum),
		Volume24hr: float64(m.Volume24hr),
		Volume1wk:  float64(m.Volume1wk),
		Volume1mo:  float64(m.Volume1mo),
		Volume1yr:  float64(m.Volume1yr),

		OneHourPriceChange:  float64(m.OneHourPriceChange),
		OneDayPriceChange:   float64(m.OneDayPriceChange),
		OneWeekPriceChange:  float64(m.OneWeekPriceChange),
		OneMonthPriceChange: float64(m.OneMonthPriceChange),
		OneYearPriceChange:  float64(m.OneYearPriceChange),

		OrderMinSize:          float64(m.OrderMinSize),
		OrderPriceMinTickSize: float64(m.OrderPriceMinTickSize),

		ResolutionSource: m.ResolutionSource,
		ResolvedBy:       m.ResolvedBy,
		UmaBond:          string(m.UmaBond),
		UmaReward:        string(m.UmaReward),

		ClobTokenIDs:  m.ClobTokenIDs,
		Outcomes:      m.Outcomes,
		OutcomePrices: m.OutcomePrices,

		NegRisk:         bool(m.NegRisk),
		EnableOrderBook: bool(m.EnableOrderBook),
		Competitive:     float64(m.Competitive),
		Cyom:            bool(m.Cyom),

		SubmittedBy:        m.SubmittedBy,
		MarketMakerAddress: m.MarketMakerAddress,
	}
}
