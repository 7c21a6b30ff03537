package valuation

// SummaryReport aggregates the whole collection.
type SummaryReport struct {
	TotalEntries  int     `json:"total_entries"`
	TotalQuantity int     `json:"total_quantity"`
	TotalInvested float64 `json:"total_invested"`
	TotalValue    float64 `json:"total_value"`
	GainLoss      float64 `json:"gain_loss"`
	ROIPercent    float64 `json:"roi_percent"`
}

// GroupReport aggregates one owner or theme bucket.
type GroupReport struct {
	Name     string  `json:"name"`
	Entries  int     `json:"entries"`
	Quantity int     `json:"quantity"`
	Invested float64 `json:"invested"`
	Value    float64 `json:"value"`
	GainLoss float64 `json:"gain_loss"`
}

// TopEntry is one inventory entry ranked by market value.
type TopEntry struct {
	SetNum      string   `json:"set_num"`
	Name        string   `json:"name"`
	Quantity    int      `json:"quantity"`
	LatestPrice *float64 `json:"latest_price"`
	Value       *float64 `json:"value"`
	GainLoss    *float64 `json:"gain_loss"`
}

// Mover is one set ranked by absolute value change inside a window.
type Mover struct {
	SetNum        string   `json:"set_num"`
	Name          string   `json:"name"`
	Quantity      int      `json:"quantity"`
	EarliestPrice float64  `json:"earliest_price"`
	LatestPrice   float64  `json:"latest_price"`
	ChangeValue   float64  `json:"change_value"`
	PctChange     *float64 `json:"pct_change"`
}

// RecentEntry is one recently added inventory row.
type RecentEntry struct {
	SetNum        string   `json:"set_num"`
	Name          string   `json:"name"`
	Quantity      int      `json:"quantity"`
	PurchasePrice *float64 `json:"purchase_price"`
	DateAcquired  *string  `json:"date_acquired"`
	AddedAt       string   `json:"added_at"`
}

// TrendPoint is the collection's market value on one date.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}
