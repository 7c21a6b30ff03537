package valuation

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jsherman999/LegoEater/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ownerUnassigned and themeUnknown are the sentinel buckets for entries
// without an owner or with an unresolved theme.
const (
	ownerUnassigned = "Unassigned"
	themeUnknown    = "Unknown"
)

// dataset is the in-memory snapshot of the data the reports compute over.
// Snapshot slices are ordered date then insertion id ascending.
type dataset struct {
	entries   []models.InventoryEntry
	owners    map[uuid.UUID]string
	catalog   map[string]CatalogMeta
	snapshots map[string][]models.PriceSnapshot
}

// latestPrice returns the newest observed average price for a set, or nil
// when there is no snapshot or the newest snapshot carries no price.
func (d *dataset) latestPrice(setNum string) *float64 {
	snaps := d.snapshots[setNum]
	if len(snaps) == 0 {
		return nil
	}
	return snaps[len(snaps)-1].AvgPrice
}

func (d *dataset) setName(setNum string) string {
	if meta, ok := d.catalog[setNum]; ok {
		return meta.Name
	}
	return setNum
}

func entryInvested(entry models.InventoryEntry) decimal.Decimal {
	if entry.PurchasePrice == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*entry.PurchasePrice).Mul(decimal.NewFromInt(int64(entry.Quantity)))
}

func (d *dataset) entryValue(entry models.InventoryEntry) decimal.Decimal {
	price := d.latestPrice(entry.SetNum)
	if price == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*price).Mul(decimal.NewFromInt(int64(entry.Quantity)))
}

func computeSummary(d *dataset) *SummaryReport {
	invested := decimal.Zero
	value := decimal.Zero
	quantity := 0
	for _, entry := range d.entries {
		invested = invested.Add(entryInvested(entry))
		value = value.Add(d.entryValue(entry))
		quantity += entry.Quantity
	}
	gainLoss := value.Sub(invested)
	roi := decimal.Zero
	if !invested.IsZero() {
		roi = gainLoss.Div(invested).Mul(decimal.NewFromInt(100))
	}
	return &SummaryReport{
		TotalEntries:  len(d.entries),
		TotalQuantity: quantity,
		TotalInvested: invested.InexactFloat64(),
		TotalValue:    value.InexactFloat64(),
		GainLoss:      gainLoss.InexactFloat64(),
		ROIPercent:    roi.InexactFloat64(),
	}
}

type groupAccumulator struct {
	name     string
	entries  int
	quantity int
	invested decimal.Decimal
	value    decimal.Decimal
}

// computeGrouped buckets entries by the given dimension and aggregates each
// bucket. The key gives group identity (distinct from the display name, so
// same-named owners stay separate). Groups sort by value descending, name
// ascending on ties.
func computeGrouped(d *dataset, keyOf func(models.InventoryEntry) (string, string)) []GroupReport {
	groups := map[string]*groupAccumulator{}
	for _, entry := range d.entries {
		key, name := keyOf(entry)
		acc, ok := groups[key]
		if !ok {
			acc = &groupAccumulator{name: name}
			groups[key] = acc
		}
		acc.entries++
		acc.quantity += entry.Quantity
		acc.invested = acc.invested.Add(entryInvested(entry))
		acc.value = acc.value.Add(d.entryValue(entry))
	}

	reports := make([]GroupReport, 0, len(groups))
	for _, acc := range groups {
		reports = append(reports, GroupReport{
			Name:     acc.name,
			Entries:  acc.entries,
			Quantity: acc.quantity,
			Invested: acc.invested.InexactFloat64(),
			Value:    acc.value.InexactFloat64(),
			GainLoss: acc.value.Sub(acc.invested).InexactFloat64(),
		})
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Value != reports[j].Value {
			return reports[i].Value > reports[j].Value
		}
		return reports[i].Name < reports[j].Name
	})
	return reports
}

// ownerGroup keys on the member id so two members sharing a display name
// stay separate; entries without a resolvable owner fold into the sentinel.
func (d *dataset) ownerGroup(entry models.InventoryEntry) (string, string) {
	if entry.OwnerID != nil {
		if name, ok := d.owners[*entry.OwnerID]; ok {
			return entry.OwnerID.String(), name
		}
	}
	return ownerUnassigned, ownerUnassigned
}

func (d *dataset) themeGroup(entry models.InventoryEntry) (string, string) {
	if meta, ok := d.catalog[entry.SetNum]; ok && meta.ThemeName != nil {
		return *meta.ThemeName, *meta.ThemeName
	}
	return themeUnknown, themeUnknown
}

// computeTopSets ranks entries by market value descending. Entries without a
// price rank as zero value; gain/loss stays nil when either side is unknown.
func computeTopSets(d *dataset, limit int) []TopEntry {
	entries := make([]TopEntry, 0, len(d.entries))
	for _, entry := range d.entries {
		top := TopEntry{
			SetNum:   entry.SetNum,
			Name:     d.setName(entry.SetNum),
			Quantity: entry.Quantity,
		}
		if price := d.latestPrice(entry.SetNum); price != nil {
			top.LatestPrice = price
			value := d.entryValue(entry).InexactFloat64()
			top.Value = &value
			if entry.PurchasePrice != nil {
				gainLoss := d.entryValue(entry).Sub(entryInvested(entry)).InexactFloat64()
				top.GainLoss = &gainLoss
			}
		}
		entries = append(entries, top)
	}
	sort.Slice(entries, func(i, j int) bool {
		vi, vj := 0.0, 0.0
		if entries[i].Value != nil {
			vi = *entries[i].Value
		}
		if entries[j].Value != nil {
			vj = *entries[j].Value
		}
		if vi != vj {
			return vi > vj
		}
		return entries[i].SetNum < entries[j].SetNum
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// computeMovers ranks sets by absolute value change across the trailing
// window. The earliest and latest window snapshots are chosen by (date, id)
// regardless of price; a set whose chosen endpoint carries no price is
// excluded entirely.
func computeMovers(d *dataset, today time.Time, days, limit int) []Mover {
	windowStart := today.UTC().AddDate(0, 0, -days).Format("2006-01-02")

	quantities := map[string]int{}
	order := []string{}
	for _, entry := range d.entries {
		if _, ok := quantities[entry.SetNum]; !ok {
			order = append(order, entry.SetNum)
		}
		quantities[entry.SetNum] += entry.Quantity
	}
	sort.Strings(order)

	movers := make([]Mover, 0, len(order))
	for _, setNum := range order {
		var windowed []models.PriceSnapshot
		for _, snapshot := range d.snapshots[setNum] {
			if snapshot.Date >= windowStart {
				windowed = append(windowed, snapshot)
			}
		}
		if len(windowed) == 0 {
			continue
		}
		earliestSnap := windowed[0]
		latestSnap := windowed[len(windowed)-1]
		if earliestSnap.AvgPrice == nil || latestSnap.AvgPrice == nil {
			continue
		}
		earliest := *earliestSnap.AvgPrice
		latest := *latestSnap.AvgPrice
		quantity := quantities[setNum]

		change := decimal.NewFromFloat(latest).
			Sub(decimal.NewFromFloat(earliest)).
			Mul(decimal.NewFromInt(int64(quantity)))

		mover := Mover{
			SetNum:        setNum,
			Name:          d.setName(setNum),
			Quantity:      quantity,
			EarliestPrice: earliest,
			LatestPrice:   latest,
			ChangeValue:   change.InexactFloat64(),
		}
		if earliest != 0 {
			pct := decimal.NewFromFloat(latest).
				Sub(decimal.NewFromFloat(earliest)).
				Div(decimal.NewFromFloat(earliest)).
				Mul(decimal.NewFromInt(100)).
				InexactFloat64()
			mover.PctChange = &pct
		}
		movers = append(movers, mover)
	}

	sort.Slice(movers, func(i, j int) bool {
		ai, aj := abs(movers[i].ChangeValue), abs(movers[j].ChangeValue)
		if ai != aj {
			return ai > aj
		}
		return movers[i].SetNum < movers[j].SetNum
	})
	if limit > 0 && len(movers) > limit {
		movers = movers[:limit]
	}
	return movers
}

// computeTrend produces one point per snapshot date inside the window: the
// collection's value priced with each set's latest snapshot as of that date.
func computeTrend(d *dataset, today time.Time, days int) []TrendPoint {
	windowStart := today.UTC().AddDate(0, 0, -days).Format("2006-01-02")

	dateSet := map[string]struct{}{}
	for _, entry := range d.entries {
		for _, snapshot := range d.snapshots[entry.SetNum] {
			if snapshot.Date >= windowStart {
				dateSet[snapshot.Date] = struct{}{}
			}
		}
	}
	dates := make([]string, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]TrendPoint, 0, len(dates))
	for _, date := range dates {
		value := decimal.Zero
		for _, entry := range d.entries {
			price := d.priceAsOf(entry.SetNum, date)
			if price == nil {
				continue
			}
			value = value.Add(decimal.NewFromFloat(*price).Mul(decimal.NewFromInt(int64(entry.Quantity))))
		}
		points = append(points, TrendPoint{Date: date, Value: value.InexactFloat64()})
	}
	return points
}

// priceAsOf returns the average price of the newest snapshot dated on or
// before the given date, nil when no such snapshot or no price was reported.
func (d *dataset) priceAsOf(setNum, date string) *float64 {
	snaps := d.snapshots[setNum]
	for i := len(snaps) - 1; i >= 0; i-- {
		if snaps[i].Date <= date {
			return snaps[i].AvgPrice
		}
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
