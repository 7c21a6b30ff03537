package valuation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jsherman999/LegoEater/pkg/db/models"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func snap(id int64, setNum, date string, avg *float64) models.PriceSnapshot {
	return models.PriceSnapshot{ID: id, SetNum: setNum, Date: date, Source: "bricklink", AvgPrice: avg}
}

func today() time.Time {
	return time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
}

func TestSummaryWorkedExample(t *testing.T) {
	d := &dataset{
		entries: []models.InventoryEntry{
			{SetNum: "75192-1", Quantity: 3, PurchasePrice: fptr(20)},
		},
		snapshots: map[string][]models.PriceSnapshot{
			"75192-1": {snap(1, "75192-1", "2025-09-14", fptr(25))},
		},
	}
	got := computeSummary(d)

	if got.TotalEntries != 1 || got.TotalQuantity != 3 {
		t.Fatalf("counts = %d entries, %d quantity", got.TotalEntries, got.TotalQuantity)
	}
	if got.TotalInvested != 60 {
		t.Fatalf("invested = %v, want 60", got.TotalInvested)
	}
	if got.TotalValue != 75 {
		t.Fatalf("value = %v, want 75", got.TotalValue)
	}
	if got.GainLoss != 15 {
		t.Fatalf("gain/loss = %v, want 15", got.GainLoss)
	}
	if got.ROIPercent != 25 {
		t.Fatalf("roi = %v, want 25", got.ROIPercent)
	}
}

func TestSummaryZeroInvestedHasZeroROI(t *testing.T) {
	d := &dataset{
		entries: []models.InventoryEntry{{SetNum: "75192-1", Quantity: 2}},
		snapshots: map[string][]models.PriceSnapshot{
			"75192-1": {snap(1, "75192-1", "2025-09-14", fptr(10))},
		},
	}
	got := computeSummary(d)
	if got.TotalInvested != 0 || got.ROIPercent != 0 {
		t.Fatalf("invested = %v, roi = %v, want 0 and 0", got.TotalInvested, got.ROIPercent)
	}
	if got.TotalValue != 20 {
		t.Fatalf("value = %v, want 20", got.TotalValue)
	}
}

func TestLatestPriceTieBrokenByInsertionOrder(t *testing.T) {
	d := &dataset{
		snapshots: map[string][]models.PriceSnapshot{
			"75192-1": {
				snap(1, "75192-1", "2025-09-14", fptr(100)),
				snap(2, "75192-1", "2025-09-14", fptr(110)),
			},
		},
	}
	price := d.latestPrice("75192-1")
	if price == nil || *price != 110 {
		t.Fatalf("latest price = %v, want the most recently inserted 110", price)
	}
}

func TestGroupedByOwner(t *testing.T) {
	alice := uuid.New()
	ghost := uuid.New()
	d := &dataset{
		entries: []models.InventoryEntry{
			{SetNum: "1001-1", Quantity: 1, PurchasePrice: fptr(10), OwnerID: &alice},
			{SetNum: "1002-1", Quantity: 2, PurchasePrice: fptr(5), OwnerID: nil},
			{SetNum: "1003-1", Quantity: 1, OwnerID: &ghost},
		},
		owners: map[uuid.UUID]string{alice: "Alice"},
		snapshots: map[string][]models.PriceSnapshot{
			"1001-1": {snap(1, "1001-1", "2025-09-14", fptr(30))},
			"1002-1": {snap(2, "1002-1", "2025-09-14", fptr(8))},
		},
	}
	groups := computeGrouped(d, d.ownerGroup)

	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2 (unknown owner folds into Unassigned)", len(groups))
	}
	if groups[0].Name != "Alice" || groups[0].Value != 30 || groups[0].GainLoss != 20 {
		t.Fatalf("first group = %+v", groups[0])
	}
	if groups[1].Name != ownerUnassigned || groups[1].Entries != 2 || groups[1].Quantity != 3 {
		t.Fatalf("second group = %+v", groups[1])
	}
	if groups[1].Value != 16 {
		t.Fatalf("unassigned value = %v, want 16", groups[1].Value)
	}
}

func TestGroupedSortValueDescNameAscOnTies(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	d := &dataset{
		entries: []models.InventoryEntry{
			{SetNum: "1001-1", Quantity: 1, OwnerID: &b},
			{SetNum: "1001-1", Quantity: 1, OwnerID: &a},
		},
		owners: map[uuid.UUID]string{a: "Alice", b: "Bob"},
		snapshots: map[string][]models.PriceSnapshot{
			"1001-1": {snap(1, "1001-1", "2025-09-14", fptr(10))},
		},
	}
	groups := computeGrouped(d, d.ownerGroup)
	if groups[0].Name != "Alice" || groups[1].Name != "Bob" {
		t.Fatalf("tie order = %s, %s, want Alice then Bob", groups[0].Name, groups[1].Name)
	}
}

func TestGroupedByOwnerKeepsSameNamedOwnersSeparate(t *testing.T) {
	alexOne, alexTwo := uuid.New(), uuid.New()
	d := &dataset{
		entries: []models.InventoryEntry{
			{SetNum: "1001-1", Quantity: 1, OwnerID: &alexOne},
			{SetNum: "1002-1", Quantity: 1, OwnerID: &alexTwo},
		},
		owners: map[uuid.UUID]string{alexOne: "Alex", alexTwo: "Alex"},
		snapshots: map[string][]models.PriceSnapshot{
			"1001-1": {snap(1, "1001-1", "2025-09-14", fptr(30))},
			"1002-1": {snap(2, "1002-1", "2025-09-14", fptr(10))},
		},
	}
	groups := computeGrouped(d, d.ownerGroup)

	if len(groups) != 2 {
		t.Fatalf("groups = %+v, want two distinct members named Alex", groups)
	}
	if groups[0].Name != "Alex" || groups[1].Name != "Alex" {
		t.Fatalf("names = %s, %s, want Alex twice", groups[0].Name, groups[1].Name)
	}
	if groups[0].Value != 30 || groups[1].Value != 10 {
		t.Fatalf("values = %v, %v, want 30 then 10", groups[0].Value, groups[1].Value)
	}
}

func TestGroupedByThemeUnknownSentinel(t *testing.T) {
	d := &dataset{
		entries: []models.InventoryEntry{
			{SetNum: "1001-1", Quantity: 1},
			{SetNum: "1002-1", Quantity: 1},
		},
		catalog: map[string]CatalogMeta{
			"1001-1": {Name: "Falcon", ThemeName: sptr("Star Wars")},
			"1002-1": {Name: "Mystery"},
		},
	}
	groups := computeGrouped(d, d.themeGroup)
	names := map[string]bool{}
	for _, g := range groups {
		names[g.Name] = true
	}
	if !names["Star Wars"] || !names[themeUnknown] {
		t.Fatalf("groups = %+v", groups)
	}
}

func TestTopSetsRanking(t *testing.T) {
	d := &dataset{
		entries: []models.InventoryEntry{
			{SetNum: "1001-1", Quantity: 1, PurchasePrice: fptr(50)},
			{SetNum: "1002-1", Quantity: 3},
			{SetNum: "1003-1", Quantity: 5},
		},
		catalog: map[string]CatalogMeta{
			"1001-1": {Name: "Big One"},
			"1002-1": {Name: "Mid One"},
		},
		snapshots: map[string][]models.PriceSnapshot{
			"1001-1": {snap(1, "1001-1", "2025-09-14", fptr(200))},
			"1002-1": {snap(2, "1002-1", "2025-09-14", fptr(30))},
		},
	}
	top := computeTopSets(d, 2)

	if len(top) != 2 {
		t.Fatalf("top = %d entries, want 2", len(top))
	}
	if top[0].SetNum != "1001-1" || top[0].Value == nil || *top[0].Value != 200 {
		t.Fatalf("first = %+v", top[0])
	}
	if top[0].GainLoss == nil || *top[0].GainLoss != 150 {
		t.Fatalf("first gain/loss = %v, want 150", top[0].GainLoss)
	}
	if top[1].SetNum != "1002-1" || *top[1].Value != 90 {
		t.Fatalf("second = %+v", top[1])
	}
	// No purchase price means gain/loss stays unknown.
	if top[1].GainLoss != nil {
		t.Fatalf("second gain/loss = %v, want nil", *top[1].GainLoss)
	}
}

func TestMoversWorkedExample(t *testing.T) {
	d := &dataset{
		entries: []models.InventoryEntry{
			{SetNum: "1001-1", Quantity: 2},
		},
		catalog: map[string]CatalogMeta{"1001-1": {Name: "X"}},
		snapshots: map[string][]models.PriceSnapshot{
			"1001-1": {
				snap(1, "1001-1", "2025-08-16", fptr(10)),
				snap(2, "1001-1", "2025-09-15", fptr(15)),
			},
		},
	}
	movers := computeMovers(d, today(), 30, 10)

	if len(movers) != 1 {
		t.Fatalf("movers = %d, want 1", len(movers))
	}
	m := movers[0]
	if m.ChangeValue != 10 {
		t.Fatalf("change = %v, want (15-10)*2 = 10", m.ChangeValue)
	}
	if m.PctChange == nil || *m.PctChange != 50 {
		t.Fatalf("pct = %v, want 50", m.PctChange)
	}
}

func TestMoversExclusionsAndNullPct(t *testing.T) {
	d := &dataset{
		entries: []models.InventoryEntry{
			{SetNum: "1001-1", Quantity: 1},
			{SetNum: "1002-1", Quantity: 1},
			{SetNum: "1003-1", Quantity: 1},
		},
		snapshots: map[string][]models.PriceSnapshot{
			// Only history outside the window.
			"1001-1": {snap(1, "1001-1", "2025-01-01", fptr(10))},
			// Earliest price of zero makes percent change undefined.
			"1002-1": {
				snap(2, "1002-1", "2025-09-01", fptr(0)),
				snap(3, "1002-1", "2025-09-14", fptr(5)),
			},
		},
	}
	movers := computeMovers(d, today(), 30, 10)

	if len(movers) != 1 {
		t.Fatalf("movers = %+v, want only 1002-1", movers)
	}
	if movers[0].SetNum != "1002-1" {
		t.Fatalf("mover = %s, want 1002-1", movers[0].SetNum)
	}
	if movers[0].PctChange != nil {
		t.Fatalf("pct = %v, want nil when earliest is 0", *movers[0].PctChange)
	}
}

func TestMoversExcludeSetWithUnpricedWindowEndpoint(t *testing.T) {
	d := &dataset{
		entries: []models.InventoryEntry{
			{SetNum: "1001-1", Quantity: 1},
			{SetNum: "1002-1", Quantity: 1},
		},
		snapshots: map[string][]models.PriceSnapshot{
			// The latest window snapshot is a null observation; an older
			// priced snapshot must not stand in for it.
			"1001-1": {
				snap(1, "1001-1", "2025-09-10", fptr(10)),
				snap(2, "1001-1", "2025-09-14", fptr(20)),
				snap(3, "1001-1", "2025-09-15", nil),
			},
			// Same for the earliest window snapshot.
			"1002-1": {
				snap(4, "1002-1", "2025-09-10", nil),
				snap(5, "1002-1", "2025-09-14", fptr(20)),
			},
		},
	}
	movers := computeMovers(d, today(), 30, 10)

	if len(movers) != 0 {
		t.Fatalf("movers = %+v, want both sets excluded", movers)
	}
}

func TestMoversRankByAbsoluteChange(t *testing.T) {
	d := &dataset{
		entries: []models.InventoryEntry{
			{SetNum: "1001-1", Quantity: 1},
			{SetNum: "1002-1", Quantity: 1},
		},
		snapshots: map[string][]models.PriceSnapshot{
			"1001-1": {
				snap(1, "1001-1", "2025-09-01", fptr(100)),
				snap(2, "1001-1", "2025-09-14", fptr(105)),
			},
			"1002-1": {
				snap(3, "1002-1", "2025-09-01", fptr(100)),
				snap(4, "1002-1", "2025-09-14", fptr(80)),
			},
		},
	}
	movers := computeMovers(d, today(), 30, 10)

	if movers[0].SetNum != "1002-1" {
		t.Fatalf("first mover = %s, want the -20 drop to outrank the +5 rise", movers[0].SetNum)
	}
}

func TestTrendCarriesLatestAsOfDateForward(t *testing.T) {
	d := &dataset{
		entries: []models.InventoryEntry{
			{SetNum: "1001-1", Quantity: 2},
			{SetNum: "1002-1", Quantity: 1},
		},
		snapshots: map[string][]models.PriceSnapshot{
			"1001-1": {
				snap(1, "1001-1", "2025-09-10", fptr(10)),
				snap(3, "1001-1", "2025-09-12", fptr(12)),
			},
			"1002-1": {
				snap(2, "1002-1", "2025-09-11", fptr(100)),
			},
		},
	}
	points := computeTrend(d, today(), 30)

	want := []TrendPoint{
		{Date: "2025-09-10", Value: 20},
		{Date: "2025-09-11", Value: 120},
		{Date: "2025-09-12", Value: 124},
	}
	if len(points) != len(want) {
		t.Fatalf("points = %+v", points)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Fatalf("point[%d] = %+v, want %+v", i, points[i], want[i])
		}
	}
}
