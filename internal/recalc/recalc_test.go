package recalc

import (
	"math"
	"testing"
	"time"

	"bakeshop-backend/internal/database"
	"bakeshop-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func floatPtr(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEventTotals(t *testing.T) {
	db := setupTestDB(t)

	event := models.Event{Name: "Farmers Market", EventDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	items := []models.EventItem{
		{EventID: event.ID, FlavorName: "Chocolate Chip", Prepared: 38, Sold: 27, Remaining: 11, Revenue: 135.00, UnitCost: floatPtr(1.16), COGS: 31.32, Profit: 103.68},
		{EventID: event.ID, FlavorName: "Snickerdoodle", Prepared: 30, Sold: 25, Giveaway: 2, Remaining: 3, Revenue: 125.00, UnitCost: floatPtr(1.56), COGS: 39.00, Profit: 86.00},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatalf("create items: %v", err)
	}

	if err := EventTotals(db, event.ID); err != nil {
		t.Fatalf("recalc: %v", err)
	}

	var got models.Event
	if err := db.First(&got, event.ID).Error; err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if got.TotalPrepared != 68 || got.TotalSold != 52 || got.TotalGiveaway != 2 {
		t.Errorf("counts = %d/%d/%d, want 68/52/2", got.TotalPrepared, got.TotalSold, got.TotalGiveaway)
	}
	if !almostEqual(got.TotalRevenue, 260.00) {
		t.Errorf("totalRevenue = %v, want 260.00", got.TotalRevenue)
	}
	if !almostEqual(got.TotalCost, 70.32) {
		t.Errorf("totalCost = %v, want 70.32", got.TotalCost)
	}
	if !almostEqual(got.NetProfit, 189.68) {
		t.Errorf("netProfit = %v, want 189.68", got.NetProfit)
	}
}

func TestEventTotalsAfterItemDelete(t *testing.T) {
	db := setupTestDB(t)

	event := models.Event{Name: "Spring Fair", EventDate: time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	keep := models.EventItem{EventID: event.ID, FlavorName: "Chocolate Chip", Prepared: 38, Sold: 27, Revenue: 135.00, COGS: 31.32, Profit: 103.68}
	drop := models.EventItem{EventID: event.ID, FlavorName: "Snickerdoodle", Prepared: 30, Sold: 25, Revenue: 125.00, COGS: 39.00, Profit: 86.00}
	if err := db.Create(&keep).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	if err := db.Create(&drop).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	if err := EventTotals(db, event.ID); err != nil {
		t.Fatalf("recalc: %v", err)
	}

	if err := db.Delete(&models.EventItem{}, drop.ID).Error; err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if err := EventTotals(db, event.ID); err != nil {
		t.Fatalf("recalc after delete: %v", err)
	}

	var got models.Event
	if err := db.First(&got, event.ID).Error; err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if !almostEqual(got.TotalRevenue, keep.Revenue) || !almostEqual(got.TotalCost, keep.COGS) || !almostEqual(got.NetProfit, keep.Profit) {
		t.Errorf("totals = %v/%v/%v, want the surviving item's %v/%v/%v",
			got.TotalRevenue, got.TotalCost, got.NetProfit, keep.Revenue, keep.COGS, keep.Profit)
	}
	if got.TotalPrepared != keep.Prepared || got.TotalSold != keep.Sold {
		t.Errorf("counts = %d/%d, want %d/%d", got.TotalPrepared, got.TotalSold, keep.Prepared, keep.Sold)
	}
}

func TestEventTotalsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	event := models.Event{Name: "Night Market", EventDate: time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	item := models.EventItem{EventID: event.ID, FlavorName: "Lemon Bar", Prepared: 10, Sold: 7, Revenue: 35, COGS: 7, Profit: 28}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := EventTotals(db, event.ID); err != nil {
		t.Fatalf("first recalc: %v", err)
	}
	var first models.Event
	if err := db.First(&first, event.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}

	if err := EventTotals(db, event.ID); err != nil {
		t.Fatalf("second recalc: %v", err)
	}
	var second models.Event
	if err := db.First(&second, event.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}

	if first.TotalPrepared != second.TotalPrepared || first.TotalSold != second.TotalSold ||
		!almostEqual(first.TotalRevenue, second.TotalRevenue) ||
		!almostEqual(first.TotalCost, second.TotalCost) ||
		!almostEqual(first.NetProfit, second.NetProfit) {
		t.Errorf("repeated recalc changed totals: %+v vs %+v", first, second)
	}
}

func TestEventTotalsNoItems(t *testing.T) {
	db := setupTestDB(t)

	// stale totals on an event whose items are all gone must reset to zero
	event := models.Event{Name: "Empty", EventDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		TotalPrepared: 9, TotalSold: 9, TotalRevenue: 45, TotalCost: 9, NetProfit: 36}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}

	if err := EventTotals(db, event.ID); err != nil {
		t.Fatalf("recalc: %v", err)
	}

	var got models.Event
	if err := db.First(&got, event.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.TotalPrepared != 0 || got.TotalSold != 0 || got.TotalRevenue != 0 || got.TotalCost != 0 || got.NetProfit != 0 {
		t.Errorf("totals not zeroed: %+v", got)
	}
}

func TestDeliveryTotals(t *testing.T) {
	db := setupTestDB(t)

	delivery := models.Delivery{StoreName: "Corner Grocery", DatePrepared: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := db.Create(&delivery).Error; err != nil {
		t.Fatalf("create delivery: %v", err)
	}
	item := models.DeliveryItem{DeliveryID: delivery.ID, FlavorName: "Chocolate Chip", Prepared: 100,
		UnitPrice: floatPtr(5), UnitCost: floatPtr(1.5), Revenue: 500.00, COGS: 150.00, Profit: 350.00}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := DeliveryTotals(db, delivery.ID); err != nil {
		t.Fatalf("recalc: %v", err)
	}

	var got models.Delivery
	if err := db.First(&got, delivery.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.TotalPrepared != 100 {
		t.Errorf("totalPrepared = %d, want 100", got.TotalPrepared)
	}
	if !almostEqual(got.TotalRevenue, 500.00) || !almostEqual(got.TotalCOGS, 150.00) || !almostEqual(got.GrossProfit, 350.00) {
		t.Errorf("totals = %v/%v/%v, want 500/150/350", got.TotalRevenue, got.TotalCOGS, got.GrossProfit)
	}
	if !almostEqual(got.ProfitMargin, 70.0) {
		t.Errorf("profitMargin = %v, want 70", got.ProfitMargin)
	}
}

func TestDeliveryTotalsZeroRevenue(t *testing.T) {
	db := setupTestDB(t)

	delivery := models.Delivery{StoreName: "New Account", DatePrepared: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), ProfitMargin: 33}
	if err := db.Create(&delivery).Error; err != nil {
		t.Fatalf("create delivery: %v", err)
	}

	if err := DeliveryTotals(db, delivery.ID); err != nil {
		t.Fatalf("recalc: %v", err)
	}

	var got models.Delivery
	if err := db.First(&got, delivery.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.ProfitMargin != 0 {
		t.Errorf("profitMargin = %v, want 0 when revenue is 0", got.ProfitMargin)
	}
}
