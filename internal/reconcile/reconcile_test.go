package reconcile

import (
	"testing"
	"time"

	"bakeshop-backend/internal/database"
	"bakeshop-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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

func TestRunRepairsDrift(t *testing.T) {
	db := setupTestDB(t)

	// event whose stored totals no longer match its items
	event := models.Event{Name: "Drifted", EventDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		TotalRevenue: 999, TotalSold: 3}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	item := models.EventItem{EventID: event.ID, FlavorName: "Chocolate Chip", Prepared: 10, Sold: 4, Revenue: 20, Profit: 20}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}

	// delivery already consistent: one item, matching totals
	delivery := models.Delivery{StoreName: "Steady", DatePrepared: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		TotalPrepared: 10, TotalRevenue: 50, GrossProfit: 50, ProfitMargin: 100}
	if err := db.Create(&delivery).Error; err != nil {
		t.Fatalf("create delivery: %v", err)
	}
	dItem := models.DeliveryItem{DeliveryID: delivery.ID, FlavorName: "Chocolate Chip", Prepared: 10, Revenue: 50, Profit: 50}
	if err := db.Create(&dItem).Error; err != nil {
		t.Fatalf("create delivery item: %v", err)
	}

	res, err := Run(db, zap.NewNop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.EventsChecked != 1 || res.EventsRepaired != 1 {
		t.Errorf("events checked/repaired = %d/%d, want 1/1", res.EventsChecked, res.EventsRepaired)
	}
	if res.DeliveriesChecked != 1 || res.DeliveriesRepaired != 0 {
		t.Errorf("deliveries checked/repaired = %d/%d, want 1/0", res.DeliveriesChecked, res.DeliveriesRepaired)
	}

	var got models.Event
	if err := db.First(&got, event.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.TotalRevenue != 20 || got.TotalSold != 4 || got.TotalPrepared != 10 {
		t.Errorf("repaired totals = %v/%d/%d, want 20/4/10", got.TotalRevenue, got.TotalSold, got.TotalPrepared)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	event := models.Event{Name: "Stale", EventDate: time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC), TotalRevenue: 1}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}

	first, err := Run(db, zap.NewNop())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.EventsRepaired != 1 {
		t.Fatalf("first run repaired = %d, want 1", first.EventsRepaired)
	}

	second, err := Run(db, zap.NewNop())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.EventsRepaired != 0 {
		t.Errorf("second run repaired = %d, want 0", second.EventsRepaired)
	}
}
