package report

import (
	"testing"
	"time"

	"bakeshop-backend/internal/models"
)

func TestBuildWorkbook(t *testing.T) {
	events := []models.Event{
		{Name: "Farmers Market", EventDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Location: "Town Square", TotalPrepared: 68, TotalSold: 52, TotalGiveaway: 2,
			TotalRevenue: 260, TotalCost: 70.32, NetProfit: 189.68},
	}
	exp := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	deliveries := []models.Delivery{
		{StoreName: "Corner Grocery", DatePrepared: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			ExpirationDate: &exp, TotalPrepared: 100, TotalRevenue: 500, TotalCOGS: 150,
			GrossProfit: 350, ProfitMargin: 70},
	}

	f, err := buildWorkbook(events, deliveries)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Events" && sheets[1] != "Events" {
		t.Fatalf("sheets = %v, want Events and Deliveries", sheets)
	}

	got, err := f.GetCellValue("Events", "A1")
	if err != nil || got != "Name" {
		t.Errorf("Events!A1 = %q (%v), want Name", got, err)
	}
	got, err = f.GetCellValue("Events", "A2")
	if err != nil || got != "Farmers Market" {
		t.Errorf("Events!A2 = %q (%v), want Farmers Market", got, err)
	}
	got, err = f.GetCellValue("Events", "G2")
	if err != nil || got != "260" {
		t.Errorf("Events!G2 = %q (%v), want 260", got, err)
	}

	got, err = f.GetCellValue("Deliveries", "A2")
	if err != nil || got != "Corner Grocery" {
		t.Errorf("Deliveries!A2 = %q (%v), want Corner Grocery", got, err)
	}
	got, err = f.GetCellValue("Deliveries", "D2")
	if err != nil || got != "2025-01-08" {
		t.Errorf("Deliveries!D2 = %q (%v), want 2025-01-08", got, err)
	}
}

func TestBuildWorkbookEmpty(t *testing.T) {
	f, err := buildWorkbook(nil, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got, err := f.GetCellValue("Deliveries", "A1")
	if err != nil || got != "Store" {
		t.Errorf("Deliveries!A1 = %q (%v), want header row even with no data", got, err)
	}
	if _, err := f.WriteToBuffer(); err != nil {
		t.Errorf("write: %v", err)
	}
}
