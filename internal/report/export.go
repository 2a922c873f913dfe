package report

import (
	"fmt"

	"bakeshop-backend/internal/database"
	"bakeshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var eventHeaders = []string{
	"Name", "Date", "Location", "Prepared", "Sold", "Giveaway",
	"Revenue", "Cost", "Net Profit", "Cash", "Venmo", "Other",
}

var deliveryHeaders = []string{
	"Store", "Prepared On", "Dropoff", "Expires", "Prepared",
	"Revenue", "COGS", "Gross Profit", "Margin %",
}

// GET /api/reports/export
// Streams a workbook with one sheet of event totals and one of delivery
// totals, archived records excluded.
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var events []models.Event
		if err := database.DB.Where("status = ?", models.StatusActive).Order("event_date desc").Find(&events).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load events")
		}
		var deliveries []models.Delivery
		if err := database.DB.Where("status = ?", models.StatusActive).Order("date_prepared desc").Find(&deliveries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load deliveries")
		}

		f, err := buildWorkbook(events, deliveries)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build workbook")
		}
		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write workbook")
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="bakeshop-report.xlsx"`)
		return c.Send(buf.Bytes())
	}
}

func buildWorkbook(events []models.Event, deliveries []models.Delivery) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Events", headerStyle, eventHeaders, len(events), func(i int) []interface{} {
		e := events[i]
		return []interface{}{
			e.Name, e.EventDate.Format("2006-01-02"), e.Location,
			e.TotalPrepared, e.TotalSold, e.TotalGiveaway,
			e.TotalRevenue, e.TotalCost, e.NetProfit,
			e.CashCollected, e.VenmoCollected, e.OtherCollected,
		}
	}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Deliveries", headerStyle, deliveryHeaders, len(deliveries), func(i int) []interface{} {
		d := deliveries[i]
		dropoff, expires := "", ""
		if d.DropoffDate != nil {
			dropoff = d.DropoffDate.Format("2006-01-02")
		}
		if d.ExpirationDate != nil {
			expires = d.ExpirationDate.Format("2006-01-02")
		}
		return []interface{}{
			d.StoreName, d.DatePrepared.Format("2006-01-02"), dropoff, expires,
			d.TotalPrepared, d.TotalRevenue, d.TotalCOGS, d.GrossProfit, d.ProfitMargin,
		}
	}); err != nil {
		return nil, err
	}

	// drop the default sheet so Events opens first
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	idx, err := f.GetSheetIndex("Events")
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	return f, nil
}

func writeSheet(f *excelize.File, name string, headerStyle int, headers []string, rows int, rowValues func(i int) []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, header); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return err
	}

	for r := 0; r < rows; r++ {
		values := rowValues(r)
		if len(values) != len(headers) {
			return fmt.Errorf("sheet %s row %d: %d values for %d headers", name, r+2, len(values), len(headers))
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return err
			}
		}
	}

	for i := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, col, col, 15); err != nil {
			return err
		}
	}
	return nil
}
