package dashboard

import (
	"sort"

	"bakeshop-backend/internal/database"
	"bakeshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MonthlyPoint struct {
	Month   string  `json:"month"` // "2025-06"
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

type EventSellThrough struct {
	EventID   uint    `json:"event_id"`
	Name      string  `json:"name"`
	EventDate string  `json:"event_date"`
	Rate      float64 `json:"rate"` // sold / prepared, percent
}

type SummaryResponse struct {
	EventCount      int                `json:"event_count"`    // active events with sales
	DeliveryCount   int                `json:"delivery_count"` // active deliveries with revenue
	EventRevenue    float64            `json:"event_revenue"`
	DeliveryRevenue float64            `json:"delivery_revenue"`
	TotalRevenue    float64            `json:"total_revenue"`
	TotalProfit     float64            `json:"total_profit"`
	ProfitMargin    float64            `json:"profit_margin"`
	Monthly         []MonthlyPoint     `json:"monthly"`
	SellThrough     []EventSellThrough `json:"sell_through"`
}

// GET /api/dashboard/summary
// Rolls the stored parent totals up across all active events and deliveries.
// Events without sales and deliveries without revenue are left out, same as
// records still being entered.
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var events []models.Event
		if err := database.DB.Where("status = ?", models.StatusActive).Order("event_date asc").Find(&events).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load events")
		}
		var deliveries []models.Delivery
		if err := database.DB.Where("status = ?", models.StatusActive).Find(&deliveries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load deliveries")
		}

		res := SummaryResponse{
			Monthly:     []MonthlyPoint{},
			SellThrough: []EventSellThrough{},
		}
		monthly := map[string]*MonthlyPoint{}
		addMonthly := func(month string, revenue, profit float64) {
			p, ok := monthly[month]
			if !ok {
				p = &MonthlyPoint{Month: month}
				monthly[month] = p
			}
			p.Revenue += revenue
			p.Profit += profit
		}

		for _, e := range events {
			if e.TotalSold <= 0 {
				continue
			}
			res.EventCount++
			res.EventRevenue += e.TotalRevenue
			res.TotalProfit += e.NetProfit
			addMonthly(e.EventDate.Format("2006-01"), e.TotalRevenue, e.NetProfit)

			if e.TotalPrepared > 0 {
				res.SellThrough = append(res.SellThrough, EventSellThrough{
					EventID:   e.ID,
					Name:      e.Name,
					EventDate: e.EventDate.Format("2006-01-02"),
					Rate:      float64(e.TotalSold) / float64(e.TotalPrepared) * 100,
				})
			}
		}

		for _, d := range deliveries {
			if d.TotalRevenue <= 0 {
				continue
			}
			res.DeliveryCount++
			res.DeliveryRevenue += d.TotalRevenue
			res.TotalProfit += d.GrossProfit

			// dropoff date is the sale month when known, prep date otherwise
			when := d.DatePrepared
			if d.DropoffDate != nil {
				when = *d.DropoffDate
			}
			addMonthly(when.Format("2006-01"), d.TotalRevenue, d.GrossProfit)
		}

		res.TotalRevenue = res.EventRevenue + res.DeliveryRevenue
		if res.TotalRevenue > 0 {
			res.ProfitMargin = res.TotalProfit / res.TotalRevenue * 100
		}

		for _, p := range monthly {
			res.Monthly = append(res.Monthly, *p)
		}
		sort.Slice(res.Monthly, func(i, j int) bool { return res.Monthly[i].Month < res.Monthly[j].Month })

		return c.JSON(res)
	}
}
