package event

import (
	"time"

	"bakeshop-backend/internal/database"
	"bakeshop-backend/internal/models"
	"bakeshop-backend/internal/recalc"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateEventRequest struct {
	Name           string  `json:"name" validate:"required"`
	EventDate      string  `json:"event_date" validate:"required"` // "2025-06-01"
	Location       string  `json:"location"`
	EventCost      float64 `json:"event_cost"`
	CashCollected  float64 `json:"cash_collected"`
	VenmoCollected float64 `json:"venmo_collected"`
	OtherCollected float64 `json:"other_collected"`
	Notes          string  `json:"notes"`
}

type UpdateEventRequest struct {
	Name           *string  `json:"name"`
	EventDate      *string  `json:"event_date"`
	Location       *string  `json:"location"`
	EventCost      *float64 `json:"event_cost"`
	CashCollected  *float64 `json:"cash_collected"`
	VenmoCollected *float64 `json:"venmo_collected"`
	OtherCollected *float64 `json:"other_collected"`
	Notes          *string  `json:"notes"`
}

type EventResponse struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	EventDate      string  `json:"event_date"`
	Location       string  `json:"location"`
	EventCost      float64 `json:"event_cost"`
	TotalPrepared  int     `json:"total_prepared"`
	TotalSold      int     `json:"total_sold"`
	TotalGiveaway  int     `json:"total_giveaway"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalCost      float64 `json:"total_cost"`
	NetProfit      float64 `json:"net_profit"`
	CashCollected  float64 `json:"cash_collected"`
	VenmoCollected float64 `json:"venmo_collected"`
	OtherCollected float64 `json:"other_collected"`
	Notes          string  `json:"notes"`
	Status         string  `json:"status"`
	ArchivedAt     *string `json:"archived_at"`
}

type EventDetailResponse struct {
	EventResponse
	Items []EventItemResponse `json:"items"`
}

func toEventResponse(e models.Event) EventResponse {
	res := EventResponse{
		ID:             e.ID,
		Name:           e.Name,
		EventDate:      e.EventDate.Format("2006-01-02"),
		Location:       e.Location,
		EventCost:      e.EventCost,
		TotalPrepared:  e.TotalPrepared,
		TotalSold:      e.TotalSold,
		TotalGiveaway:  e.TotalGiveaway,
		TotalRevenue:   e.TotalRevenue,
		TotalCost:      e.TotalCost,
		NetProfit:      e.NetProfit,
		CashCollected:  e.CashCollected,
		VenmoCollected: e.VenmoCollected,
		OtherCollected: e.OtherCollected,
		Notes:          e.Notes,
		Status:         string(e.Status),
	}
	if e.ArchivedAt != nil {
		s := e.ArchivedAt.Format(time.RFC3339)
		res.ArchivedAt = &s
	}
	return res
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// GET /api/events           (active, newest first)
// GET /api/events?archived=true
func ListEventsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := models.StatusActive
		if c.Query("archived") == "true" {
			status = models.StatusArchived
		}

		var events []models.Event
		if err := database.DB.Where("status = ?", status).Order("event_date desc").Find(&events).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list events")
		}

		res := make([]EventResponse, 0, len(events))
		for _, e := range events {
			res = append(res, toEventResponse(e))
		}
		return c.JSON(res)
	}
}

// POST /api/events
func CreateEventHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEventRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "name and event_date are required")
		}
		date, err := parseDate(body.EventDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "event_date must be 'YYYY-MM-DD'")
		}

		event := models.Event{
			Name:           body.Name,
			EventDate:      date,
			Location:       body.Location,
			EventCost:      body.EventCost,
			CashCollected:  body.CashCollected,
			VenmoCollected: body.VenmoCollected,
			OtherCollected: body.OtherCollected,
			Notes:          body.Notes,
			Status:         models.StatusActive,
		}
		if err := database.DB.Create(&event).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create event")
		}
		return c.Status(fiber.StatusCreated).JSON(toEventResponse(event))
	}
}

// GET /api/events/:id  (event with its items)
func GetEventHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid event id")
		}

		var event models.Event
		if err := database.DB.First(&event, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}
		var items []models.EventItem
		if err := database.DB.Where("event_id = ?", event.ID).Order("id asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load event items")
		}

		res := EventDetailResponse{EventResponse: toEventResponse(event)}
		res.Items = make([]EventItemResponse, 0, len(items))
		for _, it := range items {
			res.Items = append(res.Items, toEventItemResponse(it))
		}
		return c.JSON(res)
	}
}

// PUT /api/events/:id  (parent-only fields; totals are never writable here)
func UpdateEventHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid event id")
		}

		var body UpdateEventRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var event models.Event
		if err := database.DB.First(&event, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}

		if body.Name != nil {
			event.Name = *body.Name
		}
		if body.EventDate != nil {
			date, err := parseDate(*body.EventDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "event_date must be 'YYYY-MM-DD'")
			}
			event.EventDate = date
		}
		if body.Location != nil {
			event.Location = *body.Location
		}
		if body.EventCost != nil {
			event.EventCost = *body.EventCost
		}
		if body.CashCollected != nil {
			event.CashCollected = *body.CashCollected
		}
		if body.VenmoCollected != nil {
			event.VenmoCollected = *body.VenmoCollected
		}
		if body.OtherCollected != nil {
			event.OtherCollected = *body.OtherCollected
		}
		if body.Notes != nil {
			event.Notes = *body.Notes
		}

		if err := database.DB.Save(&event).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update event")
		}
		return c.JSON(toEventResponse(event))
	}
}

// DELETE /api/events/:id        (archive)
// DELETE /api/events/:id?hard=true  (purge event + items)
func DeleteEventHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid event id")
		}

		var event models.Event
		if err := database.DB.First(&event, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}

		if c.Query("hard") == "true" {
			err := database.DB.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where("event_id = ?", event.ID).Delete(&models.EventItem{}).Error; err != nil {
					return err
				}
				return tx.Delete(&event).Error
			})
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not delete event")
			}
			return c.JSON(fiber.Map{"success": true})
		}

		now := time.Now()
		event.Status = models.StatusArchived
		event.ArchivedAt = &now
		if err := database.DB.Save(&event).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not archive event")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/events/:id/restore
func RestoreEventHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid event id")
		}

		var event models.Event
		if err := database.DB.First(&event, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}
		if event.Status != models.StatusArchived {
			return fiber.NewError(fiber.StatusBadRequest, "Event is not archived")
		}

		event.Status = models.StatusActive
		event.ArchivedAt = nil
		if err := database.DB.Save(&event).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not restore event")
		}
		return c.JSON(toEventResponse(event))
	}
}

// POST /api/events/:id/recalculate
// Manual recovery path when totals are suspected stale.
func RecalculateEventHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid event id")
		}

		var event models.Event
		if err := database.DB.First(&event, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}
		if err := recalc.EventTotals(database.DB, event.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not recalculate totals")
		}

		if err := database.DB.First(&event, id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not reload event")
		}
		return c.JSON(toEventResponse(event))
	}
}
