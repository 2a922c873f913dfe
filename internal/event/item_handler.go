package event

import (
	"bakeshop-backend/internal/catalog"
	"bakeshop-backend/internal/config"
	"bakeshop-backend/internal/database"
	"bakeshop-backend/internal/models"
	"bakeshop-backend/internal/pricing"
	"bakeshop-backend/internal/recalc"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateEventItemRequest struct {
	EventID    uint     `json:"event_id" validate:"required"`
	FlavorName string   `json:"flavor_name" validate:"required"`
	Prepared   int      `json:"prepared" validate:"gte=0"`
	Sold       int      `json:"sold" validate:"gte=0"`
	Giveaway   int      `json:"giveaway" validate:"gte=0"`
	UnitCost   *float64 `json:"unit_cost"`
}

type UpdateEventItemRequest struct {
	Prepared *int     `json:"prepared"`
	Sold     *int     `json:"sold"`
	Giveaway *int     `json:"giveaway"`
	UnitCost *float64 `json:"unit_cost"`
}

type EventItemResponse struct {
	ID         uint     `json:"id"`
	EventID    uint     `json:"event_id"`
	FlavorName string   `json:"flavor_name"`
	Prepared   int      `json:"prepared"`
	Remaining  int      `json:"remaining"`
	Giveaway   int      `json:"giveaway"`
	Sold       int      `json:"sold"`
	Revenue    float64  `json:"revenue"`
	UnitCost   *float64 `json:"unit_cost"`
	COGS       float64  `json:"cogs"`
	Profit     float64  `json:"profit"`
}

func toEventItemResponse(it models.EventItem) EventItemResponse {
	return EventItemResponse{
		ID:         it.ID,
		EventID:    it.EventID,
		FlavorName: it.FlavorName,
		Prepared:   it.Prepared,
		Remaining:  it.Remaining,
		Giveaway:   it.Giveaway,
		Sold:       it.Sold,
		Revenue:    it.Revenue,
		UnitCost:   it.UnitCost,
		COGS:       it.COGS,
		Profit:     it.Profit,
	}
}

// deriveEventItem fills the item's derived columns from its input columns,
// resolving the sale price from the catalog (or the configured fallback).
func deriveEventItem(item *models.EventItem, defaultUnitPrice float64) error {
	flavor, err := catalog.FindFlavorByName(database.DB, item.FlavorName)
	if err != nil {
		return err
	}
	unitPrice := pricing.ResolveEventUnitPrice(flavor, defaultUnitPrice)

	d := pricing.DeriveEventItem(pricing.EventItemInputs{
		Prepared: item.Prepared,
		Sold:     item.Sold,
		Giveaway: item.Giveaway,
		UnitCost: item.UnitCost,
	}, unitPrice)

	item.Remaining = d.Remaining
	item.Revenue = d.Revenue
	item.COGS = d.COGS
	item.Profit = d.Profit
	return nil
}

// saveItemAndRecalc persists the item and recomputes the parent totals in one
// transaction, so committed totals always match committed items.
func saveItemAndRecalc(item *models.EventItem, create bool) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if create {
			err = tx.Create(item).Error
		} else {
			err = tx.Save(item).Error
		}
		if err != nil {
			return err
		}
		return recalc.EventTotals(tx, item.EventID)
	})
}

// GET /api/event-items?event_id=1
func ListEventItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("id asc")
		if eventID := c.QueryInt("event_id"); eventID > 0 {
			q = q.Where("event_id = ?", eventID)
		}

		var items []models.EventItem
		if err := q.Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list event items")
		}

		res := make([]EventItemResponse, 0, len(items))
		for _, it := range items {
			res = append(res, toEventItemResponse(it))
		}
		return c.JSON(res)
	}
}

// POST /api/event-items
func CreateEventItemHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEventItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "event_id and flavor_name are required, counts must not be negative")
		}

		var event models.Event
		if err := database.DB.First(&event, body.EventID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}

		item := models.EventItem{
			EventID:    event.ID,
			FlavorName: body.FlavorName,
			Prepared:   body.Prepared,
			Sold:       body.Sold,
			Giveaway:   body.Giveaway,
			UnitCost:   body.UnitCost,
		}
		if err := deriveEventItem(&item, cfg.DefaultUnitPrice); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve flavor price")
		}

		if err := saveItemAndRecalc(&item, true); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create event item")
		}
		return c.Status(fiber.StatusCreated).JSON(toEventItemResponse(item))
	}
}

// PUT /api/event-items/:id
func UpdateEventItemHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var body UpdateEventItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var item models.EventItem
		if err := database.DB.First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event item not found")
		}

		if body.Prepared != nil {
			if *body.Prepared < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "prepared must not be negative")
			}
			item.Prepared = *body.Prepared
		}
		if body.Sold != nil {
			if *body.Sold < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "sold must not be negative")
			}
			item.Sold = *body.Sold
		}
		if body.Giveaway != nil {
			if *body.Giveaway < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "giveaway must not be negative")
			}
			item.Giveaway = *body.Giveaway
		}
		if body.UnitCost != nil {
			item.UnitCost = body.UnitCost
		}

		if err := deriveEventItem(&item, cfg.DefaultUnitPrice); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve flavor price")
		}
		if err := saveItemAndRecalc(&item, false); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update event item")
		}
		return c.JSON(toEventItemResponse(item))
	}
}

// DELETE /api/event-items/:id
func DeleteEventItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var item models.EventItem
		if err := database.DB.First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event item not found")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
			return recalc.EventTotals(tx, item.EventID)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete event item")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/event-items/:id/use-base-cost
// Copies the catalog's current unit cost for the item's flavor onto the item
// and re-derives. No catalog match (or no catalog cost) is a no-op, not an
// error: the item comes back unchanged.
func UseBaseCostHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var item models.EventItem
		if err := database.DB.First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event item not found")
		}

		flavor, err := catalog.FindFlavorByName(database.DB, item.FlavorName)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not look up flavor")
		}
		if flavor == nil || flavor.UnitCost == nil {
			return c.JSON(toEventItemResponse(item))
		}

		cost := *flavor.UnitCost
		item.UnitCost = &cost
		if err := deriveEventItem(&item, cfg.DefaultUnitPrice); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve flavor price")
		}
		if err := saveItemAndRecalc(&item, false); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update event item")
		}
		return c.JSON(toEventItemResponse(item))
	}
}
