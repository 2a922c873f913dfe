package delivery

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

type CreateDeliveryItemRequest struct {
	DeliveryID uint     `json:"delivery_id" validate:"required"`
	FlavorName string   `json:"flavor_name" validate:"required"`
	Prepared   int      `json:"prepared" validate:"gte=0"`
	UnitPrice  *float64 `json:"unit_price"`
	UnitCost   *float64 `json:"unit_cost"`
}

type UpdateDeliveryItemRequest struct {
	Prepared  *int     `json:"prepared"`
	UnitPrice *float64 `json:"unit_price"`
	UnitCost  *float64 `json:"unit_cost"`
}

type DeliveryItemResponse struct {
	ID         uint     `json:"id"`
	DeliveryID uint     `json:"delivery_id"`
	FlavorName string   `json:"flavor_name"`
	Prepared   int      `json:"prepared"`
	UnitPrice  *float64 `json:"unit_price"`
	UnitCost   *float64 `json:"unit_cost"`
	Revenue    float64  `json:"revenue"`
	COGS       float64  `json:"cogs"`
	Profit     float64  `json:"profit"`
}

func toDeliveryItemResponse(it models.DeliveryItem) DeliveryItemResponse {
	return DeliveryItemResponse{
		ID:         it.ID,
		DeliveryID: it.DeliveryID,
		FlavorName: it.FlavorName,
		Prepared:   it.Prepared,
		UnitPrice:  it.UnitPrice,
		UnitCost:   it.UnitCost,
		Revenue:    it.Revenue,
		COGS:       it.COGS,
		Profit:     it.Profit,
	}
}

// deriveDeliveryItem fills the derived columns. The price snapshot on the
// item wins; the catalog and then the configured fallback cover new items
// entered without one. The resolved price is stored back as the snapshot.
func deriveDeliveryItem(item *models.DeliveryItem, defaultUnitPrice float64) error {
	flavor, err := catalog.FindFlavorByName(database.DB, item.FlavorName)
	if err != nil {
		return err
	}
	unitPrice := pricing.ResolveDeliveryUnitPrice(item.UnitPrice, flavor, defaultUnitPrice)
	item.UnitPrice = &unitPrice

	d := pricing.DeriveDeliveryItem(item.Prepared, unitPrice, item.UnitCost)
	item.Revenue = d.Revenue
	item.COGS = d.COGS
	item.Profit = d.Profit
	return nil
}

func saveDeliveryItemAndRecalc(item *models.DeliveryItem, create bool) error {
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
		return recalc.DeliveryTotals(tx, item.DeliveryID)
	})
}

// GET /api/delivery-items?delivery_id=1
func ListDeliveryItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("id asc")
		if deliveryID := c.QueryInt("delivery_id"); deliveryID > 0 {
			q = q.Where("delivery_id = ?", deliveryID)
		}

		var items []models.DeliveryItem
		if err := q.Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list delivery items")
		}

		res := make([]DeliveryItemResponse, 0, len(items))
		for _, it := range items {
			res = append(res, toDeliveryItemResponse(it))
		}
		return c.JSON(res)
	}
}

// POST /api/delivery-items
func CreateDeliveryItemHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDeliveryItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "delivery_id and flavor_name are required, prepared must not be negative")
		}

		var delivery models.Delivery
		if err := database.DB.First(&delivery, body.DeliveryID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Delivery not found")
		}

		item := models.DeliveryItem{
			DeliveryID: delivery.ID,
			FlavorName: body.FlavorName,
			Prepared:   body.Prepared,
			UnitPrice:  body.UnitPrice,
			UnitCost:   body.UnitCost,
		}
		if err := deriveDeliveryItem(&item, cfg.DefaultUnitPrice); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve flavor price")
		}

		if err := saveDeliveryItemAndRecalc(&item, true); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create delivery item")
		}
		return c.Status(fiber.StatusCreated).JSON(toDeliveryItemResponse(item))
	}
}

// PUT /api/delivery-items/:id
func UpdateDeliveryItemHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var body UpdateDeliveryItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var item models.DeliveryItem
		if err := database.DB.First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Delivery item not found")
		}

		if body.Prepared != nil {
			if *body.Prepared < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "prepared must not be negative")
			}
			item.Prepared = *body.Prepared
		}
		if body.UnitPrice != nil {
			item.UnitPrice = body.UnitPrice
		}
		if body.UnitCost != nil {
			item.UnitCost = body.UnitCost
		}

		if err := deriveDeliveryItem(&item, cfg.DefaultUnitPrice); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve flavor price")
		}
		if err := saveDeliveryItemAndRecalc(&item, false); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update delivery item")
		}
		return c.JSON(toDeliveryItemResponse(item))
	}
}

// DELETE /api/delivery-items/:id
func DeleteDeliveryItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var item models.DeliveryItem
		if err := database.DB.First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Delivery item not found")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
			return recalc.DeliveryTotals(tx, item.DeliveryID)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete delivery item")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/delivery-items/:id/use-base-cost
// Copies the catalog's current unit cost for the item's flavor onto the item
// and re-derives. No catalog match (or no catalog cost) is a no-op.
func UseBaseCostHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var item models.DeliveryItem
		if err := database.DB.First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Delivery item not found")
		}

		flavor, err := catalog.FindFlavorByName(database.DB, item.FlavorName)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not look up flavor")
		}
		if flavor == nil || flavor.UnitCost == nil {
			return c.JSON(toDeliveryItemResponse(item))
		}

		cost := *flavor.UnitCost
		item.UnitCost = &cost
		if err := deriveDeliveryItem(&item, cfg.DefaultUnitPrice); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve flavor price")
		}
		if err := saveDeliveryItemAndRecalc(&item, false); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update delivery item")
		}
		return c.JSON(toDeliveryItemResponse(item))
	}
}
