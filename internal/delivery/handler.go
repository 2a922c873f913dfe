package delivery

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

// Shelf life of a batch. Expiration is always derived from DatePrepared.
const shelfLifeDays = 7

type CreateDeliveryRequest struct {
	StoreName      string  `json:"store_name" validate:"required"`
	DatePrepared   string  `json:"date_prepared" validate:"required"` // "2025-01-01"
	DropoffDate    *string `json:"dropoff_date"`
	Notes          string  `json:"notes"`
	InvoiceNotes   string  `json:"invoice_notes"`
	AdditionalFees float64 `json:"additional_fees"`
	Discount       float64 `json:"discount"`
	PrepaidAmount  float64 `json:"prepaid_amount"`
}

type UpdateDeliveryRequest struct {
	StoreName      *string  `json:"store_name"`
	DatePrepared   *string  `json:"date_prepared"`
	DropoffDate    *string  `json:"dropoff_date"`
	Notes          *string  `json:"notes"`
	InvoiceNotes   *string  `json:"invoice_notes"`
	AdditionalFees *float64 `json:"additional_fees"`
	Discount       *float64 `json:"discount"`
	PrepaidAmount  *float64 `json:"prepaid_amount"`
	CashCollected  *float64 `json:"cash_collected"`
	VenmoCollected *float64 `json:"venmo_collected"`
	OtherCollected *float64 `json:"other_collected"`
}

type DeliveryResponse struct {
	ID             uint    `json:"id"`
	StoreName      string  `json:"store_name"`
	DatePrepared   string  `json:"date_prepared"`
	DropoffDate    *string `json:"dropoff_date"`
	ExpirationDate *string `json:"expiration_date"`
	TotalPrepared  int     `json:"total_prepared"`
	TotalCOGS      float64 `json:"total_cogs"`
	TotalRevenue   float64 `json:"total_revenue"`
	GrossProfit    float64 `json:"gross_profit"`
	ProfitMargin   float64 `json:"profit_margin"`
	Notes          string  `json:"notes"`
	InvoiceNotes   string  `json:"invoice_notes"`
	AdditionalFees float64 `json:"additional_fees"`
	Discount       float64 `json:"discount"`
	PrepaidAmount  float64 `json:"prepaid_amount"`
	CashCollected  float64 `json:"cash_collected"`
	VenmoCollected float64 `json:"venmo_collected"`
	OtherCollected float64 `json:"other_collected"`
	Status         string  `json:"status"`
	ArchivedAt     *string `json:"archived_at"`
}

type DeliveryDetailResponse struct {
	DeliveryResponse
	Items []DeliveryItemResponse `json:"items"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func toDeliveryResponse(d models.Delivery) DeliveryResponse {
	res := DeliveryResponse{
		ID:             d.ID,
		StoreName:      d.StoreName,
		DatePrepared:   d.DatePrepared.Format("2006-01-02"),
		DropoffDate:    formatDate(d.DropoffDate),
		ExpirationDate: formatDate(d.ExpirationDate),
		TotalPrepared:  d.TotalPrepared,
		TotalCOGS:      d.TotalCOGS,
		TotalRevenue:   d.TotalRevenue,
		GrossProfit:    d.GrossProfit,
		ProfitMargin:   d.ProfitMargin,
		Notes:          d.Notes,
		InvoiceNotes:   d.InvoiceNotes,
		AdditionalFees: d.AdditionalFees,
		Discount:       d.Discount,
		PrepaidAmount:  d.PrepaidAmount,
		CashCollected:  d.CashCollected,
		VenmoCollected: d.VenmoCollected,
		OtherCollected: d.OtherCollected,
		Status:         string(d.Status),
	}
	if d.ArchivedAt != nil {
		s := d.ArchivedAt.Format(time.RFC3339)
		res.ArchivedAt = &s
	}
	return res
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func expirationFor(datePrepared time.Time) *time.Time {
	exp := datePrepared.AddDate(0, 0, shelfLifeDays)
	return &exp
}

// GET /api/deliveries           (active, newest first)
// GET /api/deliveries?archived=true
func ListDeliveriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := models.StatusActive
		if c.Query("archived") == "true" {
			status = models.StatusArchived
		}

		var deliveries []models.Delivery
		if err := database.DB.Where("status = ?", status).Order("date_prepared desc").Find(&deliveries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list deliveries")
		}

		res := make([]DeliveryResponse, 0, len(deliveries))
		for _, d := range deliveries {
			res = append(res, toDeliveryResponse(d))
		}
		return c.JSON(res)
	}
}

// POST /api/deliveries
func CreateDeliveryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDeliveryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "store_name and date_prepared are required")
		}
		prepared, err := parseDate(body.DatePrepared)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date_prepared must be 'YYYY-MM-DD'")
		}

		delivery := models.Delivery{
			StoreName:      body.StoreName,
			DatePrepared:   prepared,
			ExpirationDate: expirationFor(prepared),
			Notes:          body.Notes,
			InvoiceNotes:   body.InvoiceNotes,
			AdditionalFees: body.AdditionalFees,
			Discount:       body.Discount,
			PrepaidAmount:  body.PrepaidAmount,
			Status:         models.StatusActive,
		}
		if body.DropoffDate != nil {
			dropoff, err := parseDate(*body.DropoffDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "dropoff_date must be 'YYYY-MM-DD'")
			}
			delivery.DropoffDate = &dropoff
		}

		if err := database.DB.Create(&delivery).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create delivery")
		}
		return c.Status(fiber.StatusCreated).JSON(toDeliveryResponse(delivery))
	}
}

// GET /api/deliveries/:id  (delivery with its items)
func GetDeliveryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid delivery id")
		}

		var delivery models.Delivery
		if err := database.DB.First(&delivery, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Delivery not found")
		}
		var items []models.DeliveryItem
		if err := database.DB.Where("delivery_id = ?", delivery.ID).Order("id asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load delivery items")
		}

		res := DeliveryDetailResponse{DeliveryResponse: toDeliveryResponse(delivery)}
		res.Items = make([]DeliveryItemResponse, 0, len(items))
		for _, it := range items {
			res.Items = append(res.Items, toDeliveryItemResponse(it))
		}
		return c.JSON(res)
	}
}

// PUT /api/deliveries/:id
// Changing date_prepared re-derives the expiration date.
func UpdateDeliveryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid delivery id")
		}

		var body UpdateDeliveryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var delivery models.Delivery
		if err := database.DB.First(&delivery, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Delivery not found")
		}

		if body.StoreName != nil {
			delivery.StoreName = *body.StoreName
		}
		if body.DatePrepared != nil {
			prepared, err := parseDate(*body.DatePrepared)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date_prepared must be 'YYYY-MM-DD'")
			}
			delivery.DatePrepared = prepared
			delivery.ExpirationDate = expirationFor(prepared)
		}
		if body.DropoffDate != nil {
			dropoff, err := parseDate(*body.DropoffDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "dropoff_date must be 'YYYY-MM-DD'")
			}
			delivery.DropoffDate = &dropoff
		}
		if body.Notes != nil {
			delivery.Notes = *body.Notes
		}
		if body.InvoiceNotes != nil {
			delivery.InvoiceNotes = *body.InvoiceNotes
		}
		if body.AdditionalFees != nil {
			delivery.AdditionalFees = *body.AdditionalFees
		}
		if body.Discount != nil {
			delivery.Discount = *body.Discount
		}
		if body.PrepaidAmount != nil {
			delivery.PrepaidAmount = *body.PrepaidAmount
		}
		if body.CashCollected != nil {
			delivery.CashCollected = *body.CashCollected
		}
		if body.VenmoCollected != nil {
			delivery.VenmoCollected = *body.VenmoCollected
		}
		if body.OtherCollected != nil {
			delivery.OtherCollected = *body.OtherCollected
		}

		if err := database.DB.Save(&delivery).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update delivery")
		}
		return c.JSON(toDeliveryResponse(delivery))
	}
}

// DELETE /api/deliveries/:id        (archive)
// DELETE /api/deliveries/:id?hard=true  (purge delivery + items)
func DeleteDeliveryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid delivery id")
		}

		var delivery models.Delivery
		if err := database.DB.First(&delivery, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Delivery not found")
		}

		if c.Query("hard") == "true" {
			err := database.DB.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where("delivery_id = ?", delivery.ID).Delete(&models.DeliveryItem{}).Error; err != nil {
					return err
				}
				return tx.Delete(&delivery).Error
			})
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not delete delivery")
			}
			return c.JSON(fiber.Map{"success": true})
		}

		now := time.Now()
		delivery.Status = models.StatusArchived
		delivery.ArchivedAt = &now
		if err := database.DB.Save(&delivery).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not archive delivery")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/deliveries/:id/restore
func RestoreDeliveryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid delivery id")
		}

		var delivery models.Delivery
		if err := database.DB.First(&delivery, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Delivery not found")
		}
		if delivery.Status != models.StatusArchived {
			return fiber.NewError(fiber.StatusBadRequest, "Delivery is not archived")
		}

		delivery.Status = models.StatusActive
		delivery.ArchivedAt = nil
		if err := database.DB.Save(&delivery).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not restore delivery")
		}
		return c.JSON(toDeliveryResponse(delivery))
	}
}

// POST /api/deliveries/:id/recalculate
func RecalculateDeliveryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid delivery id")
		}

		var delivery models.Delivery
		if err := database.DB.First(&delivery, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Delivery not found")
		}
		if err := recalc.DeliveryTotals(database.DB, delivery.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not recalculate totals")
		}

		if err := database.DB.First(&delivery, id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not reload delivery")
		}
		return c.JSON(toDeliveryResponse(delivery))
	}
}
