package catalog

import (
	"errors"
	"strings"

	"bakeshop-backend/internal/database"
	"bakeshop-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type FlavorResponse struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	UnitPrice float64  `json:"unit_price"`
	UnitCost  *float64 `json:"unit_cost"`
	IsActive  bool     `json:"is_active"`
}

type CreateFlavorRequest struct {
	Name      string   `json:"name" validate:"required"`
	UnitPrice float64  `json:"unit_price" validate:"required,gt=0"`
	UnitCost  *float64 `json:"unit_cost"`
	IsActive  *bool    `json:"is_active"`
}

type UpdateFlavorRequest struct {
	Name      *string  `json:"name"`
	UnitPrice *float64 `json:"unit_price"`
	UnitCost  *float64 `json:"unit_cost"`
	IsActive  *bool    `json:"is_active"`
}

func toFlavorResponse(f models.Flavor) FlavorResponse {
	return FlavorResponse{
		ID:        f.ID,
		Name:      f.Name,
		UnitPrice: f.UnitPrice,
		UnitCost:  f.UnitCost,
		IsActive:  f.IsActive,
	}
}

// FindFlavorByName is the catalog lookup used by the line-item handlers.
// A miss is not an error: it returns (nil, nil) and callers fall back to the
// configured default price.
func FindFlavorByName(db *gorm.DB, name string) (*models.Flavor, error) {
	var flavor models.Flavor
	err := db.First(&flavor, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &flavor, nil
}

// GET /api/flavors
func ListFlavorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var flavors []models.Flavor
		if err := database.DB.Order("name asc").Find(&flavors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list flavors")
		}

		res := make([]FlavorResponse, 0, len(flavors))
		for _, f := range flavors {
			res = append(res, toFlavorResponse(f))
		}
		return c.JSON(res)
	}
}

// POST /api/flavors
func CreateFlavorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateFlavorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "name and a positive unit_price are required")
		}

		flavor := models.Flavor{
			Name:      body.Name,
			UnitPrice: body.UnitPrice,
			UnitCost:  body.UnitCost,
			IsActive:  true,
		}
		if body.IsActive != nil {
			flavor.IsActive = *body.IsActive
		}
		if err := database.DB.Create(&flavor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create flavor")
		}
		return c.Status(fiber.StatusCreated).JSON(toFlavorResponse(flavor))
	}
}

// PUT /api/flavors/:id
func UpdateFlavorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid flavor id")
		}

		var body UpdateFlavorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var flavor models.Flavor
		if err := database.DB.First(&flavor, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Flavor not found")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			flavor.Name = name
		}
		if body.UnitPrice != nil {
			if *body.UnitPrice <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "unit_price must be greater than 0")
			}
			flavor.UnitPrice = *body.UnitPrice
		}
		if body.UnitCost != nil {
			flavor.UnitCost = body.UnitCost
		}
		if body.IsActive != nil {
			flavor.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&flavor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update flavor")
		}
		return c.JSON(toFlavorResponse(flavor))
	}
}

// DELETE /api/flavors/:id
// Existing line items keep their snapshots; deleting a flavor never cascades.
func DeleteFlavorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid flavor id")
		}

		var flavor models.Flavor
		if err := database.DB.First(&flavor, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Flavor not found")
		}
		if err := database.DB.Delete(&flavor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete flavor")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
