package reconcile

import (
	"fmt"

	"bakeshop-backend/internal/database"
	"bakeshop-backend/internal/models"
	"bakeshop-backend/internal/recalc"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Full-sweep safety net: item mutations already recompute their parent in the
// same transaction, but totals written by older deployments (or touched by
// hand in the database) can drift. The sweep recomputes every parent and
// reports how many it had to fix.

type Result struct {
	EventsChecked      int `json:"events_checked"`
	EventsRepaired     int `json:"events_repaired"`
	DeliveriesChecked  int `json:"deliveries_checked"`
	DeliveriesRepaired int `json:"deliveries_repaired"`
}

func Run(db *gorm.DB, log *zap.Logger) (Result, error) {
	var res Result

	var eventIDs []uint
	if err := db.Model(&models.Event{}).Pluck("id", &eventIDs).Error; err != nil {
		return res, fmt.Errorf("list events: %w", err)
	}
	for _, id := range eventIDs {
		res.EventsChecked++
		repaired, err := repairEvent(db, id)
		if err != nil {
			return res, err
		}
		if repaired {
			res.EventsRepaired++
			log.Warn("repaired stale event totals", zap.Uint("event_id", id))
		}
	}

	var deliveryIDs []uint
	if err := db.Model(&models.Delivery{}).Pluck("id", &deliveryIDs).Error; err != nil {
		return res, fmt.Errorf("list deliveries: %w", err)
	}
	for _, id := range deliveryIDs {
		res.DeliveriesChecked++
		repaired, err := repairDelivery(db, id)
		if err != nil {
			return res, err
		}
		if repaired {
			res.DeliveriesRepaired++
			log.Warn("repaired stale delivery totals", zap.Uint("delivery_id", id))
		}
	}

	return res, nil
}

func repairEvent(db *gorm.DB, id uint) (bool, error) {
	var before models.Event
	if err := db.First(&before, id).Error; err != nil {
		return false, fmt.Errorf("load event %d: %w", id, err)
	}
	if err := recalc.EventTotals(db, id); err != nil {
		return false, err
	}
	var after models.Event
	if err := db.First(&after, id).Error; err != nil {
		return false, fmt.Errorf("reload event %d: %w", id, err)
	}
	changed := before.TotalPrepared != after.TotalPrepared ||
		before.TotalSold != after.TotalSold ||
		before.TotalGiveaway != after.TotalGiveaway ||
		before.TotalRevenue != after.TotalRevenue ||
		before.TotalCost != after.TotalCost ||
		before.NetProfit != after.NetProfit
	return changed, nil
}

func repairDelivery(db *gorm.DB, id uint) (bool, error) {
	var before models.Delivery
	if err := db.First(&before, id).Error; err != nil {
		return false, fmt.Errorf("load delivery %d: %w", id, err)
	}
	if err := recalc.DeliveryTotals(db, id); err != nil {
		return false, err
	}
	var after models.Delivery
	if err := db.First(&after, id).Error; err != nil {
		return false, fmt.Errorf("reload delivery %d: %w", id, err)
	}
	changed := before.TotalPrepared != after.TotalPrepared ||
		before.TotalCOGS != after.TotalCOGS ||
		before.TotalRevenue != after.TotalRevenue ||
		before.GrossProfit != after.GrossProfit ||
		before.ProfitMargin != after.ProfitMargin
	return changed, nil
}

// Schedule registers the sweep with the given cron runner.
func Schedule(runner *cron.Cron, spec string, log *zap.Logger) error {
	_, err := runner.AddFunc(spec, func() {
		res, err := Run(database.DB, log)
		if err != nil {
			log.Error("totals sweep failed", zap.Error(err))
			return
		}
		log.Info("totals sweep complete",
			zap.Int("events_checked", res.EventsChecked),
			zap.Int("events_repaired", res.EventsRepaired),
			zap.Int("deliveries_checked", res.DeliveriesChecked),
			zap.Int("deliveries_repaired", res.DeliveriesRepaired),
		)
	})
	return err
}

// POST /api/reconcile — manual trigger for the same sweep.
func RunHandler(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := Run(database.DB, log)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Totals sweep failed")
		}
		return c.JSON(res)
	}
}
