package recalc

import (
	"fmt"

	"bakeshop-backend/internal/models"

	"gorm.io/gorm"
)

// Recomputes a parent's aggregate columns from the current set of its line
// items and overwrites whatever was stored. Callers run these inside the same
// transaction as the item write, so committed totals are never stale.

func EventTotals(tx *gorm.DB, eventID uint) error {
	var items []models.EventItem
	if err := tx.Where("event_id = ?", eventID).Find(&items).Error; err != nil {
		return fmt.Errorf("load event items: %w", err)
	}

	var prepared, sold, giveaway int
	var revenue, cost float64
	for _, it := range items {
		prepared += it.Prepared
		sold += it.Sold
		giveaway += it.Giveaway
		revenue += it.Revenue
		cost += it.COGS
	}

	updates := map[string]interface{}{
		"total_prepared": prepared,
		"total_sold":     sold,
		"total_giveaway": giveaway,
		"total_revenue":  revenue,
		"total_cost":     cost,
		"net_profit":     revenue - cost,
	}
	if err := tx.Model(&models.Event{}).Where("id = ?", eventID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update event totals: %w", err)
	}
	return nil
}

func DeliveryTotals(tx *gorm.DB, deliveryID uint) error {
	var items []models.DeliveryItem
	if err := tx.Where("delivery_id = ?", deliveryID).Find(&items).Error; err != nil {
		return fmt.Errorf("load delivery items: %w", err)
	}

	var prepared int
	var revenue, cogs float64
	for _, it := range items {
		prepared += it.Prepared
		revenue += it.Revenue
		cogs += it.COGS
	}

	grossProfit := revenue - cogs
	var margin float64
	if revenue > 0 {
		margin = grossProfit / revenue * 100
	}

	updates := map[string]interface{}{
		"total_prepared": prepared,
		"total_cogs":     cogs,
		"total_revenue":  revenue,
		"gross_profit":   grossProfit,
		"profit_margin":  margin,
	}
	if err := tx.Model(&models.Delivery{}).Where("id = ?", deliveryID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update delivery totals: %w", err)
	}
	return nil
}
