package pricing

import "bakeshop-backend/internal/models"

// Pure line-item math. Everything here is a function of its inputs only;
// callers look up the catalog and persist the results.

type EventItemInputs struct {
	Prepared int
	Sold     int
	Giveaway int
	UnitCost *float64
}

type EventItemDerived struct {
	Remaining int
	Revenue   float64
	COGS      float64
	Profit    float64
}

type DeliveryItemDerived struct {
	Revenue float64
	COGS    float64
	Profit  float64
}

// ResolveEventUnitPrice picks the sale price for an event item: the catalog
// price for the matching flavor, or the configured fallback when there is no
// match or the catalog price is unset.
func ResolveEventUnitPrice(flavor *models.Flavor, fallback float64) float64 {
	if flavor == nil || flavor.UnitPrice == 0 {
		return fallback
	}
	return flavor.UnitPrice
}

// ResolveDeliveryUnitPrice prefers the price snapshot already on the item,
// then the catalog, then the fallback.
func ResolveDeliveryUnitPrice(snapshot *float64, flavor *models.Flavor, fallback float64) float64 {
	if snapshot != nil && *snapshot != 0 {
		return *snapshot
	}
	return ResolveEventUnitPrice(flavor, fallback)
}

// DeriveEventItem recomputes the derived columns of an event item.
// Remaining clips at zero: overselling is tolerated, never an error.
// A nil unit cost means COGS is simply unknown and counts as zero.
func DeriveEventItem(in EventItemInputs, unitPrice float64) EventItemDerived {
	remaining := in.Prepared - in.Sold - in.Giveaway
	if remaining < 0 {
		remaining = 0
	}

	revenue := float64(in.Sold) * unitPrice

	var cogs float64
	if in.UnitCost != nil {
		cogs = float64(in.Sold) * *in.UnitCost
	}

	return EventItemDerived{
		Remaining: remaining,
		Revenue:   revenue,
		COGS:      cogs,
		Profit:    revenue - cogs,
	}
}

// DeriveDeliveryItem is the delivery variant: all prepared units are treated
// as delivered for sale, so quantities multiply by Prepared.
func DeriveDeliveryItem(prepared int, unitPrice float64, unitCost *float64) DeliveryItemDerived {
	revenue := float64(prepared) * unitPrice

	var cogs float64
	if unitCost != nil {
		cogs = float64(prepared) * *unitCost
	}

	return DeliveryItemDerived{
		Revenue: revenue,
		COGS:    cogs,
		Profit:  revenue - cogs,
	}
}
