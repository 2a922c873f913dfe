package models

import "time"

// Flavor is a catalog entry. Line items copy its name/price/cost at entry
// time, so editing or deleting a flavor never touches existing line items.
type Flavor struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100;not null;index"`
	UnitPrice float64 `gorm:"not null"`
	UnitCost  *float64
	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
