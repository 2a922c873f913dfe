package models

import "time"

// Event is a single pop-up sale. The total* and NetProfit columns are
// derived: they always equal the sums over the event's items and are
// overwritten by recalc after every item mutation.
type Event struct {
	ID             uint            `gorm:"primaryKey"`
	Name           string          `gorm:"size:150;not null"`
	EventDate      time.Time       `gorm:"index;not null"`
	Location       string          `gorm:"size:255"`
	EventCost      float64         `gorm:"not null;default:0"` // booth fee etc., not part of COGS
	TotalPrepared  int             `gorm:"not null;default:0"`
	TotalSold      int             `gorm:"not null;default:0"`
	TotalGiveaway  int             `gorm:"not null;default:0"`
	TotalRevenue   float64         `gorm:"not null;default:0"`
	TotalCost      float64         `gorm:"not null;default:0"`
	NetProfit      float64         `gorm:"not null;default:0"`
	CashCollected  float64         `gorm:"not null;default:0"`
	VenmoCollected float64         `gorm:"not null;default:0"`
	OtherCollected float64         `gorm:"not null;default:0"`
	Notes          string          `gorm:"size:2000"`
	Status         LifecycleStatus `gorm:"size:20;not null;default:active;index"`
	ArchivedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EventItem is one flavor's counts within an event. FlavorName and UnitCost
// are snapshots, not foreign keys; Remaining/Revenue/COGS/Profit are derived.
type EventItem struct {
	ID         uint    `gorm:"primaryKey"`
	EventID    uint    `gorm:"index;not null"`
	FlavorName string  `gorm:"size:100;not null"`
	Prepared   int     `gorm:"not null;default:0"`
	Remaining  int     `gorm:"not null;default:0"`
	Giveaway   int     `gorm:"not null;default:0"`
	Sold       int     `gorm:"not null;default:0"`
	Revenue    float64 `gorm:"not null;default:0"`
	UnitCost   *float64
	COGS       float64 `gorm:"column:cogs;not null;default:0"`
	Profit     float64 `gorm:"not null;default:0"`
}
