package models

import "time"

// Delivery is a consignment drop-off to a store. Unlike events there is no
// sold/giveaway split: every prepared unit counts as delivered for sale.
// ExpirationDate is always DatePrepared + 7 days.
type Delivery struct {
	ID             uint      `gorm:"primaryKey"`
	StoreName      string    `gorm:"size:150;not null"`
	DatePrepared   time.Time `gorm:"index;not null"`
	DropoffDate    *time.Time
	ExpirationDate *time.Time
	TotalPrepared  int             `gorm:"not null;default:0"`
	TotalCOGS      float64         `gorm:"column:total_cogs;not null;default:0"`
	TotalRevenue   float64         `gorm:"not null;default:0"`
	GrossProfit    float64         `gorm:"not null;default:0"`
	ProfitMargin   float64         `gorm:"not null;default:0"` // percent, 0 when revenue is 0
	Notes          string          `gorm:"size:2000"`
	InvoiceNotes   string          `gorm:"size:2000"`
	AdditionalFees float64         `gorm:"not null;default:0"`
	Discount       float64         `gorm:"not null;default:0"`
	PrepaidAmount  float64         `gorm:"not null;default:0"`
	CashCollected  float64         `gorm:"not null;default:0"`
	VenmoCollected float64         `gorm:"not null;default:0"`
	OtherCollected float64         `gorm:"not null;default:0"`
	Status         LifecycleStatus `gorm:"size:20;not null;default:active;index"`
	ArchivedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DeliveryItem snapshots both UnitPrice and UnitCost at entry time.
type DeliveryItem struct {
	ID         uint   `gorm:"primaryKey"`
	DeliveryID uint   `gorm:"index;not null"`
	FlavorName string `gorm:"size:100;not null"`
	Prepared   int    `gorm:"not null;default:0"`
	UnitPrice  *float64
	UnitCost   *float64
	Revenue    float64 `gorm:"not null;default:0"`
	COGS       float64 `gorm:"column:cogs;not null;default:0"`
	Profit     float64 `gorm:"not null;default:0"`
}
