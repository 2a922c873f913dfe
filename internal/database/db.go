package database

import (
	"log"
	"regexp"
	"strings"

	"bakeshop-backend/internal/config"
	"bakeshop-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// postgres DSNs come either as URLs or as lib/pq key=value lists;
// everything else is treated as a sqlite file path.
var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

func IsPostgresDSN(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return true
	}
	return kvPairRegex.MatchString(lower)
}

func Open(dsn string) (*gorm.DB, error) {
	if IsPostgresDSN(dsn) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

func Init(cfg *config.Config) {
	var err error

	DB, err = Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("database connected, migration complete")
}

// Migrate is shared with the test suites, which run against in-memory sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Flavor{},
		&models.Event{},
		&models.EventItem{},
		&models.Delivery{},
		&models.DeliveryItem{},
	)
}
