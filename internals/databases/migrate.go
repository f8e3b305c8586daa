package database

import (
	"log"

	"gorm.io/gorm"
)

// AutoMigrate hanya untuk dev / test environment (DB_AUTO_MIGRATE=true).
// Produksi tetap pakai migrasi SQL terkelola.
func AutoMigrate(db *gorm.DB, models ...any) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		log.Printf("⚠️ pgcrypto: %v", err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		return err
	}
	log.Printf("✅ AutoMigrate %d tabel selesai", len(models))
	return nil
}
