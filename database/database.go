package database

import (
	"fmt"
	"log"

	"workforce/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(driver, dsn string) error {
	var err error
	DB, err = Open(driver, dsn, logger.Default.LogMode(logger.Info))
	if err != nil {
		return err
	}
	return Migrate(DB)
}

// Open connects with the named driver. sqlite is limited to one connection
// so transactions never contend for the database file lock.
func Open(driver, dsn string, l logger.Interface) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: l})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate auto-migrates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Worker{},
		&models.Job{},
		&models.Allocation{},
		&models.AllocationWorker{},
	)
}

// SeedDemo inserts a small roster when the workers table is empty.
func SeedDemo(db *gorm.DB) error {
	var count int64
	db.Model(&models.Worker{}).Count(&count)
	if count > 0 {
		return nil
	}

	roster := []models.Worker{
		{Name: "Grace Okafor", Role: "Site Supervisor", Email: "grace@example.com", Phone: "555-0100"},
		{Name: "John Smith", Role: "Welder", Email: "john@example.com", Phone: "555-0101"},
		{Name: "Sarah Johnson", Role: "Fabricator", Email: "sarah@example.com", Phone: "555-0102"},
		{Name: "Mike Wilson", Role: "Fitter", Email: "mike@example.com", Phone: "555-0103"},
	}
	for i := range roster {
		roster[i].Kind = models.ClassifyRole(roster[i].Role)
		roster[i].Status = models.WorkerNotAllocated
	}

	if err := db.Create(&roster).Error; err != nil {
		return err
	}

	log.Printf("Demo roster seeded (%d workers)", len(roster))
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
