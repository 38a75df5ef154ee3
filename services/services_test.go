package services

import (
	"fmt"
	"os"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dineqr/table-order/models"
	"github.com/dineqr/table-order/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupTestDB -> in-memory SQLite with every model migrated and a small
// seeded catalog.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique shared-cache DSN per test: every pooled connection sees the
	// same database, and tests never see each other's rows.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.Menu{},
		&models.MenuOption{},
		&models.CartLine{},
		&models.CartAddOn{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderAddOn{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	menus := []models.Menu{
		{
			Name:     "Mix Veg",
			Price:    200,
			Category: "Veg",
			Options: []models.MenuOption{
				{Name: "Full", Price: 200, Kind: models.OptionKindPortion},
				{Name: "Half", Price: 130, Kind: models.OptionKindPortion},
				{Name: "Extra Butter", Price: 20, Kind: models.OptionKindAddOn},
			},
		},
		{
			Name:     "Butter Naan",
			Price:    99,
			Category: "Breads",
		},
	}
	if err := db.Create(&menus).Error; err != nil {
		t.Fatalf("failed to seed menus: %v", err)
	}

	return db
}

func testViewer() models.ViewerIdentity {
	return models.ViewerIdentity{
		DeviceID: "device_test1",
		ClientIP: "10.0.0.7",
	}
}

func seededMenu(t *testing.T, db *gorm.DB, name string) models.Menu {
	t.Helper()
	var menu models.Menu
	if err := db.Preload("Options").Where("name = ?", name).First(&menu).Error; err != nil {
		t.Fatalf("seeded menu %q not found: %v", name, err)
	}
	return menu
}

func optionID(t *testing.T, menu models.Menu, name string) uint {
	t.Helper()
	for _, opt := range menu.Options {
		if opt.Name == name {
			return opt.ID
		}
	}
	t.Fatalf("option %q not found on %s", name, menu.Name)
	return 0
}
