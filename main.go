package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/dineqr/table-order/config"
	"github.com/dineqr/table-order/database"
	"github.com/dineqr/table-order/models"
	"github.com/dineqr/table-order/router"
	"github.com/dineqr/table-order/services"
	"github.com/dineqr/table-order/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(utils.GetDB())

	if err := database.SeedMenu(utils.GetDB()); err != nil {
		utils.ErrorLogger.Printf("Error seeding menu: %v", err)
	}

	// Stale completed orders are removed on a fixed schedule.
	sweeper := services.NewRetentionSweeper(utils.GetDB())
	sweeper.Start()
	defer sweeper.Stop()

	r := router.SetupRouter(utils.GetDB())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Menu{},
		&models.MenuOption{},
		&models.CartLine{},
		&models.CartAddOn{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderAddOn{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
