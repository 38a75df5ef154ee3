package database

import (
	"gorm.io/gorm"

	"github.com/dineqr/table-order/models"
	"github.com/dineqr/table-order/utils"
)

// SeedMenu loads the static catalog when the menus table is empty.
// Portion prices replace the base price; add-on prices are additive.
func SeedMenu(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Menu{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	menus := []models.Menu{
		{
			Name:        "Papad",
			Price:       20,
			Category:    "Veg",
			Subcategory: "Starters Veg",
			Description: "Crispy papad with spices",
		},
		{
			Name:        "Masala Papad",
			Price:       50,
			Category:    "Veg",
			Subcategory: "Starters Veg",
			Description: "Spiced papad with masala",
		},
		{
			Name:        "Paneer Tikka",
			Price:       225,
			Category:    "Veg",
			Subcategory: "Starters Veg",
			Description: "Grilled cottage cheese with spices",
			Options: []models.MenuOption{
				{Name: "Extra Cheese", Price: 30, Kind: models.OptionKindAddOn},
			},
		},
		{
			Name:        "Chilli Mushroom (Dry)",
			Price:       240,
			Category:    "Veg",
			Subcategory: "Starters Veg",
			Description: "Spicy mushrooms with vegetables",
		},
		{
			Name:        "Mix Veg",
			Price:       200,
			Category:    "Veg",
			Subcategory: "Main Course Veg",
			Description: "Mixed vegetables in rich gravy",
			Options: []models.MenuOption{
				{Name: "Full", Price: 200, Kind: models.OptionKindPortion},
				{Name: "Half", Price: 130, Kind: models.OptionKindPortion},
			},
		},
		{
			Name:        "Dal Makhni",
			Price:       200,
			Category:    "Veg",
			Subcategory: "Main Course Veg",
			Description: "Creamy black lentils curry",
			Options: []models.MenuOption{
				{Name: "Full", Price: 200, Kind: models.OptionKindPortion},
				{Name: "Half", Price: 130, Kind: models.OptionKindPortion},
				{Name: "Extra Butter", Price: 25, Kind: models.OptionKindAddOn},
			},
		},
		{
			Name:        "Kadhai Paneer",
			Price:       230,
			Category:    "Paneer ka Jayaka",
			Description: "Paneer cooked in kadhai style with capsicum and onions",
			Options: []models.MenuOption{
				{Name: "Full", Price: 230, Kind: models.OptionKindPortion},
				{Name: "Half", Price: 130, Kind: models.OptionKindPortion},
			},
		},
		{
			Name:        "Paneer Methi Malai",
			Price:       250,
			Category:    "Paneer ka Jayaka",
			Description: "Creamy paneer with fenugreek leaves",
			Options: []models.MenuOption{
				{Name: "Full", Price: 250, Kind: models.OptionKindPortion},
				{Name: "Half", Price: 135, Kind: models.OptionKindPortion},
			},
		},
		{
			// Carries Half/Quarter without Full: the synthetic Full
			// option comes from PortionOptions at read time.
			Name:        "Tandoori Chicken",
			Price:       380,
			Category:    "Non-Veg",
			Subcategory: "Tandoor",
			Description: "Chicken marinated in yogurt and spices, roasted in tandoor",
			Options: []models.MenuOption{
				{Name: "Half", Price: 200, Kind: models.OptionKindPortion},
				{Name: "Quarter", Price: 110, Kind: models.OptionKindPortion},
			},
		},
		{
			Name:        "Butter Chicken",
			Price:       320,
			Category:    "Non-Veg",
			Subcategory: "Main Course Non-Veg",
			Description: "Chicken in rich tomato butter gravy",
			Options: []models.MenuOption{
				{Name: "Full", Price: 320, Kind: models.OptionKindPortion},
				{Name: "Half", Price: 180, Kind: models.OptionKindPortion},
				{Name: "Extra Gravy", Price: 40, Kind: models.OptionKindAddOn},
			},
		},
		{
			Name:        "Butter Naan",
			Price:       45,
			Category:    "Breads",
			Description: "Soft naan brushed with butter",
		},
		{
			Name:        "Masala Cold Drink",
			Price:       60,
			Category:    "Beverages",
			Description: "Spiced soft drink",
		},
	}

	if err := db.Create(&menus).Error; err != nil {
		return err
	}

	utils.InfoLogger.Printf("Seeded %d menu items", len(menus))
	return nil
}
