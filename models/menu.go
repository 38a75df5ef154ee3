package models

import (
	"sort"
	"strings"
	"time"
)

// Option kinds. Portion prices replace the base price of the menu item,
// add-on prices are added on top of the unit price.
const (
	OptionKindPortion = "portion"
	OptionKindAddOn   = "addon"
)

type Menu struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Price       float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string       `gorm:"type:varchar(100);not null;index" json:"category"`
	Subcategory string       `gorm:"type:varchar(100)" json:"subcategory,omitempty"`
	Description string       `gorm:"type:text" json:"description"`
	ImageUrl    *string      `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	Options     []MenuOption `gorm:"foreignKey:MenuID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

type MenuOption struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	MenuID uint    `gorm:"not null;index" json:"menu_id"`
	Name   string  `gorm:"type:varchar(100);not null" json:"name"`
	Price  float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Kind   string  `gorm:"type:varchar(10);not null;default:'addon'" json:"kind"`
}

// IsPortionName reports whether an option name describes a portion size.
func IsPortionName(name string) bool {
	for _, p := range []string{"Full", "Half", "Quarter"} {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// PortionOptions returns the portion choices for this menu item, ordered
// Full > Half > Quarter. If the item has a Half or Quarter portion but no
// Full one, a synthetic Full option priced at the base price is prepended
// so the portion selector always offers a full-size choice. The synthetic
// option has ID 0; picking it resolves to the base price.
func (m *Menu) PortionOptions() []MenuOption {
	var portions []MenuOption
	hasFull := false
	for _, opt := range m.Options {
		if opt.Kind != OptionKindPortion {
			continue
		}
		if strings.Contains(opt.Name, "Full") {
			hasFull = true
		}
		portions = append(portions, opt)
	}
	if len(portions) == 0 {
		return nil
	}
	if !hasFull {
		portions = append([]MenuOption{{
			MenuID: m.ID,
			Name:   "Full",
			Price:  m.Price,
			Kind:   OptionKindPortion,
		}}, portions...)
	}
	sort.SliceStable(portions, func(i, j int) bool {
		return portionRank(portions[i].Name) < portionRank(portions[j].Name)
	})
	return portions
}

// AddOnOptions returns the additive extras for this menu item.
func (m *Menu) AddOnOptions() []MenuOption {
	var addOns []MenuOption
	for _, opt := range m.Options {
		if opt.Kind == OptionKindAddOn {
			addOns = append(addOns, opt)
		}
	}
	return addOns
}

func portionRank(name string) int {
	switch {
	case strings.Contains(name, "Full"):
		return 1
	case strings.Contains(name, "Half"):
		return 2
	case strings.Contains(name, "Quarter"):
		return 3
	}
	return 4
}
