package catalog_test

import (
	"time"

	"github.com/hatbazar/hatbazar/internal/domain"
)

// fixture returns a small mixed catalog used across the pipeline tests.
func fixture() []domain.Product {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	return []domain.Product{
		{
			ID:          "p1",
			Name:        "iPhone 13 Pro",
			Description: "Gently used flagship",
			PriceCents:  10000,
			Category:    "Mobile Phones",
			Condition:   domain.ConditionLikeNew,
			Brand:       "Apple",
			Features:    []string{"Face ID", "5G"},
			IsFeatured:  true,
			IsPublished: true,
			Rating:      domain.Rating{Average: 4.7, Count: 120},
			CreatedAt:   base,
		},
		{
			ID:          "p2",
			Name:        "Walton Primo",
			Description: "Budget smartphone",
			PriceCents:  5000,
			Category:    "mobile phones",
			Condition:   domain.ConditionGood,
			Brand:       "Walton",
			Features:    []string{"Dual SIM"},
			IsFeatured:  false,
			IsPublished: true,
			Rating:      domain.Rating{Average: 3.9, Count: 40},
			CreatedAt:   base.Add(24 * time.Hour),
		},
		{
			ID:          "p3",
			Name:        "Mechanical Keyboard",
			Description: "Hot-swappable switches",
			PriceCents:  20000,
			Category:    "Accessories",
			Condition:   domain.ConditionNew,
			Brand:       "Keychron",
			Features:    []string{"RGB", "Bluetooth"},
			IsFeatured:  true,
			IsPublished: true,
			Rating:      domain.Rating{Average: 4.2, Count: 77},
			CreatedAt:   base.Add(48 * time.Hour),
		},
	}
}
