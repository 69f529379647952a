package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hatbazar/hatbazar/internal/domain"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  int64
	}{
		{"int64 minor units", int64(4299900), 4299900},
		{"int32", int32(500), 500},
		{"float64", float64(1250), 1250},
		{"legacy formatted string", "৳42,999", 4299900},
		{"unparseable string", "call for price", 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePrice(tt.value))
		})
	}
}

func TestProjectProduct(t *testing.T) {
	oid := primitive.NewObjectID()
	now := time.Now().UTC()

	doc := productDoc{
		ID:            oid,
		SellerID:      "s1",
		Name:          "iPhone 13",
		Price:         "৳95,000",
		Category:      "Mobile Phones",
		Condition:     "like-new",
		Stock:         2,
		IsPublished:   true,
		RatingAverage: 4.4,
		RatingCount:   12,
		CreatedAt:     now,
	}

	p := projectProduct(doc)

	assert.Equal(t, oid.Hex(), p.ID)
	assert.Equal(t, int64(9500000), p.PriceCents)
	assert.Equal(t, domain.ConditionLikeNew, p.Condition)
	assert.Equal(t, domain.Rating{Average: 4.4, Count: 12}, p.Rating)

	// Absent collections project as empty, not nil, so the API never
	// serializes null where clients expect arrays/objects.
	assert.NotNil(t, p.Images)
	assert.NotNil(t, p.Features)
	assert.NotNil(t, p.Specifications)
}
