// Package sqlite implements store.Catalog on SQLite for the electronics demo
// catalog. The schema predates this service: prices are formatted text,
// list/map attributes are JSON-encoded text columns, and booleans are 0/1
// integers. The projector normalizes all of that into the canonical shape.
package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cast"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hatbazar/hatbazar/internal/domain"
	"github.com/hatbazar/hatbazar/internal/store"
)

// Open opens (or creates) the demo database and migrates its schema.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&electronicsRow{}); err != nil {
		return nil, err
	}
	return db, nil
}

// CatalogStore implements store.Catalog over the electronics table.
// This variant has no seller concept; ownership filters select nothing.
type CatalogStore struct {
	db *gorm.DB
}

var _ store.Catalog = (*CatalogStore)(nil)

// NewCatalogStore creates a SQLite-backed demo catalog store.
func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// electronicsRow is the storage-native record.
type electronicsRow struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Name           string `gorm:"size:255;not null;index"`
	Description    string `gorm:"type:text"`
	Price          string `gorm:"size:64"`
	OriginalPrice  string `gorm:"size:64"`
	Category       string `gorm:"size:128;index"`
	Condition      string `gorm:"size:32"`
	Brand          string `gorm:"size:128"`
	Model          string `gorm:"size:128"`
	Images         string `gorm:"type:text"`
	Features       string `gorm:"type:text"`
	Specifications string `gorm:"type:text"`
	Stock          int    `gorm:"not null;default:0"`
	IsFeatured     int    `gorm:"not null;default:0"`
	IsPublished    int    `gorm:"not null;default:0"`
	RatingAverage  float64
	RatingCount    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName keeps the legacy table name the demo data ships with.
func (electronicsRow) TableName() string { return "electronics_products" }

func (s *CatalogStore) List(ctx context.Context, params store.ListParams) ([]domain.Product, error) {
	const op = "sqlite.catalog.list"

	if params.SellerID != "" {
		// No seller column exists in this variant.
		return []domain.Product{}, nil
	}

	q := s.db.WithContext(ctx).Model(&electronicsRow{}).Order("id ASC")
	if params.Scope == domain.ScopePublic {
		q = q.Where("is_published = ?", 1)
	}

	var rows []electronicsRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, domain.Unavailable(err, op, "failed to query demo catalog")
	}

	out := make([]domain.Product, len(rows))
	for i, row := range rows {
		out[i] = projectRow(row)
	}
	return out, nil
}

func (s *CatalogStore) Get(ctx context.Context, id string) (*domain.Product, error) {
	const op = "sqlite.catalog.get"

	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	var row electronicsRow
	if err := s.db.WithContext(ctx).First(&row, rowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Unavailable(err, op, "failed to get demo product")
	}

	p := projectRow(row)
	return &p, nil
}

func (s *CatalogStore) Create(ctx context.Context, _ string, params domain.CreateProductParams) (*domain.Product, error) {
	const op = "sqlite.catalog.create"

	row := electronicsRow{
		Name:           params.Name,
		Description:    params.Description,
		Price:          formatPrice(params.PriceCents),
		Category:       params.Category,
		Condition:      string(params.Condition),
		Brand:          params.Brand,
		Model:          params.Model,
		Images:         encodeJSON(params.Images),
		Features:       encodeJSON(params.Features),
		Specifications: encodeJSON(params.Specifications),
		Stock:          params.Stock,
		IsFeatured:     boolToInt(params.IsFeatured),
		IsPublished:    boolToInt(params.IsPublished),
	}
	if params.OriginalPriceCents > 0 {
		row.OriginalPrice = formatPrice(params.OriginalPriceCents)
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, domain.Unavailable(err, op, "failed to insert demo product")
	}

	p := projectRow(row)
	return &p, nil
}

func (s *CatalogStore) Update(ctx context.Context, id string, params domain.UpdateProductParams) (*domain.Product, error) {
	const op = "sqlite.catalog.update"

	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	updates := map[string]interface{}{}
	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.PriceCents != nil {
		updates["price"] = formatPrice(*params.PriceCents)
	}
	if params.OriginalPriceCents != nil {
		updates["original_price"] = formatPrice(*params.OriginalPriceCents)
	}
	if params.Category != nil {
		updates["category"] = *params.Category
	}
	if params.Condition != nil {
		updates["condition"] = string(*params.Condition)
	}
	if params.Brand != nil {
		updates["brand"] = *params.Brand
	}
	if params.Model != nil {
		updates["model"] = *params.Model
	}
	if params.Images != nil {
		updates["images"] = encodeJSON(params.Images)
	}
	if params.Features != nil {
		updates["features"] = encodeJSON(params.Features)
	}
	if params.Specifications != nil {
		updates["specifications"] = encodeJSON(params.Specifications)
	}
	if params.Stock != nil {
		updates["stock"] = *params.Stock
	}
	if params.IsFeatured != nil {
		updates["is_featured"] = boolToInt(*params.IsFeatured)
	}
	if params.IsPublished != nil {
		updates["is_published"] = boolToInt(*params.IsPublished)
	}

	res := s.db.WithContext(ctx).Model(&electronicsRow{}).Where("id = ?", rowID).Updates(updates)
	if res.Error != nil {
		return nil, domain.Unavailable(res.Error, op, "failed to update demo product")
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrProductNotFound
	}

	return s.Get(ctx, id)
}

func (s *CatalogStore) Delete(ctx context.Context, id string) error {
	const op = "sqlite.catalog.delete"

	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return domain.ErrProductNotFound
	}

	res := s.db.WithContext(ctx).Delete(&electronicsRow{}, rowID)
	if res.Error != nil {
		return domain.Unavailable(res.Error, op, "failed to delete demo product")
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DecrementStock relies on a single conditional UPDATE; the stock >= qty
// guard in the WHERE clause is what keeps concurrent checkouts from driving
// stock negative.
func (s *CatalogStore) DecrementStock(ctx context.Context, id string, qty int) error {
	const op = "sqlite.catalog.decrement_stock"

	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return domain.ErrProductNotFound
	}

	res := s.db.WithContext(ctx).Model(&electronicsRow{}).
		Where("id = ? AND stock >= ?", rowID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return domain.Unavailable(res.Error, op, "failed to decrement stock")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&electronicsRow{}).Where("id = ?", rowID).Count(&count).Error; err != nil {
			return domain.Unavailable(err, op, "failed to check product existence")
		}
		if count == 0 {
			return domain.ErrProductNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (s *CatalogStore) RestoreStock(ctx context.Context, id string, qty int) error {
	const op = "sqlite.catalog.restore_stock"

	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return domain.ErrProductNotFound
	}

	res := s.db.WithContext(ctx).Model(&electronicsRow{}).
		Where("id = ?", rowID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return domain.Unavailable(res.Error, op, "failed to restore stock")
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// projectRow maps a storage-native row to the canonical Product. Malformed
// JSON columns fail closed to empty values instead of aborting the listing.
func projectRow(row electronicsRow) domain.Product {
	price, _ := domain.ParseAmountCents(row.Price)
	original, _ := domain.ParseAmountCents(row.OriginalPrice)

	return domain.Product{
		ID:                 strconv.FormatInt(row.ID, 10),
		Name:               row.Name,
		Description:        row.Description,
		PriceCents:         price,
		OriginalPriceCents: original,
		Category:           row.Category,
		Condition:          domain.Condition(row.Condition),
		Brand:              row.Brand,
		Model:              row.Model,
		Images:             decodeStringList(row.Images),
		Features:           decodeStringList(row.Features),
		Specifications:     decodeStringMap(row.Specifications),
		Stock:              row.Stock,
		IsFeatured:         cast.ToBool(row.IsFeatured),
		IsPublished:        cast.ToBool(row.IsPublished),
		Rating:             domain.Rating{Average: row.RatingAverage, Count: row.RatingCount},
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

// formatPrice renders minor units as the major-unit decimal text the legacy
// price columns hold, so writes round-trip through the same normalization
// the demo data does ("42999.00" parses back to 4299900).
func formatPrice(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)
}

func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func decodeStringMap(raw string) map[string]string {
	if raw == "" {
		return map[string]string{}
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return map[string]string{}
	}
	return out
}

func encodeJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
