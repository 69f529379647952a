package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hatbazar/hatbazar/internal/domain"
	"github.com/hatbazar/hatbazar/internal/store"
)

const productCollection = "products"

// CatalogStore implements store.Catalog using a MongoDB collection.
type CatalogStore struct {
	coll *mongo.Collection
}

var _ store.Catalog = (*CatalogStore)(nil)

// NewCatalogStore creates a MongoDB-backed product store.
func NewCatalogStore(db *mongo.Database) *CatalogStore {
	return &CatalogStore{coll: db.Collection(productCollection)}
}

// productDoc is the storage-native record. Sellers are denormalized onto the
// product the way the upstream data was written; the credential field is
// excluded at query time and never leaves this package.
type productDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	SellerID       string             `bson:"seller_id,omitempty"`
	Seller         sellerDoc          `bson:"seller,omitempty"`
	Name           string             `bson:"name"`
	Description    string             `bson:"description,omitempty"`
	Price          interface{}        `bson:"price"`
	OriginalPrice  interface{}        `bson:"original_price,omitempty"`
	Category       string             `bson:"category"`
	Condition      string             `bson:"condition,omitempty"`
	Brand          string             `bson:"brand,omitempty"`
	Model          string             `bson:"model,omitempty"`
	Images         []string           `bson:"images,omitempty"`
	Features       []string           `bson:"features,omitempty"`
	Specifications map[string]string  `bson:"specifications,omitempty"`
	Stock          int                `bson:"stock"`
	IsFeatured     bool               `bson:"is_featured"`
	IsPublished    bool               `bson:"is_published"`
	RatingAverage  float64            `bson:"rating_average"`
	RatingCount    int                `bson:"rating_count"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

type sellerDoc struct {
	Name  string `bson:"name,omitempty"`
	Email string `bson:"email,omitempty"`
	// Password is present in legacy documents. It is listed here only so
	// the exclusion below is explicit; it is never decoded or projected.
	Password string `bson:"-"`
}

// sellerCredentialGuard excludes credential fields at the wire level, so a
// password hash cannot leak even through future struct changes.
var sellerCredentialGuard = bson.D{{Key: "seller.password", Value: 0}}

func (s *CatalogStore) List(ctx context.Context, params store.ListParams) ([]domain.Product, error) {
	const op = "mongo.product.list"

	filter := bson.M{}
	if params.Scope == domain.ScopePublic {
		filter["is_published"] = true
	}
	if params.SellerID != "" {
		filter["seller_id"] = params.SellerID
	}

	opts := options.Find().
		SetProjection(sellerCredentialGuard).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, domain.Unavailable(err, op, "failed to query products")
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domain.Unavailable(err, op, "failed to decode products")
	}

	out := make([]domain.Product, len(docs))
	for i, doc := range docs {
		out[i] = projectProduct(doc)
	}
	return out, nil
}

func (s *CatalogStore) Get(ctx context.Context, id string) (*domain.Product, error) {
	const op = "mongo.product.get"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	var doc productDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(sellerCredentialGuard)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Unavailable(err, op, "failed to get product")
	}

	p := projectProduct(doc)
	return &p, nil
}

func (s *CatalogStore) Create(ctx context.Context, sellerID string, params domain.CreateProductParams) (*domain.Product, error) {
	const op = "mongo.product.create"

	now := time.Now().UTC()
	doc := productDoc{
		SellerID:       sellerID,
		Name:           params.Name,
		Description:    params.Description,
		Price:          params.PriceCents,
		Category:       params.Category,
		Condition:      string(params.Condition),
		Brand:          params.Brand,
		Model:          params.Model,
		Images:         params.Images,
		Features:       params.Features,
		Specifications: params.Specifications,
		Stock:          params.Stock,
		IsFeatured:     params.IsFeatured,
		IsPublished:    params.IsPublished,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if params.OriginalPriceCents > 0 {
		doc.OriginalPrice = params.OriginalPriceCents
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, domain.Unavailable(err, op, "failed to insert product")
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	p := projectProduct(doc)
	return &p, nil
}

func (s *CatalogStore) Update(ctx context.Context, id string, params domain.UpdateProductParams) (*domain.Product, error) {
	const op = "mongo.product.update"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if params.Name != nil {
		set["name"] = *params.Name
	}
	if params.Description != nil {
		set["description"] = *params.Description
	}
	if params.PriceCents != nil {
		set["price"] = *params.PriceCents
	}
	if params.OriginalPriceCents != nil {
		set["original_price"] = *params.OriginalPriceCents
	}
	if params.Category != nil {
		set["category"] = *params.Category
	}
	if params.Condition != nil {
		set["condition"] = string(*params.Condition)
	}
	if params.Brand != nil {
		set["brand"] = *params.Brand
	}
	if params.Model != nil {
		set["model"] = *params.Model
	}
	if params.Images != nil {
		set["images"] = params.Images
	}
	if params.Features != nil {
		set["features"] = params.Features
	}
	if params.Specifications != nil {
		set["specifications"] = params.Specifications
	}
	if params.Stock != nil {
		set["stock"] = *params.Stock
	}
	if params.IsFeatured != nil {
		set["is_featured"] = *params.IsFeatured
	}
	if params.IsPublished != nil {
		set["is_published"] = *params.IsPublished
	}

	var doc productDoc
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(sellerCredentialGuard),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Unavailable(err, op, "failed to update product")
	}

	p := projectProduct(doc)
	return &p, nil
}

func (s *CatalogStore) Delete(ctx context.Context, id string) error {
	const op = "mongo.product.delete"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProductNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.Unavailable(err, op, "failed to delete product")
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DecrementStock subtracts qty in a single conditional $inc so concurrent
// checkouts cannot drive stock negative; there is no read-modify-write.
func (s *CatalogStore) DecrementStock(ctx context.Context, id string, qty int) error {
	const op = "mongo.product.decrement_stock"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProductNotFound
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "stock": bson.M{"$gte": qty}},
		bson.M{
			"$inc":         bson.M{"stock": -qty},
			"$currentDate": bson.M{"updated_at": true},
		},
	)
	if err != nil {
		return domain.Unavailable(err, op, "failed to decrement stock")
	}
	if res.MatchedCount == 0 {
		// Either the product is gone or it lacks stock; tell them apart
		// so checkout can report a useful error.
		count, err := s.coll.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
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
	const op = "mongo.product.restore_stock"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProductNotFound
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$inc":         bson.M{"stock": qty},
			"$currentDate": bson.M{"updated_at": true},
		},
	)
	if err != nil {
		return domain.Unavailable(err, op, "failed to restore stock")
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// projectProduct maps a storage-native document to the canonical shape.
// Legacy documents carry price as a formatted string; normalization happens
// here so nothing downstream ever compares formatted strings.
func projectProduct(doc productDoc) domain.Product {
	return domain.Product{
		ID:                 doc.ID.Hex(),
		SellerID:           doc.SellerID,
		Name:               doc.Name,
		Description:        doc.Description,
		PriceCents:         normalizePrice(doc.Price),
		OriginalPriceCents: normalizePrice(doc.OriginalPrice),
		Category:           doc.Category,
		Condition:          domain.Condition(doc.Condition),
		Brand:              doc.Brand,
		Model:              doc.Model,
		Images:             emptyIfNil(doc.Images),
		Features:           emptyIfNil(doc.Features),
		Specifications:     emptyMapIfNil(doc.Specifications),
		Stock:              doc.Stock,
		IsFeatured:         doc.IsFeatured,
		IsPublished:        doc.IsPublished,
		Rating:             domain.Rating{Average: doc.RatingAverage, Count: doc.RatingCount},
		CreatedAt:          doc.CreatedAt,
		UpdatedAt:          doc.UpdatedAt,
	}
}

// normalizePrice accepts the numeric BSON types plus legacy formatted
// strings and returns integer minor units.
func normalizePrice(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		cents, ok := domain.ParseAmountCents(n)
		if !ok {
			return 0
		}
		return cents
	default:
		return 0
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyMapIfNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
