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

const orderCollection = "orders"

// OrderStore implements store.Orders using a MongoDB collection.
type OrderStore struct {
	coll *mongo.Collection
}

var _ store.Orders = (*OrderStore)(nil)

// NewOrderStore creates a MongoDB-backed order store.
func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{coll: db.Collection(orderCollection)}
}

type orderDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	Items      []orderItemDoc     `bson:"items"`
	TotalCents int64              `bson:"total"`
	Status     string             `bson:"status"`
	PaymentRef string             `bson:"payment_ref,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

type orderItemDoc struct {
	ProductID  string `bson:"product_id"`
	Name       string `bson:"name"`
	PriceCents int64  `bson:"price"`
	Quantity   int    `bson:"quantity"`
}

func (s *OrderStore) Create(ctx context.Context, order *domain.Order) error {
	const op = "mongo.order.create"

	doc := orderDoc{
		UserID:     order.UserID,
		Items:      make([]orderItemDoc, len(order.Items)),
		TotalCents: order.TotalCents,
		Status:     string(order.Status),
		PaymentRef: order.PaymentRef,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	for i, item := range order.Items {
		doc.Items[i] = orderItemDoc{
			ProductID:  item.ProductID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		}
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return domain.Unavailable(err, op, "failed to insert order")
	}
	order.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *OrderStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	const op = "mongo.order.get"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	var doc orderDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Unavailable(err, op, "failed to get order")
	}

	o := projectOrder(doc)
	return &o, nil
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const op = "mongo.order.list_by_user"

	cursor, err := s.coll.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, domain.Unavailable(err, op, "failed to query orders")
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domain.Unavailable(err, op, "failed to decode orders")
	}

	out := make([]domain.Order, len(docs))
	for i, doc := range docs {
		out[i] = projectOrder(doc)
	}
	return out, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, paymentRef string) error {
	const op = "mongo.order.update_status"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrderNotFound
	}

	set := bson.M{"status": string(status), "updated_at": time.Now().UTC()}
	if paymentRef != "" {
		set["payment_ref"] = paymentRef
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return domain.Unavailable(err, op, "failed to update order status")
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func projectOrder(doc orderDoc) domain.Order {
	items := make([]domain.OrderItem, len(doc.Items))
	for i, item := range doc.Items {
		items[i] = domain.OrderItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		}
	}
	return domain.Order{
		ID:         doc.ID.Hex(),
		UserID:     doc.UserID,
		Items:      items,
		TotalCents: doc.TotalCents,
		Status:     domain.OrderStatus(doc.Status),
		PaymentRef: doc.PaymentRef,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}
