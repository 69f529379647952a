// Package events publishes catalog and order lifecycle events over NATS so
// other instances can drop stale listing caches and downstream consumers can
// react to order state changes without polling.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Subjects. Catalog invalidation subjects carry the catalog name as the last
// token so subscribers can match "catalog.invalidate.*".
const (
	subjectCatalogInvalidate = "catalog.invalidate."
	SubjectOrderStatus       = "orders.status"
)

// CatalogEvent announces that a catalog's contents changed.
type CatalogEvent struct {
	Catalog   string    `json:"catalog"`
	ProductID string    `json:"productId,omitempty"`
	Action    string    `json:"action"`
	At        time.Time `json:"at"`
}

// OrderEvent announces an order status transition.
type OrderEvent struct {
	OrderID string    `json:"orderId"`
	UserID  string    `json:"userId"`
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
}

// Bus is a thin publisher over a NATS connection. A nil *Bus publishes
// nothing, so single-instance deployments can run without a broker.
type Bus struct {
	nc     *nats.Conn
	logger zerolog.Logger
}

// Connect dials NATS with reconnect behavior suited to a long-lived service.
func Connect(url string, logger zerolog.Logger) (*Bus, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, err
	}
	return &Bus{nc: nc, logger: logger}, nil
}

// Close drains the connection, flushing pending publishes.
func (b *Bus) Close() {
	if b == nil || b.nc == nil {
		return
	}
	if err := b.nc.Drain(); err != nil {
		b.logger.Warn().Err(err).Msg("nats drain failed")
	}
}

// PublishCatalogChanged emits an invalidation event for the named catalog.
// Publish failures are logged and dropped; the local write already succeeded
// and the cache TTL bounds staleness on other instances.
func (b *Bus) PublishCatalogChanged(catalogName, productID, action string) {
	if b == nil || b.nc == nil {
		return
	}
	b.publish(subjectCatalogInvalidate+catalogName, CatalogEvent{
		Catalog:   catalogName,
		ProductID: productID,
		Action:    action,
		At:        time.Now().UTC(),
	})
}

// PublishOrderStatus emits an order transition event.
func (b *Bus) PublishOrderStatus(orderID, userID, status string) {
	if b == nil || b.nc == nil {
		return
	}
	b.publish(SubjectOrderStatus, OrderEvent{
		OrderID: orderID,
		UserID:  userID,
		Status:  status,
		At:      time.Now().UTC(),
	})
}

func (b *Bus) publish(subject string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		b.logger.Error().Err(err).Str("subject", subject).Msg("event marshal failed")
		return
	}
	if err := b.nc.Publish(subject, data); err != nil {
		b.logger.Warn().Err(err).Str("subject", subject).Msg("event publish failed")
	}
}

// SubscribeCatalogChanged invokes fn for every catalog invalidation event,
// including those published by this instance. Malformed payloads are logged
// and skipped.
func (b *Bus) SubscribeCatalogChanged(fn func(CatalogEvent)) error {
	if b == nil || b.nc == nil {
		return nil
	}
	_, err := b.nc.Subscribe(subjectCatalogInvalidate+"*", func(msg *nats.Msg) {
		var ev CatalogEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			b.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("malformed catalog event")
			return
		}
		fn(ev)
	})
	return err
}
