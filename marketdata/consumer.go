package marketdata

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer reads currency quote snapshots from a Kafka topic into a Store.
// Malformed messages are logged and skipped; a valid snapshot replaces the
// currency's previous one.
type Consumer struct {
	Reader *kafka.Reader
	Store  *Store
	Logger *zap.Logger
}

func NewConsumer(brokers, topic, groupID string, store *Store, logger *zap.Logger) *Consumer {
	return &Consumer{
		Reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  []string{brokers},
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1e3,
			MaxBytes: 1e6,
			MaxWait:  500 * time.Millisecond,
		}),
		Store:  store,
		Logger: logger,
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.Reader.Close()
	for {
		m, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		var snap Snapshot
		if err := json.Unmarshal(m.Value, &snap); err != nil {
			c.Logger.Warn("bad snapshot message", zap.Error(err))
			continue
		}
		if snap.Currency == "" || len(snap.Records) == 0 {
			c.Logger.Warn("empty snapshot", zap.String("currency", snap.Currency))
			continue
		}
		quotes, err := Normalize(snap.Records)
		if err != nil {
			c.Logger.Warn("snapshot rejected", zap.String("currency", snap.Currency), zap.Error(err))
			continue
		}
		c.Store.Put(snap.Currency, quotes)
		c.Logger.Debug("snapshot applied",
			zap.String("currency", snap.Currency),
			zap.Int("quotes", len(quotes)),
		)
	}
}
