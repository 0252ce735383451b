package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// Writer is the part of *kafka.Writer the relay needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(brokers []string) *kafka.Writer {
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Balancer: &kafka.Hash{},
	})
}

// Envelope is the message body sent for every intent.
type Envelope struct {
	EventID           string          `json:"event_id"`
	EventType         string          `json:"event_type"`
	OccurredAt        time.Time       `json:"occurred_at"`
	RecipientClientID uint            `json:"recipient_client_id"`
	AppointmentID     uint            `json:"appointment_id"`
	BarberID          uint            `json:"barber_id"`
	Date              string          `json:"date"`
	Payload           json.RawMessage `json:"payload"`
}

type RelayConfig struct {
	Topic     string
	PollEvery time.Duration
	BatchSize int
}

// Relay moves committed notification intents from the outbox table to Kafka.
// Delivery is at-least-once; consumers dedupe on event_id.
type Relay struct {
	db     *gorm.DB
	writer Writer
	logger *slog.Logger
	cfg    RelayConfig
}

func NewRelay(db *gorm.DB, writer Writer, logger *slog.Logger, cfg RelayConfig) *Relay {
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Topic == "" {
		cfg.Topic = "barber.queue.intent.v1"
	}
	return &Relay{db: db, writer: writer, logger: logger, cfg: cfg}
}

// Enabled reports whether a broker writer was configured.
func (r *Relay) Enabled() bool {
	return r.writer != nil
}

func (r *Relay) Run(ctx context.Context) {
	if !r.Enabled() {
		r.logger.Warn("intent relay disabled (no kafka brokers configured)")
		return
	}

	ticker := time.NewTicker(r.cfg.PollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.PublishBatch(ctx)
			if err != nil {
				r.logger.Error("intent relay failed", "err", err)
				continue
			}
			if n > 0 {
				r.logger.Debug("intents relayed", "count", n)
			}
		}
	}
}

// PublishBatch sends one batch of unpublished intents and marks them. Rows
// stay locked until the batch commits so concurrent relays skip them.
func (r *Relay) PublishBatch(ctx context.Context) (int, error) {
	sent := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []models.NotificationIntent
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("published_at IS NULL").
			Order("created_at ASC, id ASC").
			Limit(r.cfg.BatchSize).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		msgs := make([]kafka.Message, 0, len(rows))
		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			msg, err := r.message(row)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
			ids = append(ids, row.ID)
		}

		if err := r.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("write %d intents: %w", len(msgs), err)
		}

		if err := tx.Model(&models.NotificationIntent{}).
			Where("id IN ?", ids).
			Update("published_at", time.Now()).Error; err != nil {
			return err
		}
		sent = len(rows)
		return nil
	})
	return sent, err
}

func (r *Relay) message(row models.NotificationIntent) (kafka.Message, error) {
	payload := json.RawMessage(row.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	body, err := json.Marshal(Envelope{
		EventID:           row.ID,
		EventType:         row.Kind,
		OccurredAt:        row.CreatedAt,
		RecipientClientID: row.RecipientClientID,
		AppointmentID:     row.AppointmentID,
		BarberID:          row.BarberID,
		Date:              row.Date,
		Payload:           payload,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode intent %s: %w", row.ID, err)
	}

	return kafka.Message{
		Topic: r.cfg.Topic,
		Key:   []byte(strconv.FormatUint(uint64(row.RecipientClientID), 10)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(row.ID)},
			{Key: "event_type", Value: []byte(row.Kind)},
		},
	}, nil
}
