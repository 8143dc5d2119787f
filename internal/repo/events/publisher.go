package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/marketplace/internal/config"
	"github.com/nguyentranbao-ct/marketplace/internal/models"
	"github.com/nguyentranbao-ct/marketplace/pkg/util"
)

// Publisher sends product lifecycle events to the event bus.
type Publisher interface {
	Publish(ctx context.Context, event models.ProductEvent) error
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *prometheus.HistogramVec
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, models.ProductEvent) error {
	return nil
}

// NewPublisher returns a no-op publisher when kafka is disabled.
func NewPublisher(lc fx.Lifecycle, cfg *config.Config) (Publisher, error) {
	if !cfg.Kafka.Enabled {
		log.Warnf(context.Background(), "Kafka publisher is disabled in configuration")
		return noopPublisher{}, nil
	}

	saramaConf := sarama.NewConfig()
	saramaConf.ClientID = cfg.Kafka.ClientID
	saramaConf.Producer.RequiredAcks = sarama.WaitForAll
	saramaConf.Producer.Retry.Max = 3
	saramaConf.Producer.Return.Successes = true
	saramaConf.Producer.Idempotent = true
	saramaConf.Net.MaxOpenRequests = 1
	saramaConf.Version = sarama.V2_8_0_0

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaConf)
	if err != nil {
		return nil, fmt.Errorf("new sync producer: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return newKafkaPublisher(producer, cfg.Kafka.Topic)
}

func newKafkaPublisher(producer sarama.SyncProducer, topic string) (*kafkaPublisher, error) {
	metrics, err := util.GetHistogramVec("product_events_published", "status", "topic")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
		metrics:  metrics,
	}, nil
}

// Publish keys messages by shop so events of one shop stay ordered.
func (p *kafkaPublisher) Publish(ctx context.Context, event models.ProductEvent) error {
	start := time.Now()
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.ShopID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("pattern"), Value: []byte(event.Pattern)},
		},
		Timestamp: event.OccurredAt,
	})
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.metrics.WithLabelValues(status, p.topic).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("send %s event: %w", event.Pattern, err)
	}

	log.Infow(ctx, "Published product event",
		"pattern", event.Pattern,
		"product_id", event.ProductID,
		"partition", partition,
		"offset", offset,
	)
	return nil
}
