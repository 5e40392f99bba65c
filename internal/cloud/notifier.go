// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/segmentio/kafka-go"
)

// Notifier publishes a JSON event once a preview has been stored.
type Notifier interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// NewNotifier builds the Notifier selected by notifications.provider. An
// empty provider yields a no-op notifier.
func NewNotifier(ctx context.Context, config *Config) (Notifier, error) {
	n := config.Notifications
	switch n.Provider {
	case NotificationProviderNone:
		return NoopNotifier{}, nil
	case NotificationProviderPubSub:
		return NewPubSubNotifier(ctx, n.ProjectId, n.Topic)
	case NotificationProviderKafka:
		return NewKafkaNotifier(n.Brokers, n.Topic)
	default:
		return nil, fmt.Errorf("unknown notification provider: %s", n.Provider)
	}
}

// NoopNotifier drops every event.
type NoopNotifier struct{}

func (NoopNotifier) Publish(_ context.Context, key string, _ any) error {
	slog.Debug("notifications disabled, dropping event", "key", key)
	return nil
}

func (NoopNotifier) Close() error { return nil }

// PubSubNotifier publishes events to a Pub/Sub topic. The key is sent as
// the "key" attribute.
type PubSubNotifier struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func NewPubSubNotifier(ctx context.Context, projectID, topicID string) (*PubSubNotifier, error) {
	if topicID == "" {
		return nil, fmt.Errorf("pubsub notifications need a topic")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return &PubSubNotifier{client: client, topic: client.Topic(topicID)}, nil
}

func (p *PubSubNotifier) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", key, err)
	}
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"key": key},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish event %s to %s: %w", key, p.topic.ID(), err)
	}
	return nil
}

func (p *PubSubNotifier) Close() error {
	p.topic.Stop()
	return p.client.Close()
}

// KafkaNotifier writes events to a Kafka topic, keyed by the event key.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) (*KafkaNotifier, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, fmt.Errorf("kafka notifications need brokers and a topic")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	slog.Info("kafka notifier configured", "brokers", strings.Join(brokers, ","), "topic", topic)
	return &KafkaNotifier{writer: writer}, nil
}

func (k *KafkaNotifier) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", key, err)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event %s to kafka topic %s: %w", key, k.writer.Topic, err)
	}
	return nil
}

func (k *KafkaNotifier) Close() error {
	return k.writer.Close()
}
