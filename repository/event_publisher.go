package repository

import (
	"context"

	"msme-risk/domain"
)

type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// NoopPublisher drops events. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...domain.Event) error { return nil }
