package queue

import "context"

type Publisher interface {
	Publish(ctx context.Context, exchange, key string, event any, reqID string) error
	Close() error
}

// NoopPub is used in tests and when no broker is configured.
type NoopPub struct{}

func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(ctx context.Context, exchange, key string, event any, reqID string) error {
	return nil
}
func (NoopPub) Close() error { return nil }
