package store

import (
	"context"
	"log/slog"
)

// BestEffort wraps a KV so that storage failures never reach the caller.
//
// A failed Get is logged and reported as a missing key; a failed Set or
// Delete is logged and reported as success. The wrapped KV still receives
// every call.
type BestEffort struct {
	kv  KV
	log *slog.Logger
}

// NewBestEffort wraps kv. A nil logger uses slog.Default().
func NewBestEffort(kv KV, log *slog.Logger) *BestEffort {
	if log == nil {
		log = slog.Default()
	}
	return &BestEffort{kv: kv, log: log}
}

// Get returns the wrapped value, or ok=false if the read failed.
func (b *BestEffort) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := b.kv.Get(ctx, key)
	if err != nil {
		b.log.Warn("storage read failed", "key", key, "error", err)
		return "", false, nil
	}
	return value, ok, nil
}

// Set writes through, logging any failure.
func (b *BestEffort) Set(ctx context.Context, key, value string) error {
	if err := b.kv.Set(ctx, key, value); err != nil {
		b.log.Warn("storage write failed", "key", key, "error", err)
	}
	return nil
}

// Delete removes through, logging any failure.
func (b *BestEffort) Delete(ctx context.Context, key string) error {
	if err := b.kv.Delete(ctx, key); err != nil {
		b.log.Warn("storage delete failed", "key", key, "error", err)
	}
	return nil
}
