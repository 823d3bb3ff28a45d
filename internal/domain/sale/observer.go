package sale

import (
	"context"
	"log/slog"
)

// Observer is told about every sale once it has been persisted
type Observer interface {
	SaleCreated(ctx context.Context, created Sale)
}

type ObserverFunc func(ctx context.Context, created Sale)

func (f ObserverFunc) SaleCreated(ctx context.Context, created Sale) {
	f(ctx, created)
}

// NotifyCreated calls each observer in turn. A panicking observer is logged
// and never reaches the caller.
func NotifyCreated(ctx context.Context, observers []Observer, created Sale) {
	for _, o := range observers {
		func() {
			defer func() {
				if p := recover(); p != nil {
					slog.Error("Sale observer panicked", "sale_id", created.ID, "panic", p)
				}
			}()
			o.SaleCreated(ctx, created)
		}()
	}
}
