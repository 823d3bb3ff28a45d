package notification

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
)

// SaleCreatedTrigger queues the commission mail of every new sale. A failed
// enqueue is logged and never fails the sale.
type SaleCreatedTrigger struct {
	dispatcher notification.Dispatcher
}

func NewSaleCreatedTrigger(dispatcher notification.Dispatcher) *SaleCreatedTrigger {
	return &SaleCreatedTrigger{dispatcher: dispatcher}
}

func (t *SaleCreatedTrigger) SaleCreated(ctx context.Context, created sale.Sale) {
	if err := t.dispatcher.DispatchSaleCommission(context.WithoutCancel(ctx), created.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to queue sale commission mail", "sale_id", created.ID, "seller_id", created.SellerID, "error", err)
		return
	}
	slog.DebugContext(ctx, "Sale commission mail queued", "sale_id", created.ID)
}
