package notification

import (
	"context"
	"crypto/md5"
	"encoding/hex"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/queue"
)

type dispatcher struct {
	client *queue.Client
}

// NewDispatcher enqueues commission mails on client
func NewDispatcher(client *queue.Client) notification.Dispatcher {
	return &dispatcher{client: client}
}

func (d *dispatcher) DispatchSaleCommission(ctx context.Context, saleID int64) error {
	return d.enqueue(ctx, notification.TaskSaleCommission, notification.SaleCommissionPayload{SaleID: saleID}, "")
}

func (d *dispatcher) DispatchDailySellerCommission(ctx context.Context, sellerID int64, date string) error {
	return d.enqueue(ctx, notification.TaskDailySellerCommission, notification.DailySellerCommissionPayload{
		SellerID: sellerID,
		Date:     date,
	}, "")
}

// DispatchDailyAdminSummary enqueues at most one summary per date and
// address while an earlier one is still pending
func (d *dispatcher) DispatchDailyAdminSummary(ctx context.Context, date string, adminEmail string) error {
	return d.enqueue(ctx, notification.TaskDailyAdminSummary, notification.DailyAdminSummaryPayload{
		Date:       date,
		AdminEmail: adminEmail,
	}, AdminSummaryKey(date, adminEmail))
}

func (d *dispatcher) enqueue(ctx context.Context, taskType string, payload any, uniqueKey string) error {
	task, err := queue.NewTask(taskType, payload)
	if err != nil {
		return err
	}
	task.UniqueKey = uniqueKey
	return d.client.Enqueue(ctx, task)
}

// AdminSummaryKey identifies one admin summary: the date and the md5 of the
// recipient address
func AdminSummaryKey(date, adminEmail string) string {
	sum := md5.Sum([]byte(adminEmail))
	return date + "_" + hex.EncodeToString(sum[:])
}
