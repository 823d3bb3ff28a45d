package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/queue"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/utils"
)

// ErrSendFailed makes the queue retry a mail the sender could not deliver
var ErrSendFailed = errors.New("email send failed")

var dailyBackoff = []time.Duration{time.Second, 5 * time.Second, 10 * time.Second}

// RegisterJobs adds the three commission mail jobs to server
func RegisterJobs(server *queue.Server, sales sale.SaleRepository, reports report.ReportService, sender notification.Sender) {
	server.Register(NewSaleCommissionJob(sales, sender))
	server.Register(NewDailySellerCommissionJob(reports, sender))
	server.Register(NewDailyAdminSummaryJob(reports, sender))
}

type SaleCommissionJob struct {
	sales  sale.SaleRepository
	sender notification.Sender
}

func NewSaleCommissionJob(sales sale.SaleRepository, sender notification.Sender) *SaleCommissionJob {
	return &SaleCommissionJob{sales: sales, sender: sender}
}

func (j *SaleCommissionJob) Type() string { return notification.TaskSaleCommission }

func (j *SaleCommissionJob) Policy() queue.Policy {
	return queue.Policy{MaxAttempts: 3, Backoff: []time.Duration{10 * time.Second}, Timeout: 60 * time.Second}
}

func (j *SaleCommissionJob) Handle(ctx context.Context, t queue.Task) error {
	var payload notification.SaleCommissionPayload
	if err := t.Decode(&payload); err != nil {
		return queue.Discard(err)
	}

	s, err := j.sales.GetByID(ctx, payload.SaleID)
	if errors.Is(err, sale.ErrSaleNotFound) {
		// deleted before the mail went out
		return queue.Discard(err)
	}
	if err != nil {
		return fmt.Errorf("load sale %d: %w", payload.SaleID, err)
	}

	if !j.sender.SendSaleCommission(ctx, s) {
		return fmt.Errorf("sale %d: %w", s.ID, ErrSendFailed)
	}
	return nil
}

func (j *SaleCommissionJob) Failed(ctx context.Context, t queue.Task, err error) {
	slog.ErrorContext(ctx, "Sale commission mail failed permanently", "task_id", t.ID, "payload", string(t.Payload), "error", err)
}

type DailySellerCommissionJob struct {
	reports report.ReportService
	sender  notification.Sender
}

func NewDailySellerCommissionJob(reports report.ReportService, sender notification.Sender) *DailySellerCommissionJob {
	return &DailySellerCommissionJob{reports: reports, sender: sender}
}

func (j *DailySellerCommissionJob) Type() string { return notification.TaskDailySellerCommission }

func (j *DailySellerCommissionJob) Policy() queue.Policy {
	return queue.Policy{MaxAttempts: 3, Backoff: dailyBackoff, Timeout: 120 * time.Second}
}

func (j *DailySellerCommissionJob) Handle(ctx context.Context, t queue.Task) error {
	var payload notification.DailySellerCommissionPayload
	if err := t.Decode(&payload); err != nil {
		return queue.Discard(err)
	}

	summary, err := j.reports.SellerDailySummary(ctx, payload.SellerID, payload.Date)
	if errors.Is(err, report.ErrInvalidArgument) || errors.Is(err, seller.ErrSellerNotFound) || errors.Is(err, utils.ErrInvalidDate) {
		return queue.Discard(err)
	}
	if err != nil {
		return fmt.Errorf("seller %d daily summary: %w", payload.SellerID, err)
	}

	if !j.sender.SendDailySellerCommission(ctx, summary) {
		return fmt.Errorf("seller %d on %s: %w", payload.SellerID, payload.Date, ErrSendFailed)
	}
	return nil
}

func (j *DailySellerCommissionJob) Failed(ctx context.Context, t queue.Task, err error) {
	slog.ErrorContext(ctx, "Daily seller commission mail failed permanently", "task_id", t.ID, "payload", string(t.Payload), "error", err)
}

type DailyAdminSummaryJob struct {
	reports report.ReportService
	sender  notification.Sender
}

func NewDailyAdminSummaryJob(reports report.ReportService, sender notification.Sender) *DailyAdminSummaryJob {
	return &DailyAdminSummaryJob{reports: reports, sender: sender}
}

func (j *DailyAdminSummaryJob) Type() string { return notification.TaskDailyAdminSummary }

func (j *DailyAdminSummaryJob) Policy() queue.Policy {
	return queue.Policy{MaxAttempts: 3, Backoff: dailyBackoff, Timeout: 60 * time.Second}
}

func (j *DailyAdminSummaryJob) Handle(ctx context.Context, t queue.Task) error {
	var payload notification.DailyAdminSummaryPayload
	if err := t.Decode(&payload); err != nil {
		return queue.Discard(err)
	}

	summary, err := j.reports.DailySalesSummary(ctx, payload.Date)
	if errors.Is(err, utils.ErrInvalidDate) {
		return queue.Discard(err)
	}
	if err != nil {
		return fmt.Errorf("daily sales summary: %w", err)
	}

	if !j.sender.SendDailyAdminSummary(ctx, payload.AdminEmail, summary) {
		return fmt.Errorf("admin summary on %s: %w", payload.Date, ErrSendFailed)
	}
	return nil
}

func (j *DailyAdminSummaryJob) Failed(ctx context.Context, t queue.Task, err error) {
	slog.ErrorContext(ctx, "Daily admin summary mail failed permanently", "task_id", t.ID, "unique_key", t.UniqueKey, "error", err)
}
