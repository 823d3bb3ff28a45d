package cron

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
)

const DailyCommissionMailsJob = "daily_commission_mails"

type CommissionJobs struct {
	sellerService seller.SellerService
}

func NewCommissionJobs(sellerService seller.SellerService) *CommissionJobs {
	return &CommissionJobs{sellerService: sellerService}
}

// RegisterJobs schedules the end of day mails, normally DailyAt(23, 59, loc)
func (j *CommissionJobs) RegisterJobs(scheduler *Scheduler, schedule Schedule) {
	scheduler.AddJob(DailyCommissionMailsJob, schedule, j.SendDailyCommissionMails)
}

// SendDailyCommissionMails queues today's seller digests and admin summary
func (j *CommissionJobs) SendDailyCommissionMails(ctx context.Context) error {
	slog.Info("Cron: Starting daily commission mails job")

	result, err := j.sellerService.RunDailyMails(ctx, "")
	if err != nil {
		return err
	}

	slog.Info("Cron: Daily commission mails queued",
		"date", result.Date,
		"sellers_count", result.SellersCount,
		"admin_summary", result.AdminEmail != nil,
	)
	return nil
}
