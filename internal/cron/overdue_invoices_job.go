package cron

import (
	"context"
	"time"

	"github.com/dmorales-dev/tradeflow-backend/pkg/logger"
	"github.com/dmorales-dev/tradeflow-backend/pkg/metrics"
)

const overdueInvoicesJobName = "overdue-invoices"

// OverdueSweeper is the slice of the invoice service the job depends on.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, now time.Time) (int64, error)
}

// OverdueInvoicesJob flips past-due payable invoices to overdue.
type OverdueInvoicesJob struct {
	invoices OverdueSweeper
	logg     *logger.Logger
	metrics  *metrics.SweepJobMetrics
}

// NewOverdueInvoicesJob builds the sweep job.
func NewOverdueInvoicesJob(invoices OverdueSweeper, logg *logger.Logger, m *metrics.SweepJobMetrics) *OverdueInvoicesJob {
	return &OverdueInvoicesJob{invoices: invoices, logg: logg, metrics: m}
}

func (j *OverdueInvoicesJob) Name() string {
	return overdueInvoicesJobName
}

func (j *OverdueInvoicesJob) Run(ctx context.Context) error {
	affected, err := j.invoices.SweepOverdue(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if j.metrics != nil {
		j.metrics.AddAffected(overdueInvoicesJobName, affected)
	}
	if j.logg != nil {
		j.logg.Info(j.logg.WithField(ctx, "rows_affected", affected), "overdue sweep finished")
	}
	return nil
}
