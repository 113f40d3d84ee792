package jobs

import (
	"context"
	"time"

	"github.com/agentdesk/leads-api/internal/service"
	"go.uber.org/zap"
)

// CounterReconcileJobName is the scheduler name of the counter reconcile job
const CounterReconcileJobName = "counter_reconcile"

// CounterReconciler rewrites agent lead counters that drifted from the leads table
type CounterReconciler interface {
	Reconcile(ctx context.Context) (service.ReconcileReport, error)
}

// CounterReconcileJob periodically repairs assigned_leads_count
type CounterReconcileJob struct {
	reconciler CounterReconciler
	logger     *zap.Logger
	timeout    time.Duration
}

func NewCounterReconcileJob(reconciler CounterReconciler, logger *zap.Logger, timeout time.Duration) *CounterReconcileJob {
	return &CounterReconcileJob{
		reconciler: reconciler,
		logger:     logger,
		timeout:    timeout,
	}
}

// Run executes one reconciliation pass bounded by the job timeout
func (j *CounterReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	report, err := j.reconciler.Reconcile(ctx)
	if err != nil {
		j.logger.Error("counter reconcile failed",
			zap.Error(err),
			zap.Int("corrected", report.Corrected),
			zap.Duration("duration", time.Since(start)))
		return
	}

	level := j.logger.Debug
	if report.Corrected > 0 || report.Skipped > 0 {
		level = j.logger.Info
	}
	level("counter reconcile completed",
		zap.Int("drifted", report.Checked),
		zap.Int("corrected", report.Corrected),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", time.Since(start)))
}

// Register adds the job to the scheduler under CounterReconcileJobName
func (j *CounterReconcileJob) Register(s *Scheduler, cronExpr string) error {
	return s.AddJob(CounterReconcileJobName, cronExpr, j.Run)
}
