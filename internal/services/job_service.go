package services

import (
	"context"
	"time"

	"github.com/sjperalta/cobuy-api/internal/jobs"
)

// OverdueReminderJob names the overdue scan in worker statistics
const OverdueReminderJob = "overdue_reminders"

// JobService exposes the background worker and the jobs it runs
type JobService struct {
	worker     *jobs.Worker
	paymentSvc *PaymentService
}

func NewJobService(worker *jobs.Worker, paymentSvc *PaymentService) *JobService {
	return &JobService{
		worker:     worker,
		paymentSvc: paymentSvc,
	}
}

func (s *JobService) GetStatus() jobs.WorkerStats {
	return s.worker.GetStats()
}

// ScheduleOverdueReminders scans for overdue payments at startup and then
// every interval, evaluated at the wall clock of each run
func (s *JobService) ScheduleOverdueReminders(interval time.Duration) {
	s.worker.ScheduleEveryImmediate(OverdueReminderJob, interval, func(ctx context.Context) error {
		_, err := s.paymentSvc.CheckOverduePayments(ctx, time.Now())
		return err
	})
}

// RunOverdueReminders runs the overdue scan once at now and returns the
// number of notifications created
func (s *JobService) RunOverdueReminders(ctx context.Context, now time.Time) (int, error) {
	var sent int
	err := s.worker.Run(ctx, OverdueReminderJob, func(ctx context.Context) error {
		var err error
		sent, err = s.paymentSvc.CheckOverduePayments(ctx, now)
		return err
	})
	return sent, err
}
