package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/masterclass-hub/backend/internal/notify"
	"github.com/masterclass-hub/backend/pkg/queue"
)

// NotifyProcessor drains the notification queue and delivers each job to
// Mattermost, retrying through the queue on failure.
type NotifyProcessor struct {
	queue      *queue.Queue
	mattermost *notify.Mattermost
	logger     *zap.Logger
}

// NewNotifyProcessor creates a notification worker.
func NewNotifyProcessor(q *queue.Queue, mm *notify.Mattermost, logger *zap.Logger) *NotifyProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifyProcessor{queue: q, mattermost: mm, logger: logger}
}

// Run blocks processing jobs until ctx is cancelled.
func (p *NotifyProcessor) Run(ctx context.Context) {
	p.logger.Info("notification worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := p.process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.Error(err),
				zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
			if err := p.queue.Retry(ctx, job); err != nil {
				p.logger.Error("retry failed", zap.Error(err), zap.String("job_id", job.ID))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
		p.logger.Info("job processed", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
	}
}

func (p *NotifyProcessor) process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeSubmissionNotify:
		var payload queue.SubmissionNotifyPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return err
		}
		msg := notify.SubmissionMessage(payload.Title, payload.Duration, payload.Email)
		return p.mattermost.Send(ctx, msg)
	default:
		p.logger.Warn("unknown job type dropped", zap.String("type", string(job.Type)))
		return nil
	}
}
