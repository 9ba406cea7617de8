package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/biblioteca-doacoes/internal/mail"
	"github.com/iliyamo/biblioteca-doacoes/internal/queue"
)

// Notifier schedules a thank-you message for a donor.  Implementations
// must not block on delivery.
type Notifier interface {
	SendThankYou(ctx context.Context, email, item string) error
}

// Enqueuer accepts jobs without blocking.  *queue.Pool satisfies it.
type Enqueuer interface {
	Enqueue(job queue.ThankYouJob) error
}

// QueueNotifier turns thank-you requests into queue jobs.
type QueueNotifier struct {
	q Enqueuer
}

func NewQueueNotifier(q Enqueuer) *QueueNotifier { return &QueueNotifier{q: q} }

// SendThankYou builds a job and enqueues it.  ctx is unused; the job runs
// on the worker's own context.
func (n *QueueNotifier) SendThankYou(_ context.Context, email, item string) error {
	job := queue.NewThankYouJob(email, item)
	if err := n.q.Enqueue(job); err != nil {
		return fmt.Errorf("enqueue thank-you %s: %w", job.ID, err)
	}
	return nil
}

// MailDelivery returns a queue handler that composes the thank-you email
// and sends it with s.
func MailDelivery(s mail.Sender) queue.Handler {
	return func(ctx context.Context, job queue.ThankYouJob) error {
		m, err := mail.ComposeThankYou(job.Email, job.Item)
		if err != nil {
			return err
		}
		return s.Send(ctx, m)
	}
}
