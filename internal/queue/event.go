// Package queue defines the thank-you job and the transports that carry it
// from the request path to the mailer: an in-process worker pool, RabbitMQ
// and a Redis list.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ThankYouJob asks for a thank-you email to be sent to a donor.  It carries
// everything the mailer needs so consumers never query the database.
type ThankYouJob struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Item      string    `json:"item"`
	CreatedAt time.Time `json:"created_at"`
}

// NewThankYouJob stamps a job with a fresh id and the current time.
func NewThankYouJob(email, item string) ThankYouJob {
	return ThankYouJob{
		ID:        uuid.NewString(),
		Email:     email,
		Item:      item,
		CreatedAt: time.Now().UTC(),
	}
}

// Handler processes one job.  Returning an error drops the job after it is
// logged; nothing is retried.
type Handler func(ctx context.Context, job ThankYouJob) error
