package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/biblioteca-doacoes/internal/mail"
	"github.com/iliyamo/biblioteca-doacoes/internal/queue"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (f *fakeSender) Send(_ context.Context, m mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return nil
}

func TestQueueNotifierDeliversThroughPool(t *testing.T) {
	sender := &fakeSender{}
	pool := queue.NewPool(1, 4, time.Second, MailDelivery(sender), nil)
	n := NewQueueNotifier(pool)

	if err := n.SendThankYou(context.Background(), "ana@x.com", "1984 <edição>"); err != nil {
		t.Fatalf("SendThankYou failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 {
		t.Fatalf("Expected one message, got %d", len(sender.sent))
	}
	m := sender.sent[0]
	if m.To != "ana@x.com" || m.Subject != mail.ThankYouSubject {
		t.Errorf("Unexpected message header: %+v", m)
	}
	if !strings.Contains(m.HTML, "1984 &lt;edição&gt;") {
		t.Errorf("Expected escaped item in body, got %s", m.HTML)
	}
}

type refusingQueue struct{}

func (refusingQueue) Enqueue(queue.ThankYouJob) error { return queue.ErrQueueFull }

func TestQueueNotifierReportsFullQueue(t *testing.T) {
	err := NewQueueNotifier(refusingQueue{}).SendThankYou(context.Background(), "ana@x.com", "1984")
	if !errors.Is(err, queue.ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}
}
