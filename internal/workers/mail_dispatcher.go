package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/mailer"
	"github.com/MKhiriev/go-storefront/models"
)

var (
	// ErrMailQueueFull is returned by [MailDispatcher.Send] when the queue
	// has no free slot; the email is dropped.
	ErrMailQueueFull = errors.New("mail queue is full")
	// ErrMailDispatcherStopped is returned by [MailDispatcher.Send] after
	// Shutdown.
	ErrMailDispatcherStopped = errors.New("mail dispatcher is stopped")
)

// sendTimeout bounds a single delivery attempt.
const sendTimeout = 30 * time.Second

type mailJob struct {
	ctx   context.Context
	email models.Email
}

// MailDispatcher is a [mailer.Mailer] that queues emails and delivers them
// through next on a fixed pool of goroutines, so request handlers never
// wait on SMTP.
type MailDispatcher struct {
	next    mailer.Mailer
	queue   chan mailJob
	workers int
	logger  *logger.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewMailDispatcher creates a dispatcher with a queue of queueSize emails
// and workers delivery goroutines. Both values are raised to 1 if smaller.
func NewMailDispatcher(next mailer.Mailer, queueSize, workers int, log *logger.Logger) *MailDispatcher {
	return &MailDispatcher{
		next:    next,
		queue:   make(chan mailJob, max(queueSize, 1)),
		workers: max(workers, 1),
		logger:  log,
	}
}

// Send enqueues email. It never blocks: a full queue drops the email and
// returns [ErrMailQueueFull].
func (d *MailDispatcher) Send(ctx context.Context, email models.Email) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrMailDispatcherStopped
	}

	// delivery outlives the request, the logger stays attached
	job := mailJob{ctx: context.WithoutCancel(ctx), email: email}

	select {
	case d.queue <- job:
		return nil
	default:
		logger.FromContext(ctx).Warn().
			Str("func", "*MailDispatcher.Send").
			Str("subject", email.Subject).
			Msg("mail queue is full, email dropped")
		return ErrMailQueueFull
	}
}

// Run starts the delivery goroutines.
func (d *MailDispatcher) Run(ctx context.Context) {
	d.logger.Info().Int("workers", d.workers).Int("queue_size", cap(d.queue)).Msg("starting mail dispatcher")

	for range d.workers {
		d.wg.Add(1)
		go d.loop()
	}
}

// Shutdown stops accepting emails and waits until the queued ones are
// delivered.
func (d *MailDispatcher) Shutdown() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info().Msg("mail dispatcher stopped")
}

func (d *MailDispatcher) loop() {
	defer d.wg.Done()

	for job := range d.queue {
		d.deliver(job)
	}
}

func (d *MailDispatcher) deliver(job mailJob) {
	ctx, cancel := context.WithTimeout(job.ctx, sendTimeout)
	defer cancel()

	if err := d.next.Send(ctx, job.email); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*MailDispatcher.deliver").
			Str("subject", job.email.Subject).
			Msg("failed to deliver email")
	}
}
