package mail

import (
	"context"
	"errors"
	"log/slog"
	netmail "net/mail"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/uaa/pkg/idx"
	"github.com/aussiebroadwan/uaa/pkg/slogx"
)

// DefaultFallbackSender is used when neither From nor FallbackSender is a
// valid address.
const DefaultFallbackSender = "noreply@localhost"

// Config tunes a Dispatcher. Zero values take defaults.
type Config struct {
	// From is the sender address. Invalid or empty falls back to
	// FallbackSender.
	From           string
	FallbackSender string

	// Workers defaults to 2.
	Workers int

	// EnqueueTimeout bounds a remote queue push. Default 500ms.
	EnqueueTimeout time.Duration

	// HandoffSize is the local buffer between Send and a queue other than
	// MemoryQueue. Default 64.
	HandoffSize int

	// SendTimeout bounds one provider call. Default 30s.
	SendTimeout time.Duration
}

// Dispatcher accepts mail requests without blocking and delivers them from
// a fixed pool of workers. Jobs for a remote queue pass through a local
// handoff buffer so Send never waits on the network.
type Dispatcher struct {
	queue    Queue
	renderer *Renderer
	provider Provider
	metrics  *Metrics
	logger   *slog.Logger

	sender         string
	workers        int
	enqueueTimeout time.Duration
	sendTimeout    time.Duration

	handoff     chan Job // nil for MemoryQueue
	stopForward chan struct{}
	forwardWG   sync.WaitGroup
	stopped     atomic.Bool

	wg       sync.WaitGroup
	cancel   context.CancelFunc
	startOne sync.Once
	stopOne  sync.Once
}

func NewDispatcher(cfg Config, q Queue, r *Renderer, p Provider, m *Metrics, logger *slog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 500 * time.Millisecond
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}
	if cfg.HandoffSize <= 0 {
		cfg.HandoffSize = 64
	}
	if m == nil {
		m = NewMetrics(nil)
	}
	if logger == nil {
		logger = slogx.Discard()
	}

	d := &Dispatcher{
		queue:          q,
		renderer:       r,
		provider:       p,
		metrics:        m,
		logger:         logger,
		sender:         ResolveSender(cfg.From, cfg.FallbackSender),
		workers:        cfg.Workers,
		enqueueTimeout: cfg.EnqueueTimeout,
		sendTimeout:    cfg.SendTimeout,
		stopForward:    make(chan struct{}),
	}
	if _, local := q.(*MemoryQueue); !local {
		d.handoff = make(chan Job, cfg.HandoffSize)
	}
	return d
}

// ResolveSender returns from when it parses as an address, else fallback,
// else DefaultFallbackSender.
func ResolveSender(from, fallback string) string {
	for _, candidate := range []string{from, fallback} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if _, err := netmail.ParseAddress(candidate); err == nil {
			return candidate
		}
	}
	return DefaultFallbackSender
}

// Sender is the resolved sender address.
func (d *Dispatcher) Sender() string { return d.sender }

// Start launches the workers.
func (d *Dispatcher) Start() {
	d.startOne.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		d.cancel = cancel
		if d.handoff != nil {
			d.forwardWG.Add(1)
			go d.forward()
		}
		for i := range d.workers {
			d.wg.Add(1)
			go d.work(ctx, i)
		}
		d.logger.Info("mail dispatcher started", "workers", d.workers, "sender", d.sender)
	})
}

// Stop flushes the handoff buffer, closes the queue and lets the workers
// drain it until ctx is done, at which point in-flight sends are cancelled.
func (d *Dispatcher) Stop(ctx context.Context) error {
	var err error
	d.stopOne.Do(func() {
		d.stopped.Store(true)
		close(d.stopForward)

		flushed := make(chan struct{})
		go func() {
			d.forwardWG.Wait()
			close(flushed)
		}()
		select {
		case <-flushed:
		case <-ctx.Done():
			d.logger.Warn("mail handoff flush interrupted", "error", ctx.Err())
		}

		_ = d.queue.Close()

		done := make(chan struct{})
		go func() {
			d.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
			d.logger.Warn("mail dispatcher drain interrupted", "error", err)
		}
		if d.cancel != nil {
			d.cancel()
		}
		<-done
		d.logger.Info("mail dispatcher stopped")
	})
	return err
}

// Send queues a templated mail for u. It never blocks on delivery and never
// fails: a user without an email is skipped, a full queue drops the mail.
func (d *Dispatcher) Send(ctx context.Context, template, titleKey string, u User, baseURL string) {
	l := slogx.FromContext(ctx)

	if strings.TrimSpace(u.Email) == "" {
		l.Debug("user has no email, mail skipped", "login", u.Login, "template", template)
		return
	}

	job := Job{
		ID:         idx.New().String(),
		Template:   template,
		TitleKey:   titleKey,
		User:       u,
		BaseURL:    baseURL,
		EnqueuedAt: time.Now().UTC(),
	}

	if d.stopped.Load() {
		d.metrics.Dropped.Inc()
		l.Warn("mail dispatcher stopped, mail dropped", "job_id", job.ID, "template", template)
		return
	}

	if d.handoff == nil {
		d.enqueue(ctx, l, job)
		return
	}

	select {
	case d.handoff <- job:
		l.Debug("mail handed off", "job_id", job.ID, "template", template)
	default:
		d.metrics.Dropped.Inc()
		l.Warn("mail handoff full, mail dropped", "job_id", job.ID, "template", template)
	}
}

// enqueue pushes job onto the queue and records the outcome.
func (d *Dispatcher) enqueue(ctx context.Context, l *slog.Logger, job Job) {
	ectx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.enqueueTimeout)
	defer cancel()

	err := d.queue.Enqueue(ectx, job)
	switch {
	case err == nil:
		d.metrics.Queued.Inc()
		l.Debug("mail queued", "job_id", job.ID, "template", job.Template)
	case errors.Is(err, ErrQueueFull):
		d.metrics.Dropped.Inc()
		l.Warn("mail queue full, mail dropped", "job_id", job.ID, "template", job.Template)
	default:
		d.metrics.Dropped.Inc()
		l.Error("failed to queue mail, mail dropped", "job_id", job.ID, "template", job.Template, "error", err)
	}
}

// forward moves handed off jobs onto the queue until Stop, then flushes
// whatever is still buffered.
func (d *Dispatcher) forward() {
	defer d.forwardWG.Done()
	ctx := slogx.WithContext(context.Background(), d.logger)

	for {
		select {
		case job := <-d.handoff:
			d.enqueue(ctx, d.logger, job)
		case <-d.stopForward:
			for {
				select {
				case job := <-d.handoff:
					d.enqueue(ctx, d.logger, job)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) SendActivationEmail(ctx context.Context, u User, baseURL string) {
	d.Send(ctx, TemplateActivation, TitleActivation, u, baseURL)
}

func (d *Dispatcher) SendCreationEmail(ctx context.Context, u User, baseURL string) {
	d.Send(ctx, TemplateCreation, TitleActivation, u, baseURL)
}

func (d *Dispatcher) SendPasswordResetMail(ctx context.Context, u User, baseURL string) {
	d.Send(ctx, TemplatePasswordReset, TitleReset, u, baseURL)
}

func (d *Dispatcher) work(ctx context.Context, n int) {
	defer d.wg.Done()
	l := d.logger.With("worker", n)

	for {
		job, err := d.queue.Dequeue(ctx)
		switch {
		case err == nil:
			d.deliver(ctx, l, job)
		case errors.Is(err, ErrQueueClosed), ctx.Err() != nil:
			return
		default:
			l.Error("failed to dequeue mail", "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
		}
	}
}

// deliver renders and sends one job. Failures are logged and counted,
// never retried.
func (d *Dispatcher) deliver(ctx context.Context, l *slog.Logger, job Job) {
	l = l.With("job_id", job.ID, "template", job.Template)

	subject, body, err := d.renderer.Render(job)
	if err != nil {
		d.metrics.Failed.Inc()
		l.Error("failed to render mail", "error", err)
		return
	}

	sctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	err = d.provider.Send(sctx, Message{
		From:    d.sender,
		To:      job.User.Email,
		ToName:  strings.TrimSpace(job.User.FirstName + " " + job.User.LastName),
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		d.metrics.Failed.Inc()
		l.Error("failed to send mail", "error", err)
		return
	}

	d.metrics.Sent.Inc()
	l.Debug("mail sent", "queued_for", time.Since(job.EnqueuedAt))
}
