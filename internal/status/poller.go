package status

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"frigatectl/internal/logging"
)

// Poller takes snapshots on a fixed interval and hands each one to the
// handler. A tick that fires while the previous snapshot is still in flight
// is skipped, so a slow probe never stacks up concurrent check batteries.
type Poller struct {
	checker  *Checker
	interval time.Duration
	handler  func(Snapshot)
	logger   *slog.Logger

	mu       sync.Mutex
	running  bool
	inFlight bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewPoller creates a poller. A non-positive interval defaults to 5 seconds.
func NewPoller(checker *Checker, interval time.Duration, logger *slog.Logger, handler func(Snapshot)) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		checker:  checker,
		interval: interval,
		handler:  handler,
		logger:   logging.NewComponentLogger(logger, "status-poller"),
	}
}

// Start begins polling. The first snapshot is taken immediately.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("status poller already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true

	p.wg.Add(1)
	go p.loop(runCtx)
	return nil
}

// Stop halts polling and waits for an in-flight snapshot to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	p.running = false
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// Trigger requests an immediate snapshot outside the tick schedule, used by
// the hotplug monitor. Suppressed while another snapshot is in flight.
func (p *Poller) Trigger(ctx context.Context) {
	p.poll(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		p.logger.Debug("snapshot still in flight; skipping tick")
		return
	}
	p.inFlight = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	snap := p.checker.Snapshot(ctx)
	if p.handler != nil {
		p.handler(snap)
	}
}
