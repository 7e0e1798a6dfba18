package devices

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"frigatectl/internal/logging"
)

// HotplugEvent reports one accelerator appearing or disappearing.
type HotplugEvent struct {
	Device  string
	Added   bool
	Removed bool
}

// Monitor listens for udev netlink events on accelerator nodes so a status
// watcher can refresh immediately instead of waiting for the next poll.
type Monitor struct {
	prefix  string
	exclude string
	logger  *slog.Logger
	handler func(HotplugEvent)

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewMonitor creates a monitor for device nodes whose base name starts with
// prefix. A nil handler disables the monitor.
func NewMonitor(prefix, exclude string, logger *slog.Logger, handler func(HotplugEvent)) *Monitor {
	if handler == nil || strings.TrimSpace(prefix) == "" {
		return nil
	}
	return &Monitor{
		prefix:  prefix,
		exclude: exclude,
		logger:  logging.NewComponentLogger(logger, "device-monitor"),
		handler: handler,
	}
}

// Start begins listening for netlink events. A failed socket connect is
// non-fatal; discovery falls back to polling alone.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("netlink socket unavailable; hotplug detection disabled",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"))
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.loop(ctx, quit)

	m.logger.Info("device monitor started",
		logging.String(logging.FieldEventType, "device_monitor_started"),
		logging.String("prefix", m.prefix))
	return nil
}

// Stop shuts the monitor down. Safe on a nil or unstarted monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) loop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, m.buildMatcher())
	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("device monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "device_monitor_error"))
		}
	}
}

func (m *Monitor) buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
	})
	return rules
}

func (m *Monitor) handleEvent(uevent netlink.UEvent) {
	devname := uevent.Env["DEVNAME"]
	if devname == "" {
		return
	}
	if !strings.HasPrefix(devname, "/") {
		devname = "/dev/" + devname
	}

	base := path.Base(devname)
	if !strings.HasPrefix(base, m.prefix) {
		return
	}
	if m.exclude != "" && strings.Contains(base, m.exclude) {
		return
	}

	event := HotplugEvent{
		Device:  devname,
		Added:   uevent.Action == netlink.ADD,
		Removed: uevent.Action == netlink.REMOVE,
	}
	if !event.Added && !event.Removed {
		return
	}

	m.logger.Info("accelerator hotplug",
		logging.String(logging.FieldEventType, "device_hotplug"),
		logging.String("device", devname),
		logging.String("action", string(uevent.Action)))
	m.handler(event)
}
