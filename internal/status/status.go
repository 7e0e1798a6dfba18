// Package status gathers the observable state of the installation: container
// status, accelerator count, configuration health, tool availability, and
// broker reachability. Checks are isolated so one slow or failing probe never
// hides the others.
package status

import (
	"context"
	"errors"
	"time"

	"frigatectl/internal/config"
	"frigatectl/internal/deps"
	"frigatectl/internal/frigate"
	"frigatectl/internal/services"
	"frigatectl/internal/services/docker"
)

// Snapshot is one point-in-time reading. Every probe records its own error;
// a failed probe leaves the other fields valid.
type Snapshot struct {
	TakenAt time.Time

	Container    docker.ContainerState
	ContainerErr error

	DeviceCount int
	DevicesErr  error

	ConfigPresent bool
	ConfigValid   bool
	ConfigErr     error

	MissingDeps []string

	BrokerChecked bool
	BrokerErr     error
}

// Healthy reports whether everything a running installation needs is in
// place.
func (s Snapshot) Healthy() bool {
	return s.ContainerErr == nil && s.Container.Running() &&
		s.DevicesErr == nil && s.DeviceCount > 0 &&
		s.ConfigPresent && s.ConfigValid &&
		len(s.MissingDeps) == 0 &&
		(!s.BrokerChecked || s.BrokerErr == nil)
}

// ContainerInspector reports the engine state of a named container.
type ContainerInspector interface {
	State(ctx context.Context, name string) (docker.ContainerState, error)
}

// DeviceCounter reports the number of usable accelerator nodes.
type DeviceCounter interface {
	Count() (int, error)
}

// Checker runs the probe battery.
type Checker struct {
	cfg     *config.Config
	docker  ContainerInspector
	scanner DeviceCounter
	store   *frigate.Store
	timeout time.Duration

	brokerProbe func(host string, port int, timeout time.Duration) error
}

// NewChecker creates a checker using the configured probe timeout.
func NewChecker(cfg *config.Config, dockerClient ContainerInspector, scanner DeviceCounter, store *frigate.Store) *Checker {
	timeout := time.Duration(cfg.Status.CheckTimeout) * time.Second
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Checker{
		cfg:         cfg,
		docker:      dockerClient,
		scanner:     scanner,
		store:       store,
		timeout:     timeout,
		brokerProbe: CheckBroker,
	}
}

// Snapshot runs every probe and returns the combined reading.
func (c *Checker) Snapshot(ctx context.Context) Snapshot {
	snap := Snapshot{TakenAt: time.Now()}

	snap.Container, snap.ContainerErr = c.containerState(ctx)
	snap.DeviceCount, snap.DevicesErr = c.scanner.Count()
	snap.MissingDeps = deps.MissingRequired(deps.CheckSystemDeps(c.cfg))

	cfg, err := c.store.Load()
	switch {
	case err == nil:
		snap.ConfigPresent = true
		if verr := cfg.Validate(); verr != nil {
			snap.ConfigErr = verr
		} else {
			snap.ConfigValid = true
		}
	case errors.Is(err, services.ErrNotFound):
		// Absent config is reported through ConfigPresent, not as an error.
	default:
		snap.ConfigErr = err
	}

	if snap.ConfigValid && cfg.MQTT.Enabled {
		snap.BrokerChecked = true
		snap.BrokerErr = c.brokerProbe(cfg.MQTT.Host, cfg.MQTT.Port, c.timeout)
	}

	return snap
}

func (c *Checker) containerState(ctx context.Context) (docker.ContainerState, error) {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.docker.State(probeCtx, c.cfg.Container.Name)
}
