package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"frigatectl/internal/config"
	"frigatectl/internal/devices"
	"frigatectl/internal/frigate"
	"frigatectl/internal/history"
	"frigatectl/internal/logging"
	"frigatectl/internal/ops"
	"frigatectl/internal/runner"
	"frigatectl/internal/services/apt"
	"frigatectl/internal/services/docker"
	"frigatectl/internal/services/git"
	"frigatectl/internal/setup"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	storeOnce sync.Once
	store     *frigate.Store
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// newLogger builds the structured logger from the loaded configuration. A
// broken logging setup falls back to a no-op logger rather than blocking the
// command.
func (c *commandContext) newLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg := c.configValue()
		if cfg == nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "frigatectl.log")},
		})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) configStore() *frigate.Store {
	c.storeOnce.Do(func() {
		c.store = frigate.NewStore(c.configValue().FrigateConfigPath())
	})
	return c.store
}

func (c *commandContext) dockerClient() *docker.Client {
	return docker.NewClient(c.configValue().DockerBinary(), nil)
}

func (c *commandContext) scanner() *devices.Scanner {
	cfg := c.configValue()
	return devices.NewScanner(cfg.Devices.GlobPattern, cfg.Devices.ExcludeSubstring)
}

func (c *commandContext) markers() *setup.Markers {
	cfg := c.configValue()
	return setup.NewMarkers(cfg.VersionFilePath(), cfg.OnboardMarkerPath())
}

func (c *commandContext) opsBuilder() *ops.Builder {
	cfg := c.configValue()
	return ops.NewBuilder(ops.Deps{
		Cfg:     cfg,
		Docker:  c.dockerClient(),
		Git:     git.NewClient(cfg.GitBinary(), nil),
		Apt:     apt.NewClient(cfg.AptGetBinary(), nil),
		Scanner: c.scanner(),
		Store:   c.configStore(),
		Markers: c.markers(),
	})
}

// newRunner wires a runner with the host-wide guard and the journal. The
// journal is best-effort; a broken database does not block operations.
func (c *commandContext) newRunner() (*runner.Runner, func()) {
	cfg := c.configValue()
	opts := runner.Options{
		Guard:  runner.NewGuard(cfg.RunnerLockPath()),
		Logger: c.newLogger(),
	}

	cleanup := func() {}
	if journal, err := history.Open(cfg.HistoryDBPath()); err == nil {
		opts.Journal = journal
		cleanup = func() {
			_ = journal.Close()
		}
	} else {
		c.newLogger().Warn("operation journal unavailable", logging.Error(err))
	}
	return runner.New(opts), cleanup
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
