package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRepo()
	c.normalizeContainer()
	c.normalizePackages()
	c.normalizeDevices()
	c.normalizeStatus()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.AppRoot) == "" {
		c.Paths.AppRoot = defaultAppRoot
	}
	if c.Paths.AppRoot, err = expandPath(c.Paths.AppRoot); err != nil {
		return fmt.Errorf("paths.app_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRepo() {
	c.Repo.URL = strings.TrimSpace(c.Repo.URL)
	c.Repo.Branch = strings.TrimSpace(c.Repo.Branch)
	c.Repo.PinnedVersion = strings.TrimSpace(c.Repo.PinnedVersion)
	if c.Repo.PinnedVersion == "" {
		c.Repo.PinnedVersion = defaultPinnedVersion
	}
	if c.Repo.CloneTimeout <= 0 {
		c.Repo.CloneTimeout = defaultCloneTimeout
	}
}

func (c *Config) normalizeContainer() {
	c.Container.Name = strings.TrimSpace(c.Container.Name)
	c.Container.Image = strings.TrimSpace(c.Container.Image)
	if strings.TrimSpace(c.Container.ShmSize) == "" {
		c.Container.ShmSize = defaultShmSize
	}
	if c.Container.BuildTimeout <= 0 {
		c.Container.BuildTimeout = defaultBuildTimeout
	}
	if c.Container.OpTimeout <= 0 {
		c.Container.OpTimeout = defaultOpTimeout
	}
}

func (c *Config) normalizePackages() {
	c.Packages.KeyringURL = strings.TrimSpace(c.Packages.KeyringURL)
	c.Packages.KeyringPath = strings.TrimSpace(c.Packages.KeyringPath)
	c.Packages.RepoListPath = strings.TrimSpace(c.Packages.RepoListPath)
	if c.Packages.InstallTimeout <= 0 {
		c.Packages.InstallTimeout = defaultInstallTimeout
	}
}

func (c *Config) normalizeDevices() {
	if strings.TrimSpace(c.Devices.GlobPattern) == "" {
		c.Devices.GlobPattern = defaultDeviceGlob
	}
	if strings.TrimSpace(c.Devices.ExcludeSubstring) == "" {
		c.Devices.ExcludeSubstring = defaultDeviceExclude
	}
}

func (c *Config) normalizeStatus() {
	if c.Status.PollInterval <= 0 {
		c.Status.PollInterval = defaultPollInterval
	}
	if c.Status.CheckTimeout <= 0 {
		c.Status.CheckTimeout = defaultCheckTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
