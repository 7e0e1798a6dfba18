package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRepo(); err != nil {
		return err
	}
	if err := c.validateContainer(); err != nil {
		return err
	}
	if err := c.validatePackages(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRepo() error {
	if c.Repo.URL == "" {
		return errors.New("repo.url must be set")
	}
	if c.Repo.Branch == "" {
		return errors.New("repo.branch must be set")
	}
	return nil
}

func (c *Config) validateContainer() error {
	if c.Container.Name == "" {
		return errors.New("container.name must be set")
	}
	if c.Container.Image == "" {
		return errors.New("container.image must be set")
	}
	for _, mapping := range c.Container.Ports {
		if !strings.Contains(mapping, ":") {
			return fmt.Errorf("container.ports entry %q must be host:container", mapping)
		}
	}
	for _, mapping := range c.Container.Volumes {
		if !strings.Contains(mapping, ":") {
			return fmt.Errorf("container.volumes entry %q must be host:container", mapping)
		}
	}
	return nil
}

func (c *Config) validatePackages() error {
	if len(c.Packages.DockerPackages) == 0 {
		return errors.New("packages.docker_packages must not be empty")
	}
	if len(c.Packages.DriverPackages) == 0 {
		return errors.New("packages.driver_packages must not be empty")
	}
	if c.Packages.KeyringURL == "" {
		return errors.New("packages.keyring_url must be set")
	}
	if !strings.HasPrefix(c.Packages.KeyringPath, "/") {
		return fmt.Errorf("packages.keyring_path must be an absolute path, got %q", c.Packages.KeyringPath)
	}
	if !strings.HasPrefix(c.Packages.RepoListPath, "/") {
		return fmt.Errorf("packages.repo_list_path must be an absolute path, got %q", c.Packages.RepoListPath)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
