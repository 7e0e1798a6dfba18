package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	AppRoot string `toml:"app_root"`
	LogDir  string `toml:"log_dir"`
}

// Repo contains the Frigate checkout settings.
type Repo struct {
	URL           string `toml:"url"`
	Branch        string `toml:"branch"`
	PinnedVersion string `toml:"pinned_version"`
	CloneTimeout  int    `toml:"clone_timeout"`
}

// Container contains the container engine settings for the Frigate instance.
type Container struct {
	Name         string   `toml:"name"`
	Image        string   `toml:"image"`
	Ports        []string `toml:"ports"`
	Volumes      []string `toml:"volumes"`
	Devices      []string `toml:"devices"`
	ShmSize      string   `toml:"shm_size"`
	BuildTimeout int      `toml:"build_timeout"`
	OpTimeout    int      `toml:"op_timeout"`
}

// Packages contains the apt package groups installed during setup.
type Packages struct {
	DockerPackages []string `toml:"docker_packages"`
	DriverPackages []string `toml:"driver_packages"`
	KeyringURL     string   `toml:"keyring_url"`
	KeyringPath    string   `toml:"keyring_path"`
	RepoListPath   string   `toml:"repo_list_path"`
	InstallTimeout int      `toml:"install_timeout"`
}

// Devices contains accelerator discovery settings.
type Devices struct {
	GlobPattern      string `toml:"glob_pattern"`
	ExcludeSubstring string `toml:"exclude_substring"`
}

// Status contains the poller timing settings.
type Status struct {
	PollInterval int `toml:"poll_interval"`
	CheckTimeout int `toml:"check_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all settings for frigatectl.
//
// Configuration sections by subsystem:
//   - Paths: application root and log directory
//   - Repo: Frigate repository remote, branch, and version pin
//   - Container: container name, image, and port/volume/device mappings
//   - Packages: apt package groups for the container engine and the driver
//   - Devices: accelerator device-node discovery pattern
//   - Status: poller interval and per-check timeout
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Repo      Repo      `toml:"repo"`
	Container Container `toml:"container"`
	Packages  Packages  `toml:"packages"`
	Devices   Devices   `toml:"devices"`
	Status    Status    `toml:"status"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/frigatectl/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("frigatectl.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the tool needs to operate.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.AppRoot, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FrigateDir returns the Frigate checkout directory under the app root.
func (c *Config) FrigateDir() string {
	return filepath.Join(c.Paths.AppRoot, "frigate")
}

// FrigateConfigDir returns the directory holding the generated Frigate config.
func (c *Config) FrigateConfigDir() string {
	return filepath.Join(c.FrigateDir(), "config")
}

// FrigateConfigPath returns the fixed path of the generated YAML document.
func (c *Config) FrigateConfigPath() string {
	return filepath.Join(c.FrigateConfigDir(), "config.yaml")
}

// VersionFilePath returns the path of the pinned-version file written during
// repository setup.
func (c *Config) VersionFilePath() string {
	return filepath.Join(c.Paths.AppRoot, "version")
}

// OnboardMarkerPath returns the path of the first-run onboarding marker.
func (c *Config) OnboardMarkerPath() string {
	return filepath.Join(c.Paths.AppRoot, ".onboarded")
}

// RunnerLockPath returns the lock file that serializes runner invocations.
func (c *Config) RunnerLockPath() string {
	return filepath.Join(c.Paths.LogDir, "frigatectl.lock")
}

// HistoryDBPath returns the operation journal database location.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.LogDir, "history.db")
}

// GitBinary returns the version-control executable name.
func (c *Config) GitBinary() string {
	return "git"
}

// DockerBinary returns the container engine executable name.
func (c *Config) DockerBinary() string {
	return "docker"
}

// AptGetBinary returns the package manager executable name.
func (c *Config) AptGetBinary() string {
	return "apt-get"
}

// CurlBinary returns the download tool executable name used for keyrings.
func (c *Config) CurlBinary() string {
	return "curl"
}

// GpgBinary returns the key tool executable name used for keyrings.
func (c *Config) GpgBinary() string {
	return "gpg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
