package config

const (
	defaultAppRoot          = "~/.local/share/frigatectl"
	defaultLogDir           = "~/.local/share/frigatectl/logs"
	defaultRepoURL          = "https://github.com/memryx/frigate.git"
	defaultRepoBranch       = "memryx"
	defaultPinnedVersion    = "0.17-0"
	defaultCloneTimeout     = 600
	defaultContainerName    = "frigate"
	defaultContainerImage   = "frigate-memryx:latest"
	defaultShmSize          = "256m"
	defaultBuildTimeout     = 3600
	defaultOpTimeout        = 120
	defaultInstallTimeout   = 1200
	defaultKeyringURL       = "https://download.docker.com/linux/ubuntu/gpg"
	defaultKeyringPath      = "/etc/apt/keyrings/docker.gpg"
	defaultRepoListPath     = "/etc/apt/sources.list.d/docker.list"
	defaultDeviceGlob       = "/dev/memx*"
	defaultDeviceExclude    = "_feature"
	defaultPollInterval     = 5
	defaultCheckTimeout     = 8
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AppRoot: defaultAppRoot,
			LogDir:  defaultLogDir,
		},
		Repo: Repo{
			URL:           defaultRepoURL,
			Branch:        defaultRepoBranch,
			PinnedVersion: defaultPinnedVersion,
			CloneTimeout:  defaultCloneTimeout,
		},
		Container: Container{
			Name:  defaultContainerName,
			Image: defaultContainerImage,
			Ports: []string{
				"5000:5000",
				"8554:8554",
				"8555:8555/tcp",
				"8555:8555/udp",
			},
			Volumes: []string{
				"./config:/config",
				"./storage:/media/frigate",
				"/etc/localtime:/etc/localtime:ro",
			},
			Devices:      nil, // populated from the accelerator scan at run time
			ShmSize:      defaultShmSize,
			BuildTimeout: defaultBuildTimeout,
			OpTimeout:    defaultOpTimeout,
		},
		Packages: Packages{
			DockerPackages: []string{
				"docker-ce",
				"docker-ce-cli",
				"containerd.io",
				"docker-buildx-plugin",
				"docker-compose-plugin",
			},
			DriverPackages: []string{
				"memx-drivers",
				"memx-accl",
			},
			KeyringURL:     defaultKeyringURL,
			KeyringPath:    defaultKeyringPath,
			RepoListPath:   defaultRepoListPath,
			InstallTimeout: defaultInstallTimeout,
		},
		Devices: Devices{
			GlobPattern:      defaultDeviceGlob,
			ExcludeSubstring: defaultDeviceExclude,
		},
		Status: Status{
			PollInterval: defaultPollInterval,
			CheckTimeout: defaultCheckTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
