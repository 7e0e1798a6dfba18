package deps

import (
	"frigatectl/internal/config"
)

// CheckSystemDeps evaluates the external tools needed to install and manage
// the analytics stack. The setup and status commands share this list so the
// requirements live in one place.
func CheckSystemDeps(cfg *config.Config) []Status {
	requirements := []Requirement{
		{
			Name:        "git",
			Command:     cfg.GitBinary(),
			Description: "Required for fetching the build repository",
		},
		{
			Name:        "docker",
			Command:     cfg.DockerBinary(),
			Description: "Required for building and running the container",
		},
		{
			Name:        "apt-get",
			Command:     cfg.AptGetBinary(),
			Description: "Required for installing system packages",
		},
		{
			Name:        "curl",
			Command:     cfg.CurlBinary(),
			Description: "Required for downloading repository signing keys",
		},
		{
			Name:        "gpg",
			Command:     cfg.GpgBinary(),
			Description: "Required for installing repository signing keys",
		},
		{
			Name:        "sudo",
			Command:     "sudo",
			Description: "Required for privileged installation steps",
		},
		{
			Name:        "mosquitto_pub",
			Command:     "mosquitto_pub",
			Description: "Optional, used for manual MQTT debugging",
			Optional:    true,
		},
	}
	return CheckBinaries(requirements)
}
