package config

import (
	"lendpool/core"

	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file, env vars prefixed with LENDPOOL override it
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("LENDPOOL")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaultConfig(config)
	return nil
}

func defaultConfig(config *core.Config) {
	if config.App.Location == "" {
		config.App.Location = "UTC"
	}

	if config.App.Endpoint == "" {
		config.App.Endpoint = "http://localhost:9000"
	}

	if config.Auth.Issuer == "" {
		config.Auth.Issuer = "lendpool"
	}

	if config.Auth.Capacity <= 0 {
		config.Auth.Capacity = 1024
	}
}
