package backend

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BackendAPIURL     string `envconfig:"BACKEND_API_URL" required:"true"`
	BackendAPITimeout int    `envconfig:"BACKEND_API_TIMEOUT" default:"30"` // in seconds
}

func LoadConfig() (c *Config, err error) {
	c = &Config{}

	err = envconfig.Process("", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
