package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// LEARNING_ADDR targets a running server; when empty the suite starts one in-process
	LearningAddr string `envconfig:"LEARNING_ADDR"`
	// E2E_DEBUG_JSON allows dumping full gRPC request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
