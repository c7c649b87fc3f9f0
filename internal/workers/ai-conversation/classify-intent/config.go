// internal/workers/ai-conversation/classify-intent/config.go
package classifyintent

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
