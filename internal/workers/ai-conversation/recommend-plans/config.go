// internal/workers/ai-conversation/recommend-plans/config.go
package recommendplans

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
