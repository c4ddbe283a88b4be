package httpserver

import (
	"time"

	envconfig "github.com/dmitrymomot/ambient/pkg/config"
)

// Config holds listener settings for the serve command.
type Config struct {
	// Addr is the address the server listens on. Port 0 picks a free port.
	Addr string `env:"AMBIENT_HTTP_ADDR" envDefault:":8080"`
	// ReadTimeout bounds reading the whole request, body included.
	ReadTimeout  time.Duration `env:"AMBIENT_HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"AMBIENT_HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"AMBIENT_HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"AMBIENT_HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// LoadConfig reads Config from AMBIENT_HTTP_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig creates a Server from cfg. Zero values keep the defaults.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	configOpts := make([]Option, 0, 5+len(opts))

	if cfg.Addr != "" {
		configOpts = append(configOpts, WithAddr(cfg.Addr))
	}
	if cfg.ReadTimeout > 0 {
		configOpts = append(configOpts, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		configOpts = append(configOpts, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		configOpts = append(configOpts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}

	return New(append(configOpts, opts...)...)
}
