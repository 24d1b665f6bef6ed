package redis

import "time"

// Config holds connection tuning for Open.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"4"`
	ConnectAttempts uint64        `env:"REDIS_CONNECT_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"1s"`
	DialTimeout     time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	IOTimeout       time.Duration `env:"REDIS_IO_TIMEOUT" envDefault:"3s"`
}

// Options converts cfg into Open options. Zero fields keep the defaults.
func (c Config) Options() []Option {
	var opts []Option
	if c.PoolSize > 0 {
		opts = append(opts, WithPoolSize(c.PoolSize))
	}
	if c.ConnectAttempts > 0 {
		opts = append(opts, WithRetry(c.ConnectAttempts, c.RetryInterval))
	}
	if c.DialTimeout > 0 && c.IOTimeout > 0 {
		opts = append(opts, WithTimeouts(c.DialTimeout, c.IOTimeout))
	}
	return opts
}
