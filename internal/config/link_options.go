package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// PeerOptions maps a peripheral source index to its endpoint.
type PeerOptions struct {
	Source uint8  `mapstructure:"source"`
	URL    string `mapstructure:"url"`
}

// HTTPOptions configures the HTTP link.
type HTTPOptions struct {
	// Listen is the address a peripheral serves on.
	Listen string `mapstructure:"listen"`
	// Peers are the peripherals a central calls.
	Peers   []PeerOptions `mapstructure:"peers"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisOptions configures the Redis link.
type RedisOptions struct {
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	Prefix     string        `mapstructure:"prefix"`
	AckTimeout time.Duration `mapstructure:"ack_timeout"`
}

// HTTP decodes the link options for the HTTP link.
func (c *Config) HTTP() (HTTPOptions, error) {
	opts := HTTPOptions{
		Listen:  ":8080",
		Timeout: 2 * time.Second,
	}
	if err := decode(c.Link.Options, &opts); err != nil {
		return HTTPOptions{}, fmt.Errorf("invalid http link options: %w", err)
	}
	return opts, nil
}

// Redis decodes the link options for the Redis link.
func (c *Config) Redis() (RedisOptions, error) {
	opts := RedisOptions{
		Addr:       "localhost:6379",
		Prefix:     "layerdisplay:",
		AckTimeout: 2 * time.Second,
	}
	if err := decode(c.Link.Options, &opts); err != nil {
		return RedisOptions{}, fmt.Errorf("invalid redis link options: %w", err)
	}
	// BLPOP treats a zero timeout as "wait forever".
	if opts.AckTimeout <= 0 {
		return RedisOptions{}, fmt.Errorf("invalid redis link options: ack_timeout %s must be positive", opts.AckTimeout)
	}
	return opts, nil
}

func decode(input map[string]any, out any) error {
	if len(input) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
