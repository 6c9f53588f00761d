package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hstin/globegores/internal/gore"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 6, cfg.GoreCount())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"gore width 50", func(c *Config) { c.GoreWidth = 50 }, gore.ErrInvalidGoreWidth},
		{"gore width 10", func(c *Config) { c.GoreWidth = 10 }, gore.ErrInvalidGoreWidth},
		{"gore width 180", func(c *Config) { c.GoreWidth = 180 }, gore.ErrInvalidGoreWidth},
		{"negative pixels", func(c *Config) { c.PixelWidth = -10 }, gore.ErrInvalidPixelWidth},
		{"negative stroke", func(c *Config) { c.StrokeWidth = -1 }, ErrInvalidStroke},
		{"no workers", func(c *Config) { c.NumWorkers = 0 }, ErrInvalidWorkers},
		{"quality", func(c *Config) { c.Quality = 101 }, ErrInvalidQuality},
		{"jpeg output", func(c *Config) { c.OutputFile = "globe.jpg" }, ErrInvalidOutput},
		{"webp output", func(c *Config) { c.OutputFile = "out/Globe.WEBP" }, nil},
		{"zero pixels", func(c *Config) { c.PixelWidth = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
