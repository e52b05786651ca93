// Package config loads the booth configuration from TOML or YAML.
//
// The file extension selects the codec: ".toml" is decoded with
// BurntSushi/toml, ".yaml" and ".yml" with yaml.v3. An empty path yields
// [Default]. Command-line flags override loaded values.
//
//	[canvas]
//	width = 600
//	height = 900
//
//	[booth]
//	frame = 9
//	countdown = 5
//	capture_dir = "/var/spool/booth"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/photobooth/pkg/camera"
	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/frame"
)

// Config is the complete booth configuration.
type Config struct {
	Canvas Canvas `toml:"canvas" yaml:"canvas"`
	Booth  Booth  `toml:"booth" yaml:"booth"`
	Server Server `toml:"server" yaml:"server"`
	Cache  Cache  `toml:"cache" yaml:"cache"`
}

// Canvas is the portrait render size; landscape frames use the transpose.
type Canvas struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

// Booth holds session defaults.
type Booth struct {
	Frame      int      `toml:"frame" yaml:"frame"`
	Countdown  int      `toml:"countdown" yaml:"countdown"`
	CaptureDir string   `toml:"capture_dir" yaml:"capture_dir"`
	Debounce   Duration `toml:"debounce" yaml:"debounce"`
}

// Server configures the kiosk HTTP service.
type Server struct {
	Addr           string   `toml:"addr" yaml:"addr"`
	SessionTTL     Duration `toml:"session_ttl" yaml:"session_ttl"`
	UploadRate     float64  `toml:"upload_rate" yaml:"upload_rate"`
	UploadBurst    int      `toml:"upload_burst" yaml:"upload_burst"`
	MaxUploadBytes int64    `toml:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Backend   string `toml:"backend" yaml:"backend"`
	Dir       string `toml:"dir" yaml:"dir"`
	RedisAddr string `toml:"redis_addr" yaml:"redis_addr"`
	// Prefix scopes artifact keys, so booths sharing one Redis stay apart.
	Prefix string   `toml:"prefix" yaml:"prefix"`
	TTL    Duration `toml:"ttl" yaml:"ttl"`
}

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: frame.DefaultWidth, Height: frame.DefaultHeight},
		Booth: Booth{
			Frame:     frame.DefaultID,
			Countdown: camera.DefaultCountdown,
			Debounce:  Duration(30 * time.Millisecond),
		},
		Server: Server{
			Addr:           "127.0.0.1:8080",
			SessionTTL:     Duration(30 * time.Minute),
			UploadRate:     2,
			UploadBurst:    5,
			MaxUploadBytes: 64 << 20,
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration(24 * time.Hour),
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns
// Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, filepath.Ext(path), &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode decodes data in the format named by ext (".toml", ".yaml", ".yml")
// into v.
func Decode(data []byte, ext string, v any) error {
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse toml")
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse yaml")
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := frame.Get(c.Booth.Frame); err != nil {
		return err
	}
	if !camera.ValidCountdown(c.Booth.Countdown) {
		return errors.New(errors.ErrCodeInvalidInput, "countdown must be one of %v, got %d", camera.Countdowns, c.Booth.Countdown)
	}
	if c.Server.UploadRate <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server upload_rate must be positive, got %g", c.Server.UploadRate)
	}
	if c.Server.UploadBurst < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "server upload_burst must be at least 1, got %d", c.Server.UploadBurst)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis needs redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

// D returns the value as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler, used by both codecs.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	return d.UnmarshalText([]byte(n.Value))
}
