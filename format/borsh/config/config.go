// Package config loads the codec configuration from the environment.
//
// Settings are read from environment variables with the prefix BORSH_,
// optionally seeded from the files .env and .env.local in the working
// directory. Variables already set in the environment take precedence over
// the files.
//
//	BORSH_BUFFER_SIZE    initial buffer capacity for variable-size types (512)
//	BORSH_GLOBAL_BUFFER  reuse one top-level and one scratch buffer (false)
//	BORSH_VALIDATE       range checks of numeric values (true)
//	BORSH_MEMO_SIZE      capacity of the descriptor memo (1024)
package config

import (
	"strings"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eluv-io/borsh-go/format/borsh"
	"github.com/eluv-io/borsh-go/util/codecutil"
)

var log = elog.Get("/eluvio/format/borsh/config")

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "borsh"

// Keys of the configuration settings.
const (
	KeyBufferSize   = "buffer_size"
	KeyGlobalBuffer = "global_buffer"
	KeyValidate     = "validate"
	KeyMemoSize     = "memo_size"
)

// Config is the codec configuration.
type Config struct {
	BufferSize   int  `json:"buffer_size"`
	GlobalBuffer bool `json:"global_buffer"`
	Validate     bool `json:"validate"`
	MemoSize     int  `json:"memo_size"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BufferSize:   borsh.DefaultBufferSize,
		GlobalBuffer: false,
		Validate:     true,
		MemoSize:     borsh.DefaultMemoSize,
	}
}

// Load reads the configuration from the environment, seeded with the given
// dotenv files. If no files are given, .env and .env.local are used. Missing
// files are ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	for _, file := range files {
		_ = godotenv.Load(file)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault(KeyBufferSize, def.BufferSize)
	v.SetDefault(KeyGlobalBuffer, def.GlobalBuffer)
	v.SetDefault(KeyValidate, def.Validate)
	v.SetDefault(KeyMemoSize, def.MemoSize)

	return FromViper(v)
}

// FromViper extracts the configuration from the given viper instance. Values
// may be strings, as is the case for environment variables.
func FromViper(v *viper.Viper) (*Config, error) {
	e := errors.Template("config.FromViper", errors.K.Invalid)

	settings := map[string]interface{}{}
	for _, key := range []string{KeyBufferSize, KeyGlobalBuffer, KeyValidate, KeyMemoSize} {
		if v.IsSet(key) {
			settings[key] = v.Get(key)
		}
	}

	cfg := Default()
	if err := codecutil.MapDecodeLenient(settings, cfg); err != nil {
		return nil, e(err)
	}
	if err := cfg.Check(); err != nil {
		return nil, e(err)
	}
	log.Info("configuration loaded",
		"buffer_size", cfg.BufferSize,
		"global_buffer", cfg.GlobalBuffer,
		"validate", cfg.Validate,
		"memo_size", cfg.MemoSize)
	return cfg, nil
}

// Check verifies the configuration values.
func (c *Config) Check() error {
	e := errors.Template("config.Check", errors.K.Invalid)
	if c.BufferSize <= 0 {
		return e("reason", "buffer size must be positive", "buffer_size", c.BufferSize)
	}
	if c.MemoSize <= 0 {
		return e("reason", "memo size must be positive", "memo_size", c.MemoSize)
	}
	return nil
}

// Options converts the configuration to codec context options.
func (c *Config) Options() borsh.Options {
	return borsh.Options{
		BufferSize: c.BufferSize,
		Reuse:      c.GlobalBuffer,
		Validate:   c.Validate,
	}
}

// NewContext creates a codec context configured by c, recording metrics in
// m if not nil.
func (c *Config) NewContext(m *borsh.Metrics) *borsh.Context {
	opts := c.Options()
	opts.Metrics = m
	return borsh.NewContext(opts)
}

// NewMemo creates a descriptor memo with the configured capacity.
func (c *Config) NewMemo() *borsh.Memo {
	return borsh.NewMemo(c.MemoSize)
}
