package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paw-chain/swapbook/api"
)

const (
	// EnvPrefix prefixes every environment override, e.g. SWAPBOOK_API_PORT.
	EnvPrefix = "SWAPBOOK"

	configName = "swapbookd"
	configType = "toml"

	FlagHome      = "home"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
	FlagSnapshot  = "snapshot"
	FlagHost      = "host"
	FlagPort      = "port"

	keyAPIHost            = "api.host"
	keyAPIPort            = "api.port"
	keyAPICORSOrigins     = "api.cors-origins"
	keyAPIRateLimitRPS    = "api.rate-limit-rps"
	keyAPIMaxBodyBytes    = "api.max-body-bytes"
	keyAPIReadTimeout     = "api.read-timeout"
	keyAPIWriteTimeout    = "api.write-timeout"
	keyAPIShutdownTimeout = "api.shutdown-timeout"
	keyAPIHealthCacheTTL  = "api.health-cache-ttl"
	keyAPIMetricsEnabled  = "api.metrics-enabled"

	LogFormatPlain = "plain"
	LogFormatJSON  = "json"
)

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	FlagHome:      FlagHome,
	FlagLogLevel:  FlagLogLevel,
	FlagLogFormat: FlagLogFormat,
	FlagSnapshot:  FlagSnapshot,
	FlagHost:      keyAPIHost,
	FlagPort:      keyAPIPort,
}

// Config is the resolved swapbookd configuration.
type Config struct {
	Home      string
	LogLevel  string
	LogFormat string
	Snapshot  string
	API       *api.Config
}

// DefaultHome returns ~/.swapbook, or the working directory when no user
// home is available.
func DefaultHome() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".swapbook"
	}
	return filepath.Join(userHome, ".swapbook")
}

// ConfigPath returns the config file location under home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config", configName+"."+configType)
}

func setDefaults(v *viper.Viper) {
	def := api.DefaultConfig()

	v.SetDefault(FlagLogLevel, zerolog.InfoLevel.String())
	v.SetDefault(FlagLogFormat, LogFormatPlain)
	v.SetDefault(FlagSnapshot, "")
	v.SetDefault(keyAPIHost, def.Host)
	v.SetDefault(keyAPIPort, def.Port)
	v.SetDefault(keyAPICORSOrigins, def.CORSOrigins)
	v.SetDefault(keyAPIRateLimitRPS, def.RateLimitRPS)
	v.SetDefault(keyAPIMaxBodyBytes, def.MaxBodyBytes)
	v.SetDefault(keyAPIReadTimeout, def.ReadTimeout.String())
	v.SetDefault(keyAPIWriteTimeout, def.WriteTimeout.String())
	v.SetDefault(keyAPIShutdownTimeout, def.ShutdownTimeout.String())
	v.SetDefault(keyAPIHealthCacheTTL, def.HealthCacheTTL.String())
	v.SetDefault(keyAPIMetricsEnabled, def.MetricsEnabled)
}

// LoadConfig resolves the configuration. Precedence, highest first: changed
// flags, SWAPBOOK_ environment variables, the config file under home,
// defaults. A missing config file is not an error.
func LoadConfig(v *viper.Viper, flags *pflag.FlagSet) (*Config, error) {
	setDefaults(v)
	v.SetDefault(FlagHome, DefaultHome())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	home := v.GetString(FlagHome)
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(filepath.Dir(ConfigPath(home)))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	apiCfg, err := decodeAPIConfig(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Home:      home,
		LogLevel:  v.GetString(FlagLogLevel),
		LogFormat: v.GetString(FlagLogFormat),
		Snapshot:  v.GetString(FlagSnapshot),
		API:       apiCfg,
	}
	if cfg.LogFormat != LogFormatPlain && cfg.LogFormat != LogFormatJSON {
		return nil, fmt.Errorf("invalid %s %q: want %s or %s", FlagLogFormat, cfg.LogFormat, LogFormatPlain, LogFormatJSON)
	}
	return cfg, nil
}

func decodeAPIConfig(v *viper.Viper) (*api.Config, error) {
	cfg := api.DefaultConfig()

	cfg.Host = cast.ToString(v.Get(keyAPIHost))
	port, err := cast.ToIntE(v.Get(keyAPIPort))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid %s %v", keyAPIPort, v.Get(keyAPIPort))
	}
	cfg.Port = cast.ToString(port)

	if cfg.CORSOrigins, err = splitList(v.Get(keyAPICORSOrigins)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyAPICORSOrigins, err)
	}
	if cfg.RateLimitRPS, err = cast.ToIntE(v.Get(keyAPIRateLimitRPS)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyAPIRateLimitRPS, err)
	}
	if cfg.MaxBodyBytes, err = cast.ToInt64E(v.Get(keyAPIMaxBodyBytes)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyAPIMaxBodyBytes, err)
	}
	if cfg.ReadTimeout, err = cast.ToDurationE(v.Get(keyAPIReadTimeout)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyAPIReadTimeout, err)
	}
	if cfg.WriteTimeout, err = cast.ToDurationE(v.Get(keyAPIWriteTimeout)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyAPIWriteTimeout, err)
	}
	if cfg.ShutdownTimeout, err = cast.ToDurationE(v.Get(keyAPIShutdownTimeout)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyAPIShutdownTimeout, err)
	}
	if cfg.HealthCacheTTL, err = cast.ToDurationE(v.Get(keyAPIHealthCacheTTL)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyAPIHealthCacheTTL, err)
	}
	if cfg.MetricsEnabled, err = cast.ToBoolE(v.Get(keyAPIMetricsEnabled)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyAPIMetricsEnabled, err)
	}
	return cfg, nil
}

// splitList accepts a list value from the config file or a comma separated
// string from the environment.
func splitList(raw any) ([]string, error) {
	s, ok := raw.(string)
	if !ok {
		return cast.ToStringSliceE(raw)
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}

// WriteDefaultConfig writes a config file holding the defaults. An existing
// file is left untouched and reported as an error.
func WriteDefaultConfig(home string) (string, error) {
	path := ConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	v := viper.New()
	setDefaults(v)
	if err := v.SafeWriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// NewLogger builds the process logger. level takes zerolog level names.
func NewLogger(level, format string, w io.Writer) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FlagLogLevel, err)
	}

	opts := []log.Option{log.LevelOption(lvl)}
	if format == LogFormatJSON {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...), nil
}
