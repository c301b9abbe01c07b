package internal

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config keys, as they appear in config.yaml
const (
	KeyAPIURL       = "api_url"
	KeyStore        = "store"
	KeyStoreTimeout = "store_timeout"
	KeyHTTPTimeout  = "http_timeout"
	KeyRetries      = "retries"
	KeyVerbose      = "verbose"
	KeyEphemeral    = "ephemeral"

	EnvPrefix     = "COMPLAINT_DESK"
	DefaultAPIURL = "http://localhost:8080/api"
)

// Config is the resolved configuration for one invocation
type Config struct {
	APIURL       string        `yaml:"api_url"`
	StorePath    string        `yaml:"store"`
	StoreTimeout time.Duration `yaml:"store_timeout"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
	Retries      int           `yaml:"retries"`
	Verbose      bool          `yaml:"verbose"`
	Ephemeral    bool          `yaml:"-"`
	File         string        `yaml:"-"`
}

// flag name -> config key
var configFlags = map[string]string{
	"api-url":       KeyAPIURL,
	"store":         KeyStore,
	"store-timeout": KeyStoreTimeout,
	"http-timeout":  KeyHTTPTimeout,
	"retries":       KeyRetries,
	"verbose":       KeyVerbose,
	"ephemeral":     KeyEphemeral,
}

// AddConfigFlags registers the global flags on fs
func AddConfigFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default is config.yaml in the data directory)")
	fs.String("api-url", DefaultAPIURL, "base URL of the complaint API")
	fs.String("store", "", "credential database path (default is credentials.db in the data directory)")
	fs.Duration("store-timeout", 5*time.Second, "timeout for each credential store operation (0 disables)")
	fs.Duration("http-timeout", 30*time.Second, "timeout for each API request")
	fs.Int("retries", 2, "retries for idempotent API requests")
	fs.BoolP("verbose", "v", false, "enable verbose logging")
	fs.Bool("ephemeral", false, "keep the session in memory only")
}

// NewViper returns a viper instance with defaults and env binding for paths
func NewViper(paths DataPaths) *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyStore, paths.StoreFile)
	v.SetDefault(KeyStoreTimeout, "5s")
	v.SetDefault(KeyHTTPTimeout, "30s")
	v.SetDefault(KeyRetries, 2)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyEphemeral, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	v.SetConfigFile(paths.ConfigFile)
	return v
}

// BindConfigFlags binds the global flags in fs to their config keys. Only
// flags that were set on the command line override env and file values.
func BindConfigFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range configFlags {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return &ConfigError{Key: key, Err: err}
		}
	}
	return nil
}

// LoadConfig reads the config file (when present) and resolves every key.
// An explicit configFile must exist; the default one is optional.
func LoadConfig(v *viper.Viper, configFile string) (Config, error) {
	file := v.ConfigFileUsed()
	if configFile != "" {
		file = configFile
		v.SetConfigFile(configFile)
	}

	if _, err := os.Stat(file); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, &ConfigError{Key: file, Err: err}
		}
		LogDebug("Loaded config from %s", file)
	} else if configFile != "" {
		return Config{}, &ConfigError{Key: configFile, Err: err}
	} else {
		file = ""
	}

	cfg := Config{
		APIURL:    strings.TrimRight(v.GetString(KeyAPIURL), "/"),
		StorePath: v.GetString(KeyStore),
		Verbose:   v.GetBool(KeyVerbose),
		Ephemeral: v.GetBool(KeyEphemeral),
		File:      file,
	}

	var err error
	if cfg.StoreTimeout, err = durationKey(v, KeyStoreTimeout); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = durationKey(v, KeyHTTPTimeout); err != nil {
		return Config{}, err
	}

	retries, err := strconv.Atoi(v.GetString(KeyRetries))
	if err != nil || retries < 0 {
		return Config{}, &ConfigError{Key: KeyRetries, Err: fmt.Errorf("must be a non-negative integer, got %q", v.GetString(KeyRetries))}
	}
	cfg.Retries = retries

	u, err := url.Parse(cfg.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, &ConfigError{Key: KeyAPIURL, Err: fmt.Errorf("must be an absolute http(s) URL, got %q", cfg.APIURL)}
	}

	if cfg.StorePath == "" && !cfg.Ephemeral {
		return Config{}, &ConfigError{Key: KeyStore, Err: fmt.Errorf("no credential database path")}
	}

	return cfg, nil
}

func durationKey(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &ConfigError{Key: key, Err: err}
	}
	if d < 0 {
		return 0, &ConfigError{Key: key, Err: fmt.Errorf("must not be negative, got %s", raw)}
	}
	return d, nil
}

// DefaultConfig returns the configuration written by config init
func DefaultConfig(paths DataPaths) Config {
	return Config{
		APIURL:       DefaultAPIURL,
		StorePath:    paths.StoreFile,
		StoreTimeout: 5 * time.Second,
		HTTPTimeout:  30 * time.Second,
		Retries:      2,
	}
}

type configFile struct {
	APIURL       string `yaml:"api_url"`
	Store        string `yaml:"store"`
	StoreTimeout string `yaml:"store_timeout"`
	HTTPTimeout  string `yaml:"http_timeout"`
	Retries      int    `yaml:"retries"`
	Verbose      bool   `yaml:"verbose"`
}

// MarshalConfig renders cfg in the config file format
func MarshalConfig(cfg Config) ([]byte, error) {
	return yaml.Marshal(configFile{
		APIURL:       cfg.APIURL,
		Store:        cfg.StorePath,
		StoreTimeout: cfg.StoreTimeout.String(),
		HTTPTimeout:  cfg.HTTPTimeout.String(),
		Retries:      cfg.Retries,
		Verbose:      cfg.Verbose,
	})
}

// WriteConfig writes cfg as YAML to path. An existing file is only replaced
// when force is set.
func WriteConfig(path string, cfg Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return &ConfigError{Key: path, Err: fmt.Errorf("file already exists (use --force to overwrite): %w", os.ErrExist)}
		}
	}

	data, err := MarshalConfig(cfg)
	if err != nil {
		return &ConfigError{Key: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return &ConfigError{Key: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return &ConfigError{Key: path, Err: err}
	}
	return nil
}
