package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func newTestConfig(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	paths := dataPathsAt(t.TempDir())

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddConfigFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	v := NewViper(paths)
	if err := BindConfigFlags(v, fs); err != nil {
		t.Fatalf("BindConfigFlags() error = %v", err)
	}
	configFile, _ := fs.GetString("config")
	return LoadConfig(v, configFile)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := newTestConfig(t)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if filepath.Base(cfg.StorePath) != "credentials.db" {
		t.Errorf("StorePath = %q, want credentials.db in data dir", cfg.StorePath)
	}
	if cfg.StoreTimeout != 5*time.Second {
		t.Errorf("StoreTimeout = %v, want 5s", cfg.StoreTimeout)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
	}
	if cfg.Retries != 2 {
		t.Errorf("Retries = %d, want 2", cfg.Retries)
	}
	if cfg.Verbose || cfg.Ephemeral {
		t.Error("Verbose and Ephemeral should default to false")
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want empty when no config file exists", cfg.File)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	content := "api_url: http://file.example/api\nretries: 5\nstore_timeout: 2s\n"
	if err := os.WriteFile(file, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("COMPLAINT_DESK_RETRIES", "7")

	cfg, err := newTestConfig(t, "--config", file, "--api-url", "http://flag.example/api/")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.APIURL != "http://flag.example/api" {
		t.Errorf("APIURL = %q, flag should win and trailing slash be trimmed", cfg.APIURL)
	}
	if cfg.Retries != 7 {
		t.Errorf("Retries = %d, env should override file", cfg.Retries)
	}
	if cfg.StoreTimeout != 2*time.Second {
		t.Errorf("StoreTimeout = %v, file should override default", cfg.StoreTimeout)
	}
	if cfg.File != file {
		t.Errorf("File = %q, want %q", cfg.File, file)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		wantKey string
	}{
		{"relative api url", []string{"--api-url", "localhost/api"}, nil, KeyAPIURL},
		{"ftp api url", []string{"--api-url", "ftp://example.com"}, nil, KeyAPIURL},
		{"negative retries", []string{"--retries", "-1"}, nil, KeyRetries},
		{"bad timeout env", nil, map[string]string{"COMPLAINT_DESK_HTTP_TIMEOUT": "soon"}, KeyHTTPTimeout},
		{"negative store timeout", []string{"--store-timeout", "-1s"}, nil, KeyStoreTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := newTestConfig(t, tt.args...)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("LoadConfig() error = %v, want *ConfigError", err)
			}
			if cfgErr.Key != tt.wantKey {
				t.Errorf("ConfigError.Key = %q, want %q", cfgErr.Key, tt.wantKey)
			}
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := newTestConfig(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("LoadConfig() error = %v, want *ConfigError", err)
	}
}

func TestWriteConfig_RoundTrip(t *testing.T) {
	paths := dataPathsAt(filepath.Join(t.TempDir(), "nested"))
	want := DefaultConfig(paths)
	want.APIURL = "https://complaints.example/api"
	want.Verbose = true

	if err := WriteConfig(paths.ConfigFile, want, false); err != nil {
		t.Fatalf("WriteConfig() error = %v", err)
	}

	v := NewViper(paths)
	got, err := LoadConfig(v, "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got.APIURL != want.APIURL || got.StorePath != want.StorePath || !got.Verbose {
		t.Errorf("LoadConfig() = %+v, want %+v", got, want)
	}
	if got.StoreTimeout != want.StoreTimeout || got.HTTPTimeout != want.HTTPTimeout || got.Retries != want.Retries {
		t.Errorf("LoadConfig() = %+v, want %+v", got, want)
	}
}

func TestWriteConfig_NoOverwrite(t *testing.T) {
	paths := dataPathsAt(t.TempDir())
	cfg := DefaultConfig(paths)

	if err := WriteConfig(paths.ConfigFile, cfg, false); err != nil {
		t.Fatal(err)
	}
	err := WriteConfig(paths.ConfigFile, cfg, false)
	if !errors.Is(err, os.ErrExist) {
		t.Errorf("second WriteConfig() error = %v, want os.ErrExist", err)
	}
	if err := WriteConfig(paths.ConfigFile, cfg, true); err != nil {
		t.Errorf("WriteConfig(force) error = %v", err)
	}
}
