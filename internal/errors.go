package internal

import "fmt"

// StorageError represents errors accessing the credential database
type StorageError struct {
	Path string
	Op   string // "open", "get", "set", "remove"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid or unreadable configuration value
type ConfigError struct {
	Key string // config key or file path
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ValidationError represents a rejected form field
type ValidationError struct {
	Form string // "branch", "admin", "status"
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %v", e.Form, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
