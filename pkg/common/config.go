package common

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	values map[string]any
}

// NewConfig wraps already parsed values. Mostly useful in tests and for front-ends which build the config themselves.
func NewConfig(values map[string]any) *Config {
	if values == nil {
		values = make(map[string]any)
	}
	return &Config{values: values}
}

// LoadConfig reads a YAML file of flat key/value pairs. Always use this function instead of hard-coding constants.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any)
	err = yaml.Unmarshal(data, &values)
	if err != nil {
		return nil, err
	}
	return NewConfig(values), nil
}

// LoadConfigOrEmpty is like LoadConfig, but a missing file is not an error: every getter then returns its default.
func LoadConfigOrEmpty(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewConfig(nil), nil
	}
	return config, err
}

// GetString returns a string-typed parameter. If nothing is found, or if the value cannot be parsed as a string,
// returns an empty value.
func (c *Config) GetString(key string) string {
	str, _ := c.values[key].(string)
	return str
}

// GetStringOrDefault returns a string-typed parameter, or `defaultValue` if it's missing or empty.
func (c *Config) GetStringOrDefault(key, defaultValue string) string {
	value := c.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetIntOrDefault returns an integer-typed parameter. If nothing is found, or if the value cannot be parsed as an integer,
// returns `defaultValue`.
func (c *Config) GetIntOrDefault(key string, defaultValue int) int {
	intValue, ok := c.values[key].(int)
	if !ok {
		return defaultValue
	}
	return intValue
}

// GetDurationOrDefault returns a duration-typed parameter. The value is an integer which specifies milliseconds.
// Negative or unparsable values fall back to `defaultValue`.
func (c *Config) GetDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	intValue := c.GetIntOrDefault(key, -1)
	if intValue < 0 {
		return defaultValue
	}
	return time.Duration(intValue) * time.Millisecond
}
