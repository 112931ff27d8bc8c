package console

import (
	"fmt"
	"strconv"
	"time"
)

// ServerConfig describes one remote console instance: how to reach it, the
// credentials to use, and how long fleet operations may wait on it.
//
// Active is a one-way per-run circuit breaker. It starts true and is flipped
// to false by the Executor the first time a request to the server times out
// at the transport level. Nothing flips it back within the same run; a
// deactivated server is skipped by every later fleet operation.
type ServerConfig struct {
	Name        string
	Protocol    string
	MachineName string
	Port        int
	Username    string
	Password    string
	RetryWaitMs int64
	MaxWaitMs   int64
	Active      bool
}

// NewServerConfig returns a configuration with the conventional defaults for
// a local authoring instance.
func NewServerConfig(name string) *ServerConfig {
	return &ServerConfig{
		Name:        name,
		Protocol:    "http",
		MachineName: "localhost",
		Port:        4502,
		Username:    "admin",
		Password:    "admin",
		RetryWaitMs: 1000,
		MaxWaitMs:   10000,
		Active:      true,
	}
}

// BaseURL returns the server's root URI.
func (c *ServerConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.MachineName, c.Port)
}

func (c *ServerConfig) RetryWait() time.Duration {
	return time.Duration(c.RetryWaitMs) * time.Millisecond
}

func (c *ServerConfig) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitMs) * time.Millisecond
}

// Legacy property spellings still found in older fleet files.
var propertyAliases = map[string]string{
	"machinename": "machineName",
	"retry.ms":    "retryWaitMs",
	"max.ms":      "maxWaitMs",
}

// SetProperty sets a configuration field by its property name, coercing the
// string value to the field's type. Aliases are translated first. An unknown
// name or an uncoercible value is a configuration error.
func (c *ServerConfig) SetProperty(name, value string) error {
	if canonical, ok := propertyAliases[name]; ok {
		name = canonical
	}
	switch name {
	case "name":
		c.Name = value
	case "protocol":
		c.Protocol = value
	case "machineName":
		c.MachineName = value
	case "port":
		p, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("console: property port: %s", err)
		}
		c.Port = p
	case "username":
		c.Username = value
	case "password":
		c.Password = value
	case "retryWaitMs":
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("console: property retryWaitMs: %s", err)
		}
		c.RetryWaitMs = ms
	case "maxWaitMs":
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("console: property maxWaitMs: %s", err)
		}
		c.MaxWaitMs = ms
	case "active":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("console: property active: %s", err)
		}
		c.Active = b
	default:
		return fmt.Errorf("console: unknown server property `%s`", name)
	}
	return nil
}

// Property reads a configuration field by its property name (aliases
// accepted), returning the field's typed value.
func (c *ServerConfig) Property(name string) (interface{}, bool) {
	if canonical, ok := propertyAliases[name]; ok {
		name = canonical
	}
	switch name {
	case "name":
		return c.Name, true
	case "protocol":
		return c.Protocol, true
	case "machineName":
		return c.MachineName, true
	case "port":
		return c.Port, true
	case "username":
		return c.Username, true
	case "password":
		return c.Password, true
	case "retryWaitMs":
		return c.RetryWaitMs, true
	case "maxWaitMs":
		return c.MaxWaitMs, true
	case "active":
		return c.Active, true
	}
	return nil, false
}
