// Package config provides the server configuration file format and loader.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrEmptyFile    = errors.New("configuration file is empty")
	ErrInvalidYAML  = errors.New("invalid YAML syntax")
)

// Server holds the serve command's configuration.
type Server struct {
	// Addr is the listen address, host:port.
	Addr string `json:"addr" yaml:"addr"`
	// Protos lists the .proto files declaring the served RPC contracts.
	Protos []string `json:"protos" yaml:"protos"`
	// ImportPaths lists extra directories searched for proto imports.
	ImportPaths []string `json:"importPaths,omitempty" yaml:"importPaths,omitempty"`
	// Encoding names the response message encoding offered to clients,
	// for example "gzip". Empty means identity.
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	// MaxRecvSize caps inbound frame payloads in bytes. Zero means no cap.
	MaxRecvSize int `json:"maxRecvSize,omitempty" yaml:"maxRecvSize,omitempty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	// LogFormat is json or text.
	LogFormat string `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
}

// Default returns the configuration used when no file or flags are given.
func Default() *Server {
	return &Server{
		Addr:      ":50051",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadFromFile reads a Server configuration from a YAML file. Fields absent
// from the file keep their defaults.
func LoadFromFile(path string) (*Server, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can start a server.
func (c *Server) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if len(c.Protos) == 0 {
		return errors.New("at least one proto file is required")
	}
	return nil
}
