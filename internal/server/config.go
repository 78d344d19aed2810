package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// POKERTABLE_TABLE_SEATS=4 or POKERTABLE_SERVER_TCP_ADDRESS=:9000.
const EnvPrefix = "pokertable"

// Config represents the complete server configuration
type Config struct {
	Server ServerSettings `envconfig:"server"`
	Table  TableSettings  `envconfig:"table"`
}

// ServerSettings contains listener and logging configuration
type ServerSettings struct {
	TCPAddress  string `hcl:"tcp_address,optional" envconfig:"tcp_address"`
	HTTPAddress string `hcl:"http_address,optional" envconfig:"http_address"`
	LogLevel    string `hcl:"log_level,optional" envconfig:"log_level"`
	LogFile     string `hcl:"log_file,optional" envconfig:"log_file"`
}

// TableSettings defines the single table the server runs
type TableSettings struct {
	Seats         int    `hcl:"seats,optional" envconfig:"seats"`
	InitialChips  int    `hcl:"initial_chips,optional" envconfig:"initial_chips"`
	Blinds        []int  `hcl:"blinds,optional" envconfig:"blinds"`
	HandsPerLevel int    `hcl:"hands_per_level,optional" envconfig:"hands_per_level"`
	ActionTimeout string `hcl:"action_timeout,optional" envconfig:"action_timeout"`
	SitOutBusted  bool   `hcl:"sit_out_busted,optional" envconfig:"sit_out_busted"`
	MaxHands      int    `hcl:"max_hands,optional" envconfig:"max_hands"`
}

type configFile struct {
	Server *ServerSettings `hcl:"server,block"`
	Table  *TableSettings  `hcl:"table,block"`
}

// DefaultBlinds is the blind schedule used when none is configured.
var DefaultBlinds = []int{1, 2, 5, 10, 20, 50, 100, 200, 500}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig loads configuration from an HCL file, then applies environment
// overrides. A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	config := &Config{}

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			parser := hclparse.NewParser()
			file, diags := parser.ParseHCLFile(filename)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
			}

			var parsed configFile
			diags = gohcl.DecodeBody(file.Body, nil, &parsed)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
			}
			if parsed.Server != nil {
				config.Server = *parsed.Server
			}
			if parsed.Table != nil {
				config.Table = *parsed.Table
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	config.applyDefaults()
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.TCPAddress == "" {
		c.Server.TCPAddress = "localhost:7000"
	}
	if c.Server.HTTPAddress == "" {
		c.Server.HTTPAddress = "localhost:7080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Table.Seats == 0 {
		c.Table.Seats = 3
	}
	if c.Table.InitialChips == 0 {
		c.Table.InitialChips = 100
	}
	if len(c.Table.Blinds) == 0 {
		c.Table.Blinds = append([]int(nil), DefaultBlinds...)
	}
	if c.Table.HandsPerLevel == 0 {
		c.Table.HandsPerLevel = 3
	}
	if c.Table.ActionTimeout == "" {
		c.Table.ActionTimeout = "5s"
	}
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if err := validateAddress("tcp_address", c.Server.TCPAddress); err != nil {
		return err
	}
	if c.Server.HTTPAddress != "off" {
		if err := validateAddress("http_address", c.Server.HTTPAddress); err != nil {
			return err
		}
	}

	t := c.Table
	if t.Seats < 2 || t.Seats > 10 {
		return fmt.Errorf("seats must be between 2 and 10, got %d", t.Seats)
	}
	if t.InitialChips <= 0 {
		return fmt.Errorf("initial_chips must be positive, got %d", t.InitialChips)
	}
	if len(t.Blinds) == 0 {
		return errors.New("blinds must not be empty")
	}
	for i, b := range t.Blinds {
		if b <= 0 {
			return fmt.Errorf("blind %d must be positive, got %d", i, b)
		}
		if i > 0 && b <= t.Blinds[i-1] {
			return fmt.Errorf("blinds must increase: %d follows %d", b, t.Blinds[i-1])
		}
	}
	if t.HandsPerLevel <= 0 {
		return fmt.Errorf("hands_per_level must be positive, got %d", t.HandsPerLevel)
	}
	if t.MaxHands < 0 {
		return fmt.Errorf("max_hands must not be negative, got %d", t.MaxHands)
	}
	if _, err := c.ActionTimeout(); err != nil {
		return err
	}
	return nil
}

// ActionTimeout parses the per-action timeout.
func (c *Config) ActionTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Table.ActionTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid action_timeout %q: %w", c.Table.ActionTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("action_timeout must be positive, got %s", d)
	}
	return d, nil
}

// HTTPEnabled reports whether the HTTP listener (websocket, health and
// status) should be started.
func (c *Config) HTTPEnabled() bool {
	return c.Server.HTTPAddress != "off"
}

func validateAddress(name, addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, addr, err)
	}
	if port == "" {
		return fmt.Errorf("invalid %s %q: missing port", name, addr)
	}
	return nil
}
