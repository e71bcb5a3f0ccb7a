// Package inventory loads named host definitions from a YAML file.
package inventory

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenetaranov/sshwrap/pkg/ssh"
)

// Host describes one inventory entry.
type Host struct {
	// Server is the host name or IP address. Required.
	Server string `yaml:"server"`

	// Login is the remote user login.
	Login string `yaml:"login"`

	// Port is the SSH port. Zero means the client default.
	Port int `yaml:"port"`

	// Config is the path to a local ssh config file.
	Config string `yaml:"config"`

	// Identity is the path to the private key.
	Identity string `yaml:"identity"`

	// Timeout is the connection timeout as a Go duration string,
	// for example "30s".
	Timeout string `yaml:"timeout"`
}

// Inventory maps aliases to host definitions.
type Inventory struct {
	Hosts map[string]Host `yaml:"hosts"`
}

// ParseFile parses an inventory from a YAML file.
func ParseFile(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	inv, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}
	return inv, nil
}

// Parse parses an inventory from YAML data and validates every entry.
func Parse(data []byte) (*Inventory, error) {
	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("invalid inventory format: %w", err)
	}

	for alias, host := range inv.Hosts {
		if host.Server == "" {
			return nil, fmt.Errorf("host %q: 'server' is required", alias)
		}
		if host.Timeout != "" {
			if _, err := time.ParseDuration(host.Timeout); err != nil {
				return nil, fmt.Errorf("host %q: invalid timeout: %w", alias, err)
			}
		}
	}

	return &inv, nil
}

// Lookup returns the host registered under alias.
func (inv *Inventory) Lookup(alias string) (Host, error) {
	host, ok := inv.Hosts[alias]
	if !ok {
		return Host{}, fmt.Errorf("host %q not found in inventory", alias)
	}
	return host, nil
}

// Names returns all aliases in sorted order.
func (inv *Inventory) Names() []string {
	names := make([]string, 0, len(inv.Hosts))
	for name := range inv.Hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options converts the host definition into connection options.
func (h Host) Options() []ssh.Option {
	var opts []ssh.Option
	if h.Login != "" {
		opts = append(opts, ssh.WithLogin(h.Login))
	}
	if h.Port > 0 {
		opts = append(opts, ssh.WithPort(h.Port))
	}
	if h.Config != "" {
		opts = append(opts, ssh.WithConfigFile(h.Config))
	}
	if h.Identity != "" {
		opts = append(opts, ssh.WithIdentityFile(h.Identity))
	}
	if h.Timeout != "" {
		// Validated during Parse.
		if d, err := time.ParseDuration(h.Timeout); err == nil {
			opts = append(opts, ssh.WithTimeout(d))
		}
	}
	return opts
}
