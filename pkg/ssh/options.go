package ssh

import "time"

// Option configures a Connection.
type Option func(*Connection)

// WithLogin sets the remote user login. By default the ssh client picks
// the login per its own configuration.
func WithLogin(login string) Option {
	return func(c *Connection) {
		c.login = login
	}
}

// WithPort sets the remote SSH port.
func WithPort(port int) Option {
	return func(c *Connection) {
		c.port = port
	}
}

// WithConfigFile sets a local ssh client configuration file. The path may
// start with "~" and must exist.
func WithConfigFile(path string) Option {
	return func(c *Connection) {
		c.configFile = path
	}
}

// WithIdentityFile sets the private key used for authentication. The path
// may start with "~" and must exist.
func WithIdentityFile(path string) Option {
	return func(c *Connection) {
		c.identityFile = path
	}
}

// WithAgentSocket sets the SSH agent socket handed to the client via
// SSH_AUTH_SOCK. Without it the ambient SSH_AUTH_SOCK, if any, is used.
func WithAgentSocket(path string) Option {
	return func(c *Connection) {
		c.agentSocket = path
	}
}

// WithTimeout sets the connection timeout and the default execution bound
// for every call on this connection. Adjust it when running long commands.
func WithTimeout(d time.Duration) Option {
	return func(c *Connection) {
		c.timeout = d
	}
}

// runConfig holds per-call execution settings.
type runConfig struct {
	interpreter  string
	forwardAgent bool
	timeout      time.Duration
}

// RunOption configures a single Run call.
type RunOption func(*runConfig)

// WithInterpreter makes the command a script piped on stdin to the given
// remote interpreter instead of a shell argument. This allows arbitrary
// multi-line scripts without shell quoting hazards.
func WithInterpreter(path string) RunOption {
	return func(cfg *runConfig) {
		cfg.interpreter = path
	}
}

// WithForwardAgent requests SSH agent forwarding for this call.
func WithForwardAgent() RunOption {
	return func(cfg *runConfig) {
		cfg.forwardAgent = true
	}
}

// WithRunTimeout overrides the connection timeout for this call.
func WithRunTimeout(d time.Duration) RunOption {
	return func(cfg *runConfig) {
		cfg.timeout = d
	}
}

// copyConfig holds per-call transfer settings.
type copyConfig struct {
	mode  string
	owner string
}

// CopyOption configures a single Copy call.
type CopyOption func(*copyConfig)

// WithMode applies the given permission bits to every transferred file,
// in a form understood by chmod (for example "0644").
func WithMode(mode string) CopyOption {
	return func(cfg *copyConfig) {
		cfg.mode = mode
	}
}

// WithOwner applies the given ownership to every transferred file, in a
// form understood by chown (for example "deploy:deploy"). Usually only
// meaningful when connecting as root.
func WithOwner(owner string) CopyOption {
	return func(cfg *copyConfig) {
		cfg.owner = owner
	}
}
