// Package ssh wraps the openssh ssh and scp binaries for non-interactive
// remote command execution and file transfer.
//
// A Connection holds the parameters needed to reach one host. It keeps no
// state between calls, so a single Connection may be shared by concurrent
// callers.
package ssh

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"

	"github.com/eugenetaranov/sshwrap/pkg/runner"
)

// DefaultTimeout bounds connection setup and command execution when no
// timeout is configured.
const DefaultTimeout = 60 * time.Second

// hostPattern matches server names and logins that are safe to hand to
// the ssh client without quoting.
var hostPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// procRunner abstracts external process execution so tests can stub the
// transport.
type procRunner interface {
	Run(ctx context.Context, req runner.Request) (*runner.Output, error)
}

// Connection holds the values needed to reach one host via ssh. It is
// immutable after construction.
type Connection struct {
	server       string
	login        string
	port         int
	configFile   string
	identityFile string
	agentSocket  string
	timeout      time.Duration

	exec procRunner
}

// New creates a connection description for the given server. No network
// activity happens until Run or Copy is called.
//
// It returns an error if the server name or login contain characters
// outside [a-zA-Z0-9._-], or if a configured config file or identity file
// does not exist.
func New(server string, opts ...Option) (*Connection, error) {
	c := &Connection{
		server:  server,
		timeout: DefaultTimeout,
		exec:    runner.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if !hostPattern.MatchString(c.server) {
		return nil, fmt.Errorf("server name %q contains illegal symbols", c.server)
	}
	if c.login != "" && !hostPattern.MatchString(c.login) {
		return nil, fmt.Errorf("login %q contains illegal symbols", c.login)
	}

	var err error
	if c.configFile, err = resolveFile(c.configFile, "config file"); err != nil {
		return nil, err
	}
	if c.identityFile, err = resolveFile(c.identityFile, "identity file"); err != nil {
		return nil, err
	}

	return c, nil
}

// resolveFile expands a leading "~" and verifies the file exists. An
// empty path passes through untouched.
func resolveFile(p, kind string) (string, error) {
	if p == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("failed to expand %s path %q: %w", kind, p, err)
	}
	if _, err := os.Stat(expanded); err != nil {
		return "", fmt.Errorf("%s %s not found", kind, expanded)
	}
	return expanded, nil
}

// Run executes a command on the remote host and waits for it to finish.
//
// The remote command's own exit status is returned as data in the Result,
// never as an error. An error is returned only when the ssh binary cannot
// be spawned, the transport fails (ErrConnectionFailed), or the timeout
// elapses (ErrTimeout).
func (c *Connection) Run(ctx context.Context, command string, opts ...RunOption) (*Result, error) {
	cfg := runConfig{timeout: c.timeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	argv, stdin := c.sshArgs(command, cfg)

	out, err := c.exec.Run(ctx, runner.Request{
		Argv:    argv,
		Stdin:   stdin,
		Env:     c.env(),
		Timeout: cfg.timeout,
	})
	if err != nil {
		return nil, err
	}

	// 255 is the ssh client's own failure status, distinct from any
	// remote command exit code.
	if out.ExitCode == 255 {
		return nil, fmt.Errorf("%w: %s", ErrConnectionFailed, strings.TrimSpace(out.Stderr))
	}

	return &Result{
		Command:  command,
		Stdout:   strings.TrimSpace(out.Stdout),
		Stderr:   strings.TrimSpace(out.Stderr),
		ExitCode: out.ExitCode,
	}, nil
}

// Copy transfers the given sources to target on the remote host. Target
// may be a directory, or a file path when it names where a single source
// should land.
//
// In-memory sources are staged into temporary files first; the
// temporaries are removed before Copy returns, on every path. When mode
// or owner options are given, a follow-up remote chmod/chown is issued
// after a successful transfer; its failure is reported as ErrFixupFailed,
// distinct from ErrTransferFailed.
func (c *Connection) Copy(ctx context.Context, sources []Source, target string, opts ...CopyOption) error {
	cfg := copyConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	paths, cleanup, err := stage(sources)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := c.exec.Run(ctx, runner.Request{
		Argv:    c.scpArgs(paths, target),
		Env:     c.env(),
		Timeout: c.timeout,
	})
	if err != nil {
		// Spawn failures and timeouts keep their own identity.
		return err
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("%w: %s", ErrTransferFailed, strings.TrimSpace(out.Stderr))
	}

	if cfg.mode == "" && cfg.owner == "" {
		return nil
	}

	targets, err := c.remoteTargets(ctx, paths, target)
	if err != nil {
		return err
	}
	if cfg.mode != "" {
		if err := c.fixup(ctx, "chmod", cfg.mode, targets); err != nil {
			return err
		}
	}
	if cfg.owner != "" {
		if err := c.fixup(ctx, "chown", cfg.owner, targets); err != nil {
			return err
		}
	}
	return nil
}

// remoteTargets resolves the final remote paths of the transferred files.
// When target is a remote directory each file keeps its staged basename
// under it; otherwise target itself is the single destination.
func (c *Connection) remoteTargets(ctx context.Context, paths []string, target string) ([]string, error) {
	res, err := c.Run(ctx, "test -d "+shellQuote(target))
	if err != nil {
		return nil, fmt.Errorf("%w: checking target: %v", ErrFixupFailed, err)
	}
	if res.ExitCode != 0 {
		return []string{target}, nil
	}

	targets := make([]string, 0, len(paths))
	for _, p := range paths {
		targets = append(targets, path.Join(target, filepath.Base(p)))
	}
	return targets, nil
}

// fixup runs one chmod/chown-style command against the transferred paths.
func (c *Connection) fixup(ctx context.Context, tool, arg string, targets []string) error {
	command := shellJoin(append([]string{tool, arg}, targets...))

	res, err := c.Run(ctx, command)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFixupFailed, tool, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: %s: %s", ErrFixupFailed, tool, res.Stderr)
	}

	logrus.Debugf("fixup applied: %s", command)
	return nil
}

// env returns extra environment entries for the client process.
func (c *Connection) env() []string {
	if c.agentSocket == "" {
		return nil
	}
	return []string{"SSH_AUTH_SOCK=" + c.agentSocket}
}

// Server returns the host this connection points at.
func (c *Connection) Server() string {
	return c.server
}

// Port returns the configured SSH port, zero when the client default is
// used.
func (c *Connection) Port() int {
	return c.port
}

// String returns a human-readable description of the connection.
func (c *Connection) String() string {
	dest := c.server
	if c.login != "" {
		dest = c.login + "@" + c.server
	}
	if c.port > 0 {
		return fmt.Sprintf("ssh://%s:%d", dest, c.port)
	}
	return "ssh://" + dest
}
