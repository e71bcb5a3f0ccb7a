package ssh

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Default client binaries, resolved via PATH.
const (
	sshBinary = "ssh"
	scpBinary = "scp"
)

// sshArgs builds the argument vector for one ssh invocation, plus the
// stdin payload when an interpreter is used.
//
// Without an interpreter the command string is the final argument, passed
// as a single opaque token; the remote shell does the word-splitting.
// With an interpreter the final argument becomes "<interpreter> -" and the
// command text is delivered on stdin once connected.
func (c *Connection) sshArgs(command string, cfg runConfig) (argv []string, stdin io.Reader) {
	argv = []string{sshBinary}

	if c.login != "" {
		argv = append(argv, "-l", c.login)
	}
	if c.configFile != "" {
		argv = append(argv, "-F", c.configFile)
	}
	if c.identityFile != "" {
		argv = append(argv, "-i", c.identityFile)
	}
	if cfg.forwardAgent {
		argv = append(argv, "-A")
	}
	if c.port > 0 {
		argv = append(argv, "-p", strconv.Itoa(c.port))
	}
	argv = append(argv, "-o", connectTimeoutOption(cfg.timeout))
	argv = append(argv, c.server)

	if cfg.interpreter != "" {
		return append(argv, cfg.interpreter+" -"), strings.NewReader(command)
	}
	return append(argv, command), nil
}

// scpArgs builds the argument vector for one scp invocation transferring
// the given local paths to target on the remote host.
func (c *Connection) scpArgs(paths []string, target string) []string {
	argv := []string{scpBinary, "-q", "-r"}

	if c.configFile != "" {
		argv = append(argv, "-F", c.configFile)
	}
	if c.identityFile != "" {
		argv = append(argv, "-i", c.identityFile)
	}
	if c.port > 0 {
		argv = append(argv, "-P", strconv.Itoa(c.port))
	}
	argv = append(argv, "-o", connectTimeoutOption(c.timeout))

	argv = append(argv, paths...)
	return append(argv, c.remoteSpec(target))
}

// remoteSpec formats the scp destination, "login@server:target" or
// "server:target" when no login is set.
func (c *Connection) remoteSpec(target string) string {
	if c.login != "" {
		return c.login + "@" + c.server + ":" + target
	}
	return c.server + ":" + target
}

func connectTimeoutOption(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("ConnectTimeout=%d", secs)
}

// shellQuote wraps a string in single quotes for safe use as one word in
// a remote shell command.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}

// shellJoin quotes every chunk and joins them into one shell command line.
func shellJoin(chunks []string) string {
	quoted := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		quoted = append(quoted, shellQuote(chunk))
	}
	return strings.Join(quoted, " ")
}
