// Package output provides formatted terminal output for the CLI.
package output

import (
	"fmt"
	"io"

	"github.com/eugenetaranov/sshwrap/internal/inventory"
	"github.com/eugenetaranov/sshwrap/pkg/ssh"
)

// Colors for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// Output handles formatted output.
type Output struct {
	w        io.Writer
	errW     io.Writer
	useColor bool
}

// New creates a new output handler writing results to w and diagnostics
// to errW.
func New(w, errW io.Writer) *Output {
	return &Output{
		w:        w,
		errW:     errW,
		useColor: true,
	}
}

// SetColor enables or disables color output.
func (o *Output) SetColor(enabled bool) {
	o.useColor = enabled
}

// color returns the string wrapped in color codes if enabled.
func (o *Output) color(c, s string) string {
	if !o.useColor {
		return s
	}
	return c + s + colorReset
}

// Result prints a remote command result: stdout to the result stream,
// stderr to the diagnostic stream, and a status line for failures.
func (o *Output) Result(res *ssh.Result) {
	if res.Stdout != "" {
		fmt.Fprintln(o.w, res.Stdout)
	}
	if res.Stderr != "" {
		fmt.Fprintln(o.errW, o.color(colorGray, res.Stderr))
	}
	if res.ExitCode != 0 {
		fmt.Fprintf(o.errW, "%s command %q exited with code %d\n",
			o.color(colorRed, "✗"), res.Command, res.ExitCode)
	}
}

// OK prints a success line.
func (o *Output) OK(format string, args ...any) {
	fmt.Fprintf(o.w, "%s %s\n", o.color(colorGreen, "✓"), fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (o *Output) Error(format string, args ...any) {
	fmt.Fprintf(o.errW, "%s %s\n", o.color(colorRed, "✗"), fmt.Sprintf(format, args...))
}

// HostList prints the inventory entries, one per line.
func (o *Output) HostList(inv *inventory.Inventory) {
	names := inv.Names()
	if len(names) == 0 {
		fmt.Fprintln(o.w, "No hosts in inventory.")
		return
	}
	for _, name := range names {
		host := inv.Hosts[name]
		dest := host.Server
		if host.Login != "" {
			dest = host.Login + "@" + host.Server
		}
		if host.Port > 0 {
			dest = fmt.Sprintf("%s:%d", dest, host.Port)
		}
		fmt.Fprintf(o.w, "%s %s\n", o.color(colorBold, name), o.color(colorGray, dest))
	}
}
