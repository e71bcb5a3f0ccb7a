package ssh

// Result holds the outcome of one remote command execution.
//
// A nonzero ExitCode is the remote command's own status and is not an
// error of this layer; callers decide what to do with it.
type Result struct {
	// Command is the command as requested, before any quoting or
	// interpreter wrapping.
	Command string

	// Stdout is the captured standard output with surrounding whitespace
	// trimmed.
	Stdout string

	// Stderr is the captured standard error with surrounding whitespace
	// trimmed.
	Stderr string

	// ExitCode is the remote command's exit status.
	ExitCode int
}

// String returns the captured stdout.
func (r *Result) String() string {
	return r.Stdout
}
