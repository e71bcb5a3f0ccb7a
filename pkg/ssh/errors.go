package ssh

import (
	"errors"

	"github.com/eugenetaranov/sshwrap/pkg/runner"
)

var (
	// ErrConnectionFailed is returned when the transport itself fails:
	// the host is unreachable, authentication is rejected, or the ssh
	// client exits with its reserved status 255.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrTimeout is returned when the external process does not exit
	// within the configured bound.
	ErrTimeout = runner.ErrTimeout

	// ErrTransferFailed is returned when the scp step of a copy fails.
	// The files did not land on the remote host.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrFixupFailed is returned when files were transferred but the
	// follow-up chmod/chown command failed. The data landed, its
	// attributes may be wrong.
	ErrFixupFailed = errors.New("post-transfer fixup failed")
)
