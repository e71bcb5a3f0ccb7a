package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eugenetaranov/sshwrap/internal/inventory"
	"github.com/eugenetaranov/sshwrap/pkg/ssh"
)

func TestResult(t *testing.T) {
	var stdout, stderr bytes.Buffer
	o := New(&stdout, &stderr)
	o.SetColor(false)

	o.Result(&ssh.Result{Command: "whoami", Stdout: "root"})
	if stdout.String() != "root\n" {
		t.Errorf("stdout: got %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr should be empty, got %q", stderr.String())
	}
}

func TestResultFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	o := New(&stdout, &stderr)
	o.SetColor(false)

	o.Result(&ssh.Result{Command: "ls /x", Stderr: "no such file", ExitCode: 2})
	if !strings.Contains(stderr.String(), "no such file") {
		t.Errorf("stderr not forwarded: %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "exited with code 2") {
		t.Errorf("status line missing: %q", stderr.String())
	}
}

func TestColorToggle(t *testing.T) {
	var stdout, stderr bytes.Buffer
	o := New(&stdout, &stderr)

	o.SetColor(true)
	o.Error("boom")
	if !strings.Contains(stderr.String(), "\033[31m") {
		t.Error("expected ANSI codes with color enabled")
	}

	stderr.Reset()
	o.SetColor(false)
	o.Error("boom")
	if strings.Contains(stderr.String(), "\033[") {
		t.Error("expected no ANSI codes with color disabled")
	}
}

func TestHostList(t *testing.T) {
	var stdout, stderr bytes.Buffer
	o := New(&stdout, &stderr)
	o.SetColor(false)

	inv, err := inventory.Parse([]byte(`
hosts:
  web1:
    server: web1.example.com
    login: deploy
    port: 2222
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o.HostList(inv)
	if !strings.Contains(stdout.String(), "web1 deploy@web1.example.com:2222") {
		t.Errorf("unexpected listing: %q", stdout.String())
	}
}
