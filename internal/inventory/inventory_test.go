package inventory

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantHosts int
		wantErr   bool
	}{
		{
			name: "single host",
			yaml: `
hosts:
  web1:
    server: web1.example.com
    login: deploy
    port: 2222
`,
			wantHosts: 1,
		},
		{
			name: "multiple hosts with timeout",
			yaml: `
hosts:
  web1:
    server: web1.example.com
  db1:
    server: db1.example.com
    timeout: 30s
`,
			wantHosts: 2,
		},
		{
			name: "missing server",
			yaml: `
hosts:
  broken:
    login: deploy
`,
			wantErr: true,
		},
		{
			name: "bad timeout",
			yaml: `
hosts:
  web1:
    server: web1.example.com
    timeout: soon
`,
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			yaml:    `{{{invalid`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Parse([]byte(tt.yaml))
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(inv.Hosts) != tt.wantHosts {
				t.Errorf("hosts: got %d, want %d", len(inv.Hosts), tt.wantHosts)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	inv, err := Parse([]byte(`
hosts:
  web1:
    server: web1.example.com
    login: deploy
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	host, err := inv.Lookup("web1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host.Server != "web1.example.com" || host.Login != "deploy" {
		t.Errorf("unexpected host: %+v", host)
	}

	if _, err := inv.Lookup("nope"); err == nil {
		t.Error("expected an error for an unknown alias")
	}
}

func TestNames(t *testing.T) {
	inv, err := Parse([]byte(`
hosts:
  zeta:
    server: z.example.com
  alpha:
    server: a.example.com
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := inv.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("names not sorted: %q", names)
	}
}

func TestHostOptions(t *testing.T) {
	host := Host{
		Server:  "web1.example.com",
		Login:   "deploy",
		Port:    2222,
		Timeout: "30s",
	}

	// Config/identity are omitted since they must exist on disk; three
	// remaining fields map to one option each.
	if got := len(host.Options()); got != 3 {
		t.Errorf("options: got %d, want 3", got)
	}
}
