// Package main is the entrypoint for the sshwrap CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eugenetaranov/sshwrap/internal/inventory"
	"github.com/eugenetaranov/sshwrap/internal/output"
	"github.com/eugenetaranov/sshwrap/pkg/ssh"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	debug         bool
	noColor       bool
	inventoryPath string
)

// Connection flags shared by run and copy
var (
	login        string
	port         int
	configFile   string
	identityFile string
	agentSocket  string
	timeout      time.Duration
)

var out *output.Output

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sshwrap",
	Short: "sshwrap - run commands and copy files over the openssh binaries",
	Long: `sshwrap is a thin wrapper around the system ssh and scp binaries.
It executes non-interactive remote commands and transfers files,
optionally resolving hosts from a YAML inventory.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		out = output.New(os.Stdout, os.Stderr)
		out.SetColor(!noColor)
		if debug {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug output (logs every spawned command)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&inventoryPath, "inventory", "", "YAML inventory file with named hosts")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(hostsCmd)
}

// addConnectionFlags registers the flags shared by run and copy.
func addConnectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&login, "login", "l", "", "Remote user login")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "SSH port")
	cmd.Flags().StringVarP(&configFile, "config", "F", "", "Local ssh config file")
	cmd.Flags().StringVarP(&identityFile, "identity", "i", "", "Private key file")
	cmd.Flags().StringVar(&agentSocket, "agent-socket", "", "SSH agent socket to hand to the client")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Connection and execution timeout (e.g. 30s)")
}

// connect resolves the host argument, either an inventory alias or a
// server name, and applies flag overrides on top.
func connect(host string) (*ssh.Connection, error) {
	var opts []ssh.Option

	server := host
	if inventoryPath != "" {
		inv, err := inventory.ParseFile(inventoryPath)
		if err != nil {
			return nil, err
		}
		if entry, err := inv.Lookup(host); err == nil {
			server = entry.Server
			opts = entry.Options()
		}
	}

	if login != "" {
		opts = append(opts, ssh.WithLogin(login))
	}
	if port > 0 {
		opts = append(opts, ssh.WithPort(port))
	}
	if configFile != "" {
		opts = append(opts, ssh.WithConfigFile(configFile))
	}
	if identityFile != "" {
		opts = append(opts, ssh.WithIdentityFile(identityFile))
	}
	if agentSocket != "" {
		opts = append(opts, ssh.WithAgentSocket(agentSocket))
	}
	if timeout > 0 {
		opts = append(opts, ssh.WithTimeout(timeout))
	}

	return ssh.New(server, opts...)
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cleaning up...")
		cancel()
	}()

	return ctx, cancel
}

var (
	interpreter  string
	forwardAgent bool
)

// runCmd executes a remote command
var runCmd = &cobra.Command{
	Use:   "run <host> <command>",
	Short: "Run a command on a remote host",
	Long: `Execute a command on a remote host and print its output.
The process exits with the remote command's exit code.

Examples:
  sshwrap run web1.example.com whoami -l root
  sshwrap run web1 'uptime' --inventory hosts.yaml
  sshwrap run web1 'print("hi")' --interpreter /usr/bin/python3`,
	Args: cobra.ExactArgs(2),
	RunE: runCommand,
}

func init() {
	addConnectionFlags(runCmd)
	runCmd.Flags().StringVar(&interpreter, "interpreter", "", "Pipe the command as a script to this remote interpreter")
	runCmd.Flags().BoolVarP(&forwardAgent, "forward-agent", "A", false, "Forward the SSH agent")
}

func runCommand(cmd *cobra.Command, args []string) error {
	conn, err := connect(args[0])
	if err != nil {
		out.Error("%v", err)
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var runOpts []ssh.RunOption
	if interpreter != "" {
		runOpts = append(runOpts, ssh.WithInterpreter(interpreter))
	}
	if forwardAgent {
		runOpts = append(runOpts, ssh.WithForwardAgent())
	}

	res, err := conn.Run(ctx, args[1], runOpts...)
	if err != nil {
		out.Error("%v", err)
		return err
	}

	out.Result(res)
	if res.ExitCode != 0 {
		os.Exit(res.ExitCode)
	}
	return nil
}

var (
	mode  string
	owner string
)

// copyCmd transfers local files to a remote host
var copyCmd = &cobra.Command{
	Use:   "copy <host> <local>... <remote>",
	Short: "Copy local files to a remote host",
	Long: `Copy one or more local files to a remote path via scp.
Use "-" as a local file to read data from stdin.

Examples:
  sshwrap copy web1 app.conf /etc/app/ -l root --mode 0644
  cat secret | sshwrap copy web1 - /etc/app/secret --owner app:app`,
	Args: cobra.MinimumNArgs(3),
	RunE: copyFiles,
}

func init() {
	addConnectionFlags(copyCmd)
	copyCmd.Flags().StringVar(&mode, "mode", "", "Permission bits to apply remotely (chmod form, e.g. 0644)")
	copyCmd.Flags().StringVar(&owner, "owner", "", "Ownership to apply remotely (chown form, e.g. user:group)")
}

func copyFiles(cmd *cobra.Command, args []string) error {
	conn, err := connect(args[0])
	if err != nil {
		out.Error("%v", err)
		return err
	}

	target := args[len(args)-1]
	sources := make([]ssh.Source, 0, len(args)-2)
	for _, arg := range args[1 : len(args)-1] {
		if arg == "-" {
			sources = append(sources, ssh.Content(os.Stdin, ""))
			continue
		}
		sources = append(sources, ssh.File(arg))
	}

	ctx, cancel := signalContext()
	defer cancel()

	var copyOpts []ssh.CopyOption
	if mode != "" {
		copyOpts = append(copyOpts, ssh.WithMode(mode))
	}
	if owner != "" {
		copyOpts = append(copyOpts, ssh.WithOwner(owner))
	}

	if err := conn.Copy(ctx, sources, target, copyOpts...); err != nil {
		if errors.Is(err, ssh.ErrFixupFailed) {
			out.Error("files copied, attributes not applied: %v", err)
		} else {
			out.Error("%v", err)
		}
		return err
	}

	out.OK("copied %d file(s) to %s:%s", len(sources), conn.Server(), target)
	return nil
}

// hostsCmd lists inventory entries
var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List hosts from the inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if inventoryPath == "" {
			err := fmt.Errorf("--inventory is required")
			out.Error("%v", err)
			return err
		}
		inv, err := inventory.ParseFile(inventoryPath)
		if err != nil {
			out.Error("%v", err)
			return err
		}
		out.HostList(inv)
		return nil
	},
}
