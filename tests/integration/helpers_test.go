package integration

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docker/docker/pkg/stdcopy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	xssh "golang.org/x/crypto/ssh"
)

// generateKeypair writes a fresh ed25519 private key into dir and returns
// its path together with the authorized_keys line for its public half.
func generateKeypair(t *testing.T, dir string) (string, []byte) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	block, err := xssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)

	keyPath := filepath.Join(dir, "id_ed25519")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(block), 0o600))

	sshPub, err := xssh.NewPublicKey(pub)
	require.NoError(t, err)

	return keyPath, xssh.MarshalAuthorizedKey(sshPub)
}

// execInContainer runs a command in the container and returns its exit
// code and stdout.
func execInContainer(ctx context.Context, container testcontainers.Container, cmd []string) (int, string, error) {
	exitCode, reader, err := container.Exec(ctx, cmd)
	if err != nil {
		return exitCode, "", err
	}

	// Demux the Docker stream (stdout/stderr are multiplexed)
	var stdout, stderr bytes.Buffer
	_, _ = stdcopy.StdCopy(&stdout, &stderr, reader)

	return exitCode, stdout.String(), nil
}

// assertRemoteFileContent checks that a file in the container holds
// exactly the expected content.
func assertRemoteFileContent(t *testing.T, ctx context.Context, container testcontainers.Container, path, expected string) {
	t.Helper()
	exitCode, content, err := execInContainer(ctx, container, []string{"cat", path})
	require.NoError(t, err)
	require.Equal(t, 0, exitCode, "failed to read file %s", path)
	assert.Equal(t, expected, content, "file %s content mismatch", path)
}

// assertRemoteFileMode checks that a file in the container has the
// expected permission mode.
func assertRemoteFileMode(t *testing.T, ctx context.Context, container testcontainers.Container, path, expectedMode string) {
	t.Helper()
	exitCode, mode, err := execInContainer(ctx, container, []string{"stat", "-c", "%a", path})
	require.NoError(t, err)
	require.Equal(t, 0, exitCode, "failed to stat file %s", path)
	assert.Equal(t, expectedMode, strings.TrimSpace(mode), "file %s should have mode %s", path, expectedMode)
}

// assertRemoteFileOwner checks that a file in the container has the
// expected "user:group" ownership.
func assertRemoteFileOwner(t *testing.T, ctx context.Context, container testcontainers.Container, path, expectedOwner string) {
	t.Helper()
	exitCode, owner, err := execInContainer(ctx, container, []string{"stat", "-c", "%U:%G", path})
	require.NoError(t, err)
	require.Equal(t, 0, exitCode, "failed to stat file %s", path)
	assert.Equal(t, expectedOwner, strings.TrimSpace(owner), "file %s should be owned by %s", path, expectedOwner)
}
