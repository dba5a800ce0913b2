package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan:
// 1. TargetDir parses target_directory from metadata JSON
// 2. TargetDir fails with ErrToolchain on non-zero exit (stderr surfaced)
// 3. TargetDir fails with ErrToolchain on unparsable output
// 4. TargetDir fails with ErrToolchain when target_directory is missing
// 5. BuildDocs succeeds on exit 0
// 6. BuildDocs fails with ErrBuildFailed carrying stderr on non-zero exit
//
// A shell script standing in for cargo keeps these tests hermetic.

// fakeCargo writes an executable script that plays the cargo role.
func fakeCargo(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cargo")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

func TestCargo_TargetDir(t *testing.T) {
	t.Parallel()

	bin := fakeCargo(t, `echo '{"target_directory":"/tmp/t"}'`)
	c := NewCargo(bin)

	dir, err := c.TargetDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/t", dir)
}

func TestCargo_TargetDir_NonZeroExit(t *testing.T) {
	t.Parallel()

	bin := fakeCargo(t, `echo 'error: could not find Cargo.toml' >&2; exit 101`)
	c := NewCargo(bin)

	_, err := c.TargetDir(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolchain)
	assert.Contains(t, err.Error(), "could not find Cargo.toml")
}

func TestCargo_TargetDir_BadJSON(t *testing.T) {
	t.Parallel()

	bin := fakeCargo(t, `echo 'not json'`)
	c := NewCargo(bin)

	_, err := c.TargetDir(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolchain)
}

func TestCargo_TargetDir_MissingField(t *testing.T) {
	t.Parallel()

	bin := fakeCargo(t, `echo '{}'`)
	c := NewCargo(bin)

	_, err := c.TargetDir(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolchain)
}

func TestCargo_BuildDocs(t *testing.T) {
	t.Parallel()

	bin := fakeCargo(t, `exit 0`)
	c := NewCargo(bin)

	require.NoError(t, c.BuildDocs(context.Background(), t.TempDir(), "my-crate"))
}

func TestCargo_BuildDocs_Failure(t *testing.T) {
	t.Parallel()

	bin := fakeCargo(t, `echo 'error[E0433]: failed to resolve' >&2; exit 101`)
	c := NewCargo(bin)

	err := c.BuildDocs(context.Background(), t.TempDir(), "my-crate")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBuildFailed)
	assert.Contains(t, err.Error(), "E0433")
}

func TestNewCargo_DefaultBinary(t *testing.T) {
	t.Parallel()

	c := NewCargo("")
	assert.Equal(t, "cargo", c.bin)
}
