// Package toolchain shells out to cargo for metadata queries and
// documentation builds. Both commands run in the project directory and are
// treated as opaque subprocesses with a stdout/exit-code contract.
package toolchain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrToolchain indicates a metadata query failure (non-zero exit or
	// unparsable output).
	ErrToolchain = errors.New("toolchain error")

	// ErrBuildFailed indicates a documentation build that exited non-zero.
	// The wrapped message carries cargo's stderr verbatim.
	ErrBuildFailed = errors.New("documentation build failed")
)

// Toolchain is the external build system this service consults for the
// documentation output location and documentation generation.
type Toolchain interface {
	// TargetDir returns the toolchain-reported output directory for the
	// project. Read-only, no side effects.
	TargetDir(ctx context.Context, projectPath string) (string, error)

	// BuildDocs generates documentation for exactly one crate, excluding
	// dependency docs.
	BuildDocs(ctx context.Context, projectPath, crateName string) error
}

// Cargo invokes the cargo binary.
type Cargo struct {
	bin string
}

var _ Toolchain = (*Cargo)(nil)

// NewCargo creates a Cargo toolchain. An empty bin resolves "cargo" from PATH.
func NewCargo(bin string) *Cargo {
	if bin == "" {
		bin = "cargo"
	}
	return &Cargo{bin: bin}
}

// cargoMetadata is the subset of `cargo metadata` output we consume.
type cargoMetadata struct {
	TargetDirectory string `json:"target_directory"`
}

// TargetDir runs `cargo metadata --no-deps --format-version 1` in the project
// directory and returns the target_directory field.
//
// No timeout is enforced: a hung cargo blocks the calling request
// indefinitely, which callers accept as a known limitation.
func (c *Cargo) TargetDir(ctx context.Context, projectPath string) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin, "metadata", "--no-deps", "--format-version", "1")
	cmd.Dir = projectPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%w: cargo metadata: %s", ErrToolchain, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%w: cargo metadata: %v", ErrToolchain, err)
	}

	var meta cargoMetadata
	if err := json.Unmarshal(stdout.Bytes(), &meta); err != nil {
		return "", fmt.Errorf("%w: parsing cargo metadata output: %v", ErrToolchain, err)
	}
	if meta.TargetDirectory == "" {
		return "", fmt.Errorf("%w: cargo metadata output missing target_directory", ErrToolchain)
	}

	return meta.TargetDirectory, nil
}

// BuildDocs runs `cargo doc -p <crate> --no-deps` in the project directory.
// A non-zero exit surfaces as ErrBuildFailed carrying cargo's stderr.
func (c *Cargo) BuildDocs(ctx context.Context, projectPath, crateName string) error {
	cmd := exec.CommandContext(ctx, c.bin, "doc", "-p", crateName, "--no-deps")
	cmd.Dir = projectPath

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%w: %s", ErrBuildFailed, strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	return nil
}
