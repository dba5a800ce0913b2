package toolchain

import "context"

// MockToolchain is a mock implementation of Toolchain for testing.
// Call counters let tests assert that the toolchain was (or was not) consulted.
type MockToolchain struct {
	TargetDirectory string
	TargetDirError  error
	BuildError      error

	TargetDirCalls int
	BuildCalls     int
}

var _ Toolchain = (*MockToolchain)(nil)

// NewMockToolchain creates a mock with sensible defaults.
func NewMockToolchain() *MockToolchain {
	return &MockToolchain{
		TargetDirectory: "/tmp/t",
	}
}

func (m *MockToolchain) TargetDir(_ context.Context, projectPath string) (string, error) {
	m.TargetDirCalls++
	if m.TargetDirError != nil {
		return "", m.TargetDirError
	}
	return m.TargetDirectory, nil
}

func (m *MockToolchain) BuildDocs(_ context.Context, projectPath, crateName string) error {
	m.BuildCalls++
	return m.BuildError
}
