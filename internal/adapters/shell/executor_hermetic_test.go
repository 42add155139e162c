package shell_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/loom/internal/adapters/shell"
	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestExecutor_Execute_CommandPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	// Every output line is mirrored to the debug log with the command name.
	mockLogger.EXPECT().Debug("[hook pre_build] success").Times(1)

	executor := shell.NewExecutor(mockLogger)

	toolDir := t.TempDir()
	cmdName := "generate-assets"
	content := "#!/bin/sh\necho success\n"
	//nolint:gosec // Test requires executable file
	require.NoError(t, os.WriteFile(filepath.Join(toolDir, cmdName), []byte(content), 0o700))

	cmd := &domain.Command{
		Name: "hook pre_build",
		Args: []string{cmdName},
		Dir:  t.TempDir(),
		// The command PATH is searched, not the inherited one.
		Env: map[string]string{"PATH": toolDir},
	}

	var stdout bytes.Buffer
	require.NoError(t, executor.Execute(context.Background(), cmd, &stdout))
	assert.Contains(t, stdout.String(), "success")
}
