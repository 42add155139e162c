// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/loom/internal/core/domain"
)

// Executor defines the interface for running hook commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command and streams its combined output to stdout.
	// It returns an error if the command cannot start or exits non-zero.
	Execute(ctx context.Context, cmd *domain.Command, stdout io.Writer) error
}
