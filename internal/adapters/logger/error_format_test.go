package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/loom/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestChainMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "standard error",
			err:  errors.New("simple"),
			want: []string{"simple"},
		},
		{
			name: "zerr chain",
			err:  zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle"), "outer"),
			want: []string{"outer", "middle", "root cause"},
		},
		{
			name: "metadata on plain error skips empty link",
			err:  zerr.With(errors.New("dial tcp: refused"), "backend", "http://localhost:9000"),
			want: []string{"dial tcp: refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ChainMessages(tt.err))
		})
	}
}

func TestFormatChain(t *testing.T) {
	got := logger.FormatChain([]string{"outer", "inner\ndetail"})
	want := "Error: outer\n\n  Caused by:\n    → inner\n      detail"
	assert.Equal(t, want, got)
}
