package tui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/loom/internal/adapters/tui"
)

func TestLogTail_SlidingWindow(t *testing.T) {
	tail := tui.NewLogTail(3)

	_, _ = tail.Write([]byte("one\ntwo\nthr"))
	assert.Equal(t, []string{"one", "two", "thr"}, tail.Lines())

	_, _ = tail.Write([]byte("ee\r\nfour\nfive\n"))
	assert.Equal(t, []string{"three", "four", "five"}, tail.Lines())

	_, _ = tail.Write([]byte("six"))
	assert.Equal(t, []string{"four", "five", "six"}, tail.Lines())
}

func TestLogTail_Unlimited(t *testing.T) {
	tail := tui.NewLogTail(0)
	for range 20 {
		_, _ = tail.Write([]byte("x\n"))
	}
	assert.Len(t, tail.Lines(), 20)
}
