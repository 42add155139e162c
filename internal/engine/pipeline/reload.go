package pipeline

import (
	"context"
	_ "embed"
	"io"
)

//go:embed reload.js
var reloadScript string

// reloadNode injects the build event client that reloads the page after a
// successful rebuild.
func reloadNode() node {
	return node{
		kind: "reload",
		name: "reload script",
		run: func(context.Context, io.Writer) (Output, error) {
			return &headScriptOutput{content: reloadScript}, nil
		},
	}
}
