package pipeline

import (
	"context"
	"io"
	"strings"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/zerr"
)

// Environment variables passed to every hook.
const (
	EnvProfile   = "LOOM_PROFILE"
	EnvHTMLFile  = "LOOM_HTML_FILE"
	EnvSourceDir = "LOOM_SOURCE_DIR"
	EnvDistDir   = "LOOM_DIST_DIR"
	EnvPublicURL = "LOOM_PUBLIC_URL"
)

// RunHooks runs the hooks of stage one after another in configuration order.
// The first failing hook stops the stage.
func RunHooks(ctx context.Context, cfg *domain.BuildConfig, deps Deps, stage domain.HookStage) error {
	for _, hook := range cfg.HooksFor(stage) {
		if _, err := execute(ctx, deps, hookNode(cfg, deps, hook)); err != nil {
			return err
		}
	}
	return nil
}

func hookNode(cfg *domain.BuildConfig, deps Deps, hook domain.Hook) node {
	name := "hook " + string(hook.Stage) + ": " + strings.Join(hook.Command, " ")
	return node{
		kind: "hook",
		name: name,
		run: func(ctx context.Context, log io.Writer) (Output, error) {
			cmd := &domain.Command{
				Name: string(hook.Stage),
				Args: hook.Command,
				Dir:  cfg.SourceDir,
				Env:  hookEnv(cfg),
			}
			if err := deps.Executor.Execute(ctx, cmd, log); err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrHookFailed.Error()), "stage", string(hook.Stage))
			}
			return noOutput{}, nil
		},
	}
}

func hookEnv(cfg *domain.BuildConfig) map[string]string {
	profile := "debug"
	if cfg.Release {
		profile = "release"
	}
	return map[string]string{
		EnvProfile:   profile,
		EnvHTMLFile:  cfg.Target,
		EnvSourceDir: cfg.SourceDir,
		EnvDistDir:   cfg.Dist,
		EnvPublicURL: cfg.PublicURL,
	}
}
