package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/loom/internal/app"
	"go.trai.ch/loom/internal/core/domain"
)

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output=linear)")
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("dist", "d", "", "Output directory (default \"dist\")")
	cmd.Flags().String("public-url", "", "URL prefix assets are served under (default \"/\")")
	cmd.Flags().Bool("release", false, "Minify bundled assets")
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("port", "p", domain.DefaultPort, "Port to serve on, 0 picks a free one")
	cmd.Flags().Bool("open", false, "Open the browser once the server is listening")
	cmd.Flags().Bool("no-autoreload", false, "Disable the reload script and the build event stream")
	cmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on "+domain.MetricsPath)
	cmd.Flags().String("proxy-backend", "", "Backend URL to forward requests to")
	cmd.Flags().String("proxy-rewrite", "", "Path the proxy backend is mounted at")
}

// options reads the flags the user set into app.Options.
// Flags left at their defaults do not override loom.yaml.
func options(cmd *cobra.Command) app.Options {
	flags := cmd.Flags()
	opts := app.Options{}

	opts.OutputMode, _ = flags.GetString("output")
	if ci, _ := flags.GetBool("ci"); ci {
		opts.OutputMode = "linear"
	}

	o := &opts.Overrides
	o.Dist = changedString(cmd, "dist")
	o.PublicURL = changedString(cmd, "public-url")
	o.Release = changedBool(cmd, "release")
	o.Open = changedBool(cmd, "open")
	o.NoAutoReload = changedBool(cmd, "no-autoreload")
	o.Metrics = changedBool(cmd, "metrics")
	o.ProxyBackend = changedString(cmd, "proxy-backend")
	o.ProxyRewrite = changedString(cmd, "proxy-rewrite")
	if f := flags.Lookup("port"); f != nil && f.Changed {
		port, _ := flags.GetInt("port")
		o.Port = &port
	}
	return opts
}

func changedString(cmd *cobra.Command, name string) *string {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v := f.Value.String()
	return &v
}

func changedBool(cmd *cobra.Command, name string) *bool {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}
