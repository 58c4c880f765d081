// Command codetour-mcp serves the tour tools over MCP on stdin/stdout.
//
// Logs go to stderr; stdout carries the protocol.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/petasbytes/codetour-mcp/internal/config"
	"github.com/petasbytes/codetour-mcp/internal/mcpserver"
	"github.com/petasbytes/codetour-mcp/internal/telemetry"
	"github.com/petasbytes/codetour-mcp/tools"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "codetour-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("codetour-mcp", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.RegisterFlags(fs)
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", mcpserver.Name, mcpserver.Version)
		return nil
	}

	cfg, err := flags.Resolve()
	if err != nil {
		return err
	}
	level, err := telemetry.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, closeLog, err := telemetry.NewLogger(stderr, telemetry.Options{Level: level, EventsPath: cfg.Log.EventsFile})
	if err != nil {
		return err
	}
	defer closeLog()

	ts := tools.New(tools.Workspace{Root: cfg.Workspace, ToursDir: cfg.ToursDir})
	logger.Debug("workspace", "root", cfg.Workspace, "tours_dir", cfg.ToursDir)

	err = mcpserver.Serve(telemetry.WithLogger(ctx, logger), mcpserver.New(ts, logger), logger, stdin, stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
