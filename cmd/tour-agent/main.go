// Command tour-agent is an interactive chat in which Claude authors CodeTours
// in the workspace using the same tools the MCP server exposes.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/pflag"

	"github.com/petasbytes/codetour-mcp/internal/config"
	"github.com/petasbytes/codetour-mcp/internal/provider"
	"github.com/petasbytes/codetour-mcp/internal/runner"
	"github.com/petasbytes/codetour-mcp/internal/telemetry"
	"github.com/petasbytes/codetour-mcp/memory"
	"github.com/petasbytes/codetour-mcp/tools"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "tour-agent: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("tour-agent", pflag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	model := fs.String("model", "", "Anthropic model ID (default from config, else "+string(provider.DefaultModel)+")")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// Basic env check (SDK also reads API key)
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return errors.New("missing ANTHROPIC_API_KEY; export it before running")
	}

	cfg, err := flags.Resolve()
	if err != nil {
		return err
	}
	if fs.Changed("model") {
		cfg.Agent.Model = *model
	}
	level, err := telemetry.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, closeLog, err := telemetry.NewLogger(os.Stderr, telemetry.Options{Level: level, EventsPath: cfg.Log.EventsFile})
	if err != nil {
		return err
	}
	defer closeLog()

	ts := tools.New(tools.Workspace{Root: cfg.Workspace, ToursDir: cfg.ToursDir})
	persistPath := ts.Workspace().Resolve(cfg.Agent.Conversation)

	// Load prior conversation if exists
	persisted, err := memory.LoadConversation(persistPath)
	if err != nil {
		logger.Warn("failed to load persisted conversation", "path", persistPath, "error", err)
	}
	conv := memory.ToParams(persisted)

	r := runner.New(provider.NewAnthropicClient(), ts)
	r.MaxTokens = cfg.Agent.MaxTokens
	r.System = tools.Instructions

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = telemetry.WithLogger(ctx, logger)

	return chat(ctx, r, provider.Model(cfg.Agent.Model), conv, persisted, persistPath, os.Stdin)
}

func chat(ctx context.Context, r *runner.Runner, model anthropic.Model, conv []anthropic.MessageParam, persisted []memory.Message, persistPath string, in io.Reader) error {
	logger := telemetry.FromContext(ctx)
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(r.Out, "Author CodeTours with Claude (Ctrl-C to quit)\n")

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		defer close(inputCh)
		for scanner.Scan() {
			select {
			case inputCh <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	eof := false
outer:
	for {
		fmt.Fprint(r.Out, "\u001b[94mYou\u001b[0m: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.Out, "\nExiting...")
			break outer
		case user, ok = <-inputCh:
			if !ok {
				eof = true
				break outer
			}
		}
		if strings.TrimSpace(user) == "" {
			continue
		}
		conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(user)))

		// Track assistant visible text to persist after the turn
		var texts []string
		for {
			msg, toolResults, err := r.RunOneStep(ctx, model, conv)
			if err != nil {
				logger.Error("agent step failed", "error", err)
				break
			}
			conv = append(conv, msg.ToParam())
			if t := memory.AssistantText(msg); t != "" {
				texts = append(texts, t)
			}
			if len(toolResults) == 0 {
				break // done with assistant turn
			}
			// Provide tool results as a user message back to the model
			conv = append(conv, anthropic.NewUserMessage(toolResults...))
		}

		// Persist minimal text-only transcript (user + assistant)
		persisted = append(persisted, memory.Message{Role: memory.RoleUser, Text: user})
		if len(texts) > 0 {
			persisted = append(persisted, memory.Message{Role: memory.RoleAssistant, Text: strings.Join(texts, "\n")})
		}
		if err := memory.SaveConversation(persistPath, persisted); err != nil {
			logger.Warn("failed to save conversation", "path", persistPath, "error", err)
		}
	}
	// The reader goroutine has exited only once the channel is closed.
	if eof {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
	}
	return nil
}
