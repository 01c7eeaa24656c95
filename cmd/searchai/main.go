package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/searchai/searchai/internal/agent"
	"github.com/searchai/searchai/internal/cli"
	"github.com/searchai/searchai/internal/client"
)

func main() {
	var (
		serverURL   = flag.String("server", envOr("SEARCHAI_SERVER_URL", "http://127.0.0.1:8000"), "tool server base URL")
		apiKey      = flag.String("api-key", os.Getenv("SEARCHAI_API_KEY"), "API key for the tool server, if auth is enabled")
		plannerName = flag.String("planner", envOr("SEARCHAI_PLANNER", "rule"), "planning strategy: rule or llm")
		message     = flag.String("m", "", "run a single turn with this message and exit")
		logLevel    = flag.String("log-level", envOr("SEARCHAI_LOG_LEVEL", "warn"), "log level")
	)
	flag.Parse()

	setupLogging(*logLevel)

	planner, err := buildPlanner(*plannerName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build planner")
	}

	a := agent.New(client.New(*serverURL, *apiKey), planner)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *message != "" {
		fmt.Println(a.Turn(ctx, *message))
		return
	}

	repl := cli.NewREPL(a, os.Stdin, os.Stdout)
	if err := repl.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("session ended with error")
	}
}

func buildPlanner(name string) (agent.Planner, error) {
	switch name {
	case "rule":
		return agent.NewRulePlanner(), nil
	case "llm":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("planner %q requires ANTHROPIC_API_KEY", name)
		}
		return agent.NewLLMPlanner(apiKey, os.Getenv("ANTHROPIC_MODEL"), os.Getenv("ANTHROPIC_BASE_URL")), nil
	default:
		return nil, fmt.Errorf("unknown planner %q (want rule or llm)", name)
	}
}

func setupLogging(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
