// Command game2048 plays, simulates and serves the 2048 environment.
//
// Subcommands:
//
//	play       play an interactive console game (u/r/d/l, q to quit)
//	simulate   run a strategy for many games and print avg/std/min/max
//	runs       list simulation runs stored in the SQLite run log
//	configs    list available board configurations
//	analyze    preview every move of a board read from a JSON file
//	mcp        serve environment sessions as MCP tools over stdio
//
// Global settings fall back to GAME2048_* environment variables, which may
// also come from a .env file in the working directory.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/config"
	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/game/session"
	"github.com/wricardo/mcp-training/game2048/game/simulate"
	"github.com/wricardo/mcp-training/game2048/internal/telemetry"
	"github.com/wricardo/mcp-training/game2048/storage/sqlite"
	"github.com/wricardo/mcp-training/game2048/transport/mcp"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "game2048"
)

// envConfig holds the process settings read from the environment
type envConfig struct {
	ConfigDir    string `env:"GAME2048_CONFIG_DIR"`
	DBPath       string `env:"GAME2048_DB" envDefault:"game2048.db"`
	LogLevel     string `env:"GAME2048_LOG_LEVEL" envDefault:"info"`
	OTELEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// parseEnv loads envConfig from the environment
func parseEnv() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// app carries state shared by the subcommands
type app struct {
	env      envConfig
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logger   zerolog.Logger
	shutdown func(context.Context) error
}

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := parseEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{env: cfg, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := newRootCommand(a).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cli.Command {
	a.logger = zerolog.Nop()

	return &cli.Command{
		Name:    AppName,
		Usage:   "2048 board engine, simulator and RL environment server",
		Version: Version,
		Reader:  a.stdin,
		Writer:  a.stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Value: a.env.ConfigDir,
				Usage: "directory of extra game configurations (built-ins are always available)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: a.env.LogLevel,
				Usage: "trace, debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "otel-endpoint",
				Value: a.env.OTELEndpoint,
				Usage: "OTLP HTTP endpoint for traces (empty disables tracing)",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			a.playCommand(),
			a.simulateCommand(),
			a.runsCommand(),
			a.configsCommand(),
			a.analyzeCommand(),
			a.mcpCommand(),
		},
	}
}

// before configures logging and tracing for every subcommand
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := zerolog.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	shutdown, err := telemetry.Setup(ctx, cmd.String("otel-endpoint"))
	if err != nil {
		return ctx, fmt.Errorf("setup telemetry: %w", err)
	}
	a.shutdown = shutdown
	return ctx, nil
}

func (a *app) after(ctx context.Context, cmd *cli.Command) error {
	if a.shutdown == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.shutdown(shutdownCtx)
}

func (a *app) loadConfig(cmd *cli.Command) (*config.Manager, *engine.GameConfig, error) {
	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return nil, nil, err
	}
	name := cmd.String("config")
	if name == "" {
		return manager, manager.GetDefault(), nil
	}
	gameConfig, err := manager.LoadConfig(name)
	if err != nil {
		return nil, nil, fmt.Errorf("load config %s: %w", name, err)
	}
	return manager, gameConfig, nil
}

func seedFrom(cmd *cli.Command) int64 {
	if seed := int64(cmd.Int("seed")); seed != 0 {
		return seed
	}
	return service.NewSeed()
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "configuration name (see configs)",
	}
}

func seedFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "seed",
		Usage: "random seed for tile spawns (0 picks one)",
	}
}

func (a *app) playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play an interactive console game",
		Flags: []cli.Flag{configFlag(), seedFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, gameConfig, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			game := engine.NewGame(gameConfig.BoardSize, rand.New(rand.NewSource(seedFrom(cmd))), out,
				engine.WithConfig(gameConfig))
			fmt.Fprint(out, game)

			scanner := bufio.NewScanner(cmd.Root().Reader)
			for !game.IsGameOver() {
				fmt.Fprint(out, "move (u/r/d/l, q to quit)> ")
				if !scanner.Scan() {
					break
				}
				input := strings.TrimSpace(scanner.Text())
				if input == "" {
					continue
				}
				if input == "q" || input == "quit" {
					break
				}
				d, err := engine.ParseDirection(input)
				if err != nil {
					fmt.Fprintln(out, err)
					continue
				}
				if err := game.Move(d); err != nil {
					return err
				}
			}

			fmt.Fprintf(out, "\nFinal score: %d after %d moves\n", game.Score(), game.Moves())
			return scanner.Err()
		},
	}
}

func (a *app) simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play many games with a fixed strategy and summarize the scores",
		Flags: []cli.Flag{
			configFlag(),
			seedFlag(),
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Value:   "swirl",
				Usage:   "strategy: " + strings.Join(simulate.Strategies(), ", "),
			},
			&cli.IntFlag{
				Name:    "runs",
				Aliases: []string{"n"},
				Value:   10,
				Usage:   "number of games",
			},
			&cli.StringFlag{
				Name:  "db",
				Value: a.env.DBPath,
				Usage: "SQLite run log (empty disables recording)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "print the console output of every game",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			strategy, err := simulate.StrategyByName(cmd.String("strategy"))
			if err != nil {
				return err
			}
			_, gameConfig, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			opts := []simulate.Option{
				simulate.WithSeed(seedFrom(cmd)),
				simulate.WithLogger(a.logger),
			}
			if cmd.Bool("verbose") {
				opts = append(opts, simulate.WithGameOutput(out))
			}
			if path := cmd.String("db"); path != "" {
				store, err := sqlite.Open(path)
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, simulate.WithRecorder(store))
			}

			summary, err := simulate.NewSimulator(gameConfig, opts...).Run(ctx, strategy, int(cmd.Int("runs")))
			if err != nil {
				return err
			}

			fmt.Fprint(out, summary)
			if summary.ID != 0 {
				fmt.Fprintf(out, "recorded as run %d\n", summary.ID)
			}
			return nil
		},
	}
}

func (a *app) runsCommand() *cli.Command {
	return &cli.Command{
		Name:      "runs",
		Usage:     "list recorded simulation runs, or show one by ID",
		ArgsUsage: "[run-id]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Value: a.env.DBPath,
				Usage: "SQLite run log",
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: 20,
				Usage: "maximum runs to list (0 lists all)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := sqlite.Open(cmd.String("db"))
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.Root().Writer
			if cmd.Args().Len() > 0 {
				id, err := strconv.ParseInt(cmd.Args().First(), 10, 64)
				if err != nil {
					return fmt.Errorf("invalid run id %q", cmd.Args().First())
				}
				run, err := store.GetRun(ctx, id)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			}

			runs, err := store.ListRuns(ctx, int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTRATEGY\tCONFIG\tRUNS\tAVG\tSTD\tMIN\tMAX\tSTARTED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.1f\t%.1f\t%d\t%d\t%s\n",
					r.ID, r.Strategy, r.Config, r.Runs, r.Average, r.StdDev, r.Min, r.Max,
					r.StartedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

func (a *app) configsCommand() *cli.Command {
	return &cli.Command{
		Name:  "configs",
		Usage: "list available board configurations",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			configs, err := manager.ListConfigs()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tBOARD\tTILES\tMAX MOVES\tDESCRIPTION")
			for _, c := range configs {
				fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%d\t%s\n",
					c.ConfigID, c.BoardSize, c.BoardSize, c.InitialTiles, c.MaxMoves, c.Description)
			}
			return tw.Flush()
		},
	}
}

func (a *app) analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "preview every move of a board given as a JSON array of rows",
		ArgsUsage: "<board.json>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("analyze needs exactly one board file")
			}
			data, err := os.ReadFile(cmd.Args().First())
			if err != nil {
				return err
			}
			var board engine.Board
			if err := json.Unmarshal(data, &board); err != nil {
				return fmt.Errorf("parse board JSON: %w", err)
			}

			analysis, err := engine.Analyze(board)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.Root().Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(analysis)
		},
	}
}

func (a *app) mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "serve environment sessions as MCP tools over stdio",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "session-ttl",
				Value: time.Hour,
				Usage: "drop sessions idle for longer than this (0 keeps them)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log every environment step",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configs, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			sessions := session.NewManager(session.WithLogger(a.logger, cmd.Bool("verbose")))
			gameService := service.NewGameService(sessions, configs)

			if ttl := cmd.Duration("session-ttl"); ttl > 0 {
				go cleanupSessions(ctx, sessions, ttl)
			}

			a.logger.Info().Str("version", Version).Msg("serving MCP over stdio")
			return mcp.NewServer(gameService).ServeStdio()
		},
	}
}

// cleanupSessions drops idle sessions until ctx is done
func cleanupSessions(ctx context.Context, sessions *session.Manager, ttl time.Duration) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.CleanupExpiredSessions(ttl)
		}
	}
}
