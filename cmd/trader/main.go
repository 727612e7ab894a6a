package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/idtwin/crypto-auto-trader/internal/engine"
	"github.com/idtwin/crypto-auto-trader/internal/logger"
	"github.com/idtwin/crypto-auto-trader/internal/market"
	"github.com/idtwin/crypto-auto-trader/internal/server"
	"github.com/idtwin/crypto-auto-trader/internal/version"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// LabelStyle for summary field names.
	LabelStyle = lipgloss.NewStyle().Faint(true)
)

// runAction drives a full simulated trading session: it assembles the agent
// pipeline, runs the requested number of decision cycles, and prints a
// summary of the resulting portfolio.
func runAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	cycles := cmd.Int("cycles")
	interval := cmd.Duration("interval")
	listenAddress := cmd.String("listen")
	seed := cmd.Int("seed")

	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	config := engine.DefaultConfig()

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		config, err = engine.ParseConfig(string(content))
		if err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if symbol := cmd.String("symbol"); symbol != "" {
		config.Symbol = symbol
	}

	provider := market.NewSimulatedProvider(int64(seed))

	coordinator, err := engine.NewCoordinator(config, provider, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer coordinator.Close()

	var statusServer *server.StatusServer
	if listenAddress != "" {
		statusServer = server.NewStatusServer(coordinator, appLogger)
		if err := statusServer.Start(listenAddress); err != nil {
			return fmt.Errorf("failed to start status server: %w", err)
		}
		defer statusServer.Stop()

		fmt.Println(LabelStyle.Render("Status API: ") + statusServer.BaseURL())
	}

	bar := progressbar.NewOptions(int(cycles),
		progressbar.OptionSetDescription(fmt.Sprintf("Trading %s", config.Symbol)),
		progressbar.OptionShowCount())

	executed := 0

	for i := 0; i < int(cycles); i++ {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped by user")

			return printSummary(coordinator, executed)
		default:
		}

		result, err := coordinator.RunCycle()
		if err != nil {
			return fmt.Errorf("cycle %d failed: %w", i+1, err)
		}

		if result.Executed {
			executed++
		}

		bar.Add(1)

		if interval > 0 && i < int(cycles)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(interval):
			}
		}
	}

	fmt.Println()

	return printSummary(coordinator, executed)
}

// printSummary renders the end-of-session report.
func printSummary(coordinator *engine.Coordinator, executed int) error {
	snapshot := coordinator.Snapshot()

	value, err := coordinator.PortfolioValue()
	if err != nil {
		return fmt.Errorf("failed to value portfolio: %w", err)
	}

	records, err := coordinator.TradeHistory()
	if err != nil {
		return fmt.Errorf("failed to read trade history: %w", err)
	}

	returnPct := 0.0
	if snapshot.InitialBalance > 0 {
		returnPct = (value - snapshot.InitialBalance) / snapshot.InitialBalance * 100
	}

	fmt.Println(TitleStyle.Render("Session Summary"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Symbol:"), snapshot.Symbol)
	fmt.Printf("%s %.2f\n", LabelStyle.Render("Initial balance:"), snapshot.InitialBalance)
	fmt.Printf("%s %.2f\n", LabelStyle.Render("Portfolio value:"), value)
	fmt.Printf("%s %.2f%%\n", LabelStyle.Render("Total return:"), returnPct)
	fmt.Printf("%s %d recorded, %d executed\n", LabelStyle.Render("Trades:"), len(records), executed)

	fmt.Println(TitleStyle.Render("Agents"))

	for _, agent := range snapshot.Agents {
		fmt.Printf("%s %s (streak %+d, %d trades)\n",
			LabelStyle.Render(agent.Name+":"), agent.Status,
			agent.Memory.CurrentStreak, agent.Memory.TotalTrades)
	}

	return nil
}

func main() {
	// A missing .env file is fine; environment variables still apply.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:    "trader",
		Usage:   "Run a simulated multi-agent trading session",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to a YAML session config file",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"s"},
				Usage:    "Trading symbol, overrides the config file",
				Required: false,
			},
			&cli.IntFlag{
				Name:     "cycles",
				Aliases:  []string{"n"},
				Usage:    "Number of decision cycles to run",
				Value:    20,
				Required: false,
			},
			&cli.DurationFlag{
				Name:     "interval",
				Aliases:  []string{"i"},
				Usage:    "Pause between decision cycles",
				Value:    0,
				Required: false,
			},
			&cli.StringFlag{
				Name:     "listen",
				Aliases:  []string{"l"},
				Usage:    "Address for the HTTP status API (disabled when empty)",
				Required: false,
			},
			&cli.IntFlag{
				Name:     "seed",
				Usage:    "Seed for the simulated price feed",
				Value:    42,
				Required: false,
			},
		},
		Action: runAction,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
