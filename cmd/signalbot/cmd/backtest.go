package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/backtest"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/config"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/journal"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/notify"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/signal"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/sim"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run one or more backtests over OHLCV datasets",
	Long: `Backtest replays OHLCV datasets through a strategy and the position
simulation engine.

With --config, every run in the file is executed concurrently and a
comparison table is printed. Without it, a single run is built from the
flags.

Supported strategies:
  - auto: pick by timeframe (4h turtle, 12h momentum, 1d trend)
  - turtle, momentum, trend: force a specific strategy
  - none: dataset bars carry no signals (dry replay)

Examples:
  signalbot backtest --dataset data/sol_4h.csv --symbol SOLUSDT --timeframe 4h
  signalbot backtest --config runs.yaml --db backtests.sqlite`,
	RunE: runBacktest,
}

var (
	btConfigPath string
	btDataset    string
	btSymbol     string
	btTimeframe  string
	btStrategy   string
	btFrom       string
	btTo         string

	btBalance    float64
	btRisk       float64
	btMaxLev     float64
	btCommission float64
	btMinRR      float64
	btPolicy     string

	btDBPath    string
	btTradesCSV string
	btRunsCSV   string
	btAlerts    bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "config file with a list of runs")

	backtestCmd.Flags().StringVarP(&btDataset, "dataset", "d", "", "path to OHLCV CSV (plain or .xz)")
	backtestCmd.Flags().StringVar(&btSymbol, "symbol", "SOLUSDT", "symbol label for the run")
	backtestCmd.Flags().StringVarP(&btTimeframe, "timeframe", "t", "4h", "timeframe label (4h, 12h, 1d)")
	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "auto", "strategy (auto, turtle, momentum, trend, none)")
	backtestCmd.Flags().StringVar(&btFrom, "from", "", "start of the bar range (RFC3339)")
	backtestCmd.Flags().StringVar(&btTo, "to", "", "end of the bar range, exclusive (RFC3339)")

	backtestCmd.Flags().Float64VarP(&btBalance, "balance", "b", 100, "starting balance")
	backtestCmd.Flags().Float64Var(&btRisk, "risk", 0.03, "risk fraction per trade (0.03 = 3%)")
	backtestCmd.Flags().Float64Var(&btMaxLev, "max-leverage", 7, "leverage cap")
	backtestCmd.Flags().Float64Var(&btCommission, "commission", 0.0006, "commission rate per leg of notional")
	backtestCmd.Flags().Float64Var(&btMinRR, "min-rr", 2.0, "minimum reward:risk to accept a signal")
	backtestCmd.Flags().StringVar(&btPolicy, "policy", "implied-leverage", "sizing policy (implied-leverage, max-leverage)")

	backtestCmd.Flags().StringVar(&btDBPath, "db", "", "journal runs and trades to this SQLite file (or $SIGNALBOT_DB)")
	backtestCmd.Flags().StringVar(&btTradesCSV, "trades-csv", "", "journal trades to this CSV file (with --runs-csv)")
	backtestCmd.Flags().StringVar(&btRunsCSV, "runs-csv", "", "journal runs to this CSV file (with --trades-csv)")
	backtestCmd.Flags().BoolVar(&btAlerts, "alerts", false, "print a signal alert for every entry and exit")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}

	policy, err := cfg.Risk.Policy()
	if err != nil {
		return err
	}

	var listener sim.Listener
	if btAlerts {
		listener = notify.NewAlertListener(notify.NewConsole(os.Stdout), cfg.Risk.PerTrade)
	}

	jobs := make([]backtest.Job, 0, len(cfg.Runs))
	for _, rc := range cfg.Runs {
		strat, err := resolveStrategy(rc)
		if err != nil {
			return err
		}

		from, to, err := rc.Range()
		if err != nil {
			return err
		}
		feed, err := backtest.NewCSVFeed(rc.Dataset, from, to)
		if err != nil {
			return fmt.Errorf("open dataset %s: %w", rc.Dataset, err)
		}

		runner := backtest.NewRunner(backtest.RunConfig{
			Sim: sim.Config{
				Symbol:         rc.Symbol,
				Timeframe:      rc.Timeframe,
				InitialBalance: cfg.Account.Balance,
				RiskPerTrade:   cfg.Risk.PerTrade,
				MaxLeverage:    cfg.Risk.MaxLeverage,
				CommissionRate: cfg.Risk.CommissionRate,
				MinRiskReward:  cfg.Risk.MinRiskReward,
				Policy:         policy,
			},
			Dataset:  rc.Dataset,
			Strategy: strat,
			Journal:  j,
			Listener: listener,
		})
		jobs = append(jobs, backtest.Job{Runner: runner, Feed: feed})
	}

	outcomes := backtest.RunAll(jobs)

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			continue
		}
		backtest.PrintRunSummary(os.Stdout, o.Summary)
	}
	if len(outcomes) > 1 {
		backtest.PrintComparison(os.Stdout, outcomes)
	}

	if failed == len(outcomes) {
		return fmt.Errorf("all %d runs failed: %v", failed, outcomes[0].Err)
	}
	return nil
}

func buildConfig() (*config.Config, error) {
	if btConfigPath != "" {
		return config.LoadFromFile(btConfigPath)
	}

	if btDataset == "" {
		return nil, fmt.Errorf("either --config or --dataset is required")
	}

	cfg := config.Default()
	cfg.Account.Balance = btBalance
	cfg.Risk.PerTrade = btRisk
	cfg.Risk.MaxLeverage = btMaxLev
	cfg.Risk.CommissionRate = btCommission
	cfg.Risk.MinRiskReward = btMinRR
	cfg.Risk.SizingPolicy = btPolicy
	cfg.Runs = []config.RunConfig{{
		Symbol:    btSymbol,
		Timeframe: btTimeframe,
		Dataset:   btDataset,
		Strategy:  btStrategy,
		From:      btFrom,
		To:        btTo,
	}}
	cfg.Journal = journalFlags()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func journalFlags() config.JournalConfig {
	db := btDBPath
	if db == "" {
		db = os.Getenv("SIGNALBOT_DB")
	}
	switch {
	case db != "":
		return config.JournalConfig{Type: "sqlite", DBPath: db}
	case btTradesCSV != "" && btRunsCSV != "":
		return config.JournalConfig{Type: "csv", TradesFile: btTradesCSV, RunsFile: btRunsCSV}
	default:
		return config.JournalConfig{Type: "none"}
	}
}

// openJournal returns nil when journaling is off. The backend is wrapped
// for concurrent runs.
func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	var (
		backend journal.Journal
		err     error
	)
	switch jc.Type {
	case "", "none":
		return nil, nil
	case "csv":
		backend, err = journal.NewCSV(jc.TradesFile, jc.RunsFile)
	case "sqlite":
		backend, err = journal.NewSQLite(jc.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return journal.NewLocked(backend), nil
}

func resolveStrategy(rc config.RunConfig) (signal.Strategy, error) {
	switch rc.Strategy {
	case "none":
		return nil, nil
	case "", "auto":
		return signal.ByTimeframe(rc.Timeframe)
	default:
		return signal.ByName(rc.Strategy)
	}
}
