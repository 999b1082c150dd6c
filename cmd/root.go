package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"primeburn/internal/api"
	"primeburn/internal/banner"
	"primeburn/internal/cli"
	"primeburn/internal/config"
	"primeburn/internal/engine"
	"primeburn/internal/logging"
	"primeburn/internal/metrics"
	"primeburn/internal/stats"
	"primeburn/internal/tui"
	"primeburn/internal/workload"

	tea "github.com/charmbracelet/bubbletea"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "primeburn",
	Short: "primeburn - controllable CPU-load generator",
	Long: `
primeburn consumes CPU deterministically via primality-testing workload
units and reports achievable compute throughput, for measuring what a
constrained or overprovisioned VM really delivers.

Running without a subcommand starts the generator daemon with its HTTP
control api. Use 'top' for a live monitor and 'status' for a one-shot
report against a running instance.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func Execute() {
	// Custom Help with Banner
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Println(banner.GetString())
		cmd.Usage()
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(topCmd, statusCmd, unitCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.primeburn.yaml)")

	rootCmd.Flags().StringP("listen", "l", "0.0.0.0:8080", "Listen address for the control api")
	rootCmd.Flags().String("log-level", "info", "Log level (trace|debug|info|warn|error)")
	rootCmd.Flags().Bool("log-json", false, "Log JSON lines instead of console output")
	rootCmd.Flags().Int("batch-size", workload.DefaultBatchSize, "Candidates tested per workload unit")
	rootCmd.Flags().String("autostart", "", "Start this mode at boot (threaded|process|bursty)")
	rootCmd.Flags().Int("utilization", 50, "Burst utilization percent for autostart")

	viper.BindPFlag("listen", rootCmd.Flags().Lookup("listen"))
	viper.BindPFlag("log_level", rootCmd.Flags().Lookup("log-level"))
	viper.BindPFlag("log_json", rootCmd.Flags().Lookup("log-json"))
	viper.BindPFlag("batch_size", rootCmd.Flags().Lookup("batch-size"))
	viper.BindPFlag("autostart", rootCmd.Flags().Lookup("autostart"))
	viper.BindPFlag("autostart_utilization", rootCmd.Flags().Lookup("utilization"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".primeburn")
		}
	}
	viper.SetEnvPrefix("PRIMEBURN")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

func runServe() error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel, cfg.LogJSON)

	collector := stats.NewCollector()
	m := metrics.New()

	ctrl, err := engine.New(engine.Config{BatchSize: cfg.BatchSize}, collector, m, log)
	if err != nil {
		return err
	}

	sampler := stats.NewSampler(collector, cfg.SampleInterval, log)
	sampler.Observe = func(all, burst stats.PerfSample, intervalOps uint64) {
		m.OpsTotal.Add(float64(intervalOps))
		m.Throughput.Set(float64(all.OpsPerSecond))
		m.BurstThroughput.Set(float64(burst.OpsPerSecond))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sampler.Run(ctx)

	st := ctrl.Status()
	log.Info().Int("cores", st.Cores).Str("listen", cfg.Listen).Msg("cpu stress generator ready")

	if cfg.Autostart != "" {
		util := cfg.AutostartUtilization
		mode, err := engine.ModeFromRequest(cfg.Autostart, &util)
		if err != nil {
			return err
		}
		if err := ctrl.StartCPU(mode); err != nil {
			return err
		}
	}

	err = api.New(ctrl, collector, m, log).Run(ctx, cfg.Listen)

	if endErr := ctrl.EndCPU(); endErr != nil {
		log.Error().Err(endErr).Msg("stopping load on shutdown failed")
	}
	return err
}

// --- Subcommands ---

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Live terminal monitor for a running generator",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		p := tea.NewProgram(tui.NewModel(addr), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a one-shot status report",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		return cli.PrintStatus(cmd.OutOrStdout(), addr)
	},
}

// unitCmd is the child side of fresh-process mode: one workload unit, op
// count on stdout, exit.
var unitCmd = &cobra.Command{
	Use:    "unit",
	Hidden: true,
	Short:  "Run a single workload unit and print its op count",
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, _ := cmd.Flags().GetInt("batch")
		u := workload.NewUnit(batch)
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", u.Run())
		return nil
	},
}

func init() {
	topCmd.Flags().StringP("addr", "a", "localhost:8080", "Generator address")
	statusCmd.Flags().StringP("addr", "a", "localhost:8080", "Generator address")
	unitCmd.Flags().Int("batch", workload.DefaultBatchSize, "Candidates to test")
}
