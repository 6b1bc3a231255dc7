// Command agentskills runs the guard-agent and market-analyzer skills
// from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/junohq/agentskills/pkg/logger"
	"github.com/junohq/agentskills/pkg/presenter"
	"github.com/junohq/agentskills/pkg/telemetry"
	"github.com/junohq/agentskills/pkg/version"
)

func init() {
	viper.SetEnvPrefix("AGENTSKILLS")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.agentskills")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "agentskills",
	Short: "Security scanning and market analysis skills for AI agents",
	Long: `agentskills bundles two agent-facing skills behind one CLI:
a guard agent that scans text, prompts, URLs, and configuration for
security threats, and a market analyzer with technical indicators and
a price watchlist.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetLogLevel(viper.GetString("log_level"))
		logger.SetLogFormat(viper.GetString("log_format"))

		shutdown, err := telemetry.InitTracer(cmd.Context(), telemetry.Config{
			Enabled:        viper.GetBool("tracing_enabled"),
			ServiceName:    "agentskills",
			ServiceVersion: version.Get().Version,
			SamplerType:    viper.GetString("tracing_sampler"),
			SamplerRatio:   viper.GetFloat64("tracing_ratio"),
		})
		if err != nil {
			logger.G(cmd.Context()).WithError(err).Warn("failed to initialize tracing")
			return
		}
		tracerShutdown = shutdown
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tracerShutdown != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerShutdown(ctx); err != nil {
				logger.G(ctx).WithError(err).Warn("failed to shut down tracing")
			}
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

var tracerShutdown func(context.Context) error

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().Bool("tracing-enabled", false, "Enable OpenTelemetry tracing")
	rootCmd.PersistentFlags().String("tracing-sampler", "always", "Trace sampler (always, never, ratio)")
	rootCmd.PersistentFlags().Float64("tracing-ratio", 1.0, "Sampling ratio for the ratio sampler")
	rootCmd.PersistentFlags().String("model", "", "Model for the guard-agent deep-analysis pass")
	rootCmd.PersistentFlags().Int("max-tokens", 0, "Max tokens for the deep-analysis response")
	rootCmd.PersistentFlags().Int("timeout-ms", 0, "Per-attempt timeout in milliseconds")
	rootCmd.PersistentFlags().Float64("max-cost-usd", 0, "Budget for market-data actions (0 = unlimited)")
	rootCmd.PersistentFlags().String("db", "", "SQLite watchlist path (default in-memory)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("tracing_enabled", rootCmd.PersistentFlags().Lookup("tracing-enabled"))
	viper.BindPFlag("tracing_sampler", rootCmd.PersistentFlags().Lookup("tracing-sampler"))
	viper.BindPFlag("tracing_ratio", rootCmd.PersistentFlags().Lookup("tracing-ratio"))
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("max_tokens", rootCmd.PersistentFlags().Lookup("max-tokens"))
	viper.BindPFlag("timeout_ms", rootCmd.PersistentFlags().Lookup("timeout-ms"))
	viper.BindPFlag("max_cost_usd", rootCmd.PersistentFlags().Lookup("max-cost-usd"))
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		presenter.Error(err, "command failed")
		fmt.Println(err)
		os.Exit(1)
	}
}
