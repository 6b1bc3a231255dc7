package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/junohq/agentskills/pkg/clients"
	"github.com/junohq/agentskills/pkg/presenter"
	"github.com/junohq/agentskills/pkg/skills"
	"github.com/junohq/agentskills/pkg/skills/guardagent"
	markettypes "github.com/junohq/agentskills/pkg/types/market"
	skilltypes "github.com/junohq/agentskills/pkg/types/skills"
	"github.com/junohq/agentskills/pkg/watchlist"
	"github.com/junohq/agentskills/pkg/watchlist/sqlite"
)

var runCmd = &cobra.Command{
	Use:   "run <skill> [parameters-json]",
	Short: "Run a skill with JSON parameters",
	Long: `Run a skill by name with a JSON parameter object, e.g.:

  agentskills run guard_agent '{"action": "scan_url", "url": "http://169.254.169.254/"}'
  agentskills run market_analyzer '{"action": "quote", "symbol": "AAPL"}'

The provider client is configured from ANTHROPIC_API_KEY or
OPENAI_API_KEY. Pass --db to persist the watchlist to SQLite.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		parameters := "{}"
		if len(args) == 2 {
			parameters = args[1]
		}
		if !json.Valid([]byte(parameters)) {
			return errors.New("parameters must be a valid JSON object")
		}

		env, cleanup, err := buildEnvironment(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		var result skilltypes.SkillResult
		rulesPath, _ := cmd.Flags().GetString("rules")
		if rulesPath != "" && args[0] == guardagent.SkillName {
			textRules, promptRules, err := guardagent.LoadRulePack(rulesPath)
			if err != nil {
				return errors.Wrap(err, "failed to load rule pack")
			}
			skill := guardagent.NewSkill(guardagent.WithExtraRules(textRules, promptRules))
			result = skills.RunWith(ctx, env, skill, parameters)
		} else {
			result = skills.RunSkill(ctx, env, args[0], parameters)
		}

		showMetadata, _ := cmd.Flags().GetBool("metadata")
		if showMetadata {
			out, err := json.MarshalIndent(result.StructuredData(), "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to marshal metadata")
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Println(strings.TrimSpace(result.AssistantFacing()))
		if result.IsError() {
			os.Exit(1)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available skills",
	Run: func(cmd *cobra.Command, args []string) {
		for _, skill := range skills.GetSkills() {
			presenter.Section(skill.Name())
			summary := strings.SplitN(skill.Description(), "\n", 2)[0]
			presenter.Info(summary)
		}
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema <skill>",
	Short: "Print the JSON schema for a skill's parameters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skill, err := skills.GetSkill(args[0])
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(skill.GenerateSchema(), "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal schema")
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("metadata", false, "Print the structured metadata envelope instead of the text result")
	runCmd.Flags().String("rules", "", "YAML rule pack extending the guard-agent threat rules")
}

// buildEnvironment assembles the skill environment from configuration:
// the provider client from API-key environment variables, the watchlist
// from --db (SQLite) or memory, and the per-call config from viper.
func buildEnvironment(ctx context.Context) (skilltypes.Environment, func(), error) {
	opts := []skills.EnvOption{}
	cleanup := func() {}

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		opts = append(opts, skills.WithProviderClient(clients.NewAnthropicClient(key, viper.GetString("model"))))
	} else if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		opts = append(opts, skills.WithProviderClient(clients.NewOpenAIClient(key, viper.GetString("model"))))
	}

	var store markettypes.WatchlistStore
	if dbPath := viper.GetString("db"); dbPath != "" {
		sqliteStore, err := sqlite.NewStore(ctx, dbPath)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open watchlist database")
		}
		store = sqliteStore
		cleanup = func() { sqliteStore.Close() }
	} else {
		store = watchlist.NewMemoryStore()
	}
	opts = append(opts, skills.WithWatchlist(store))

	cfg := skilltypes.Config{
		TimeoutMs: viper.GetInt("timeout_ms"),
		Model:     viper.GetString("model"),
		MaxTokens: viper.GetInt("max_tokens"),
	}
	if maxCost := viper.GetFloat64("max_cost_usd"); maxCost > 0 {
		cfg.MaxCostUsd = &maxCost
	}
	opts = append(opts, skills.WithConfig(cfg))

	return skills.NewBasicEnvironment(opts...), cleanup, nil
}
