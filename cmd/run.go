package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentscout/hiring-assistant/internal/ai"
	"github.com/talentscout/hiring-assistant/internal/ai/gemini"
	"github.com/talentscout/hiring-assistant/internal/ai/groq"
	"github.com/talentscout/hiring-assistant/internal/candidate"
	"github.com/talentscout/hiring-assistant/internal/interview"
	"github.com/talentscout/hiring-assistant/internal/logger"
	"github.com/talentscout/hiring-assistant/internal/secrets"
	"github.com/talentscout/hiring-assistant/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive candidate interview",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("max-turns", "m", 0, "end the interview after this many candidate turns (0 = unlimited)")
	runCmd.Flags().StringP("destination", "o", "", "override the storage path for collected candidate records")

	viper.BindPFlag("storage.path", runCmd.Flags().Lookup("destination"))
}

// run drives one candidate conversation from greeting to persistence.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the talentscout hiring assistant", zap.String("version", version))

	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil || config.AI == nil {
		logger.Fatal("config is required")
	}

	model, err := newChatModel(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"initializing the chat model",
			zap.Error(err),
			zap.String("hint", "set GROQ_API_KEY (or GEMINI_API_KEY), or point ai.<provider>.api-key-file at a key file"),
		)
	}

	region := ""
	if config.Phone != nil {
		region = config.Phone.DefaultRegion
	}
	manager := candidate.NewManager(region)

	recordStore, destination, err := newStore(ctx, config.Storage)
	if err != nil {
		logger.Fatal("initializing the candidate store", zap.Error(err))
	}
	defer recordStore.Close()

	orch := interview.New(model, manager, logger,
		interview.WithHistoryWindow(config.AI.HistoryWindow),
	)

	maxTurns, _ := cmd.Flags().GetInt("max-turns")

	fmt.Printf("\nAssistant: %s\n\n", interview.Greeting())

	converse(ctx, orch, maxTurns, logger)

	finalize(ctx, orch.Record(), manager, recordStore, destination, logger)
}

// converse runs the turn loop until the candidate exits, the turn limit is
// reached, or input is closed.
func converse(ctx context.Context, orch *interview.Orchestrator, maxTurns int, logger *zap.Logger) {
	prompt := promptui.Prompt{Label: "You"}

	turns := 0
	for !orch.IsTerminated() {
		if maxTurns > 0 && turns >= maxTurns {
			logger.Info("turn limit reached, ending interview", zap.Int("max_turns", maxTurns))
			orch.Terminate()
			fmt.Printf("\nAssistant: %s\n\n", interview.Farewell())
			return
		}

		input, err := prompt.Run()
		if err != nil {
			// interrupt or closed input ends the interview gracefully
			logger.Info("input closed, ending interview", zap.Error(err))
			orch.Terminate()
			return
		}

		if strings.TrimSpace(input) == "" {
			continue
		}

		turns++
		reply := orch.Respond(ctx, input)
		fmt.Printf("\nAssistant: %s\n\n", reply)
	}
}

// finalize sanitizes, validates and persists whatever was collected.
// Validation failures are reported but never block persistence.
func finalize(ctx context.Context, record candidate.Record, manager *candidate.Manager, recordStore store.Store, destination string, logger *zap.Logger) {
	if len(record) == 0 {
		logger.Info("no candidate data collected, nothing to persist")
		return
	}

	sanitized := candidate.Sanitize(record)

	if result := manager.Validate(sanitized); !result.Valid {
		logger.Warn("candidate record has invalid fields", zap.Strings("errors", result.Errors))
	}

	row := manager.Export(sanitized)
	if err := recordStore.Append(ctx, row); err != nil {
		logger.Fatal("persisting candidate record", zap.Error(err))
	}

	logger.Info("candidate record persisted",
		zap.String("destination", destination),
		zap.Int("fields", len(row)),
		zap.Bool("complete", sanitized.IsComplete()),
		zap.String("record_hash", candidate.Hash(sanitized)),
	)
}

// newChatModel builds the configured provider client. The credential check
// happens here, before the first turn: a missing key is fatal at startup.
func newChatModel(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.ChatModel, error) {
	params := ai.GenerationParams{
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		MaxTokens:   cfg.MaxTokens,
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", "groq":
		if cfg.Groq == nil {
			return nil, fmt.Errorf("groq configuration is required when the groq provider is selected")
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "groq api key",
			File: cfg.Groq.APIKeyFile,
			Env:  "GROQ_API_KEY",
		})
		if err != nil {
			return nil, err
		}
		return groq.NewClient(apiKey, cfg.Groq.Model, params, logger)
	case "gemini":
		if cfg.Gemini == nil {
			return nil, fmt.Errorf("gemini configuration is required when the gemini provider is selected")
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, err
		}
		return gemini.NewClient(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, params, logger)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// newStore builds the configured persistence backend and returns it along
// with the resolved destination for logging.
func newStore(ctx context.Context, cfg *StorageConfig) (store.Store, string, error) {
	backend := store.BackendCSV
	if cfg != nil && cfg.Backend != "" {
		backend = strings.TrimSpace(strings.ToLower(cfg.Backend))
	}

	// viper resolves the path across the -o flag, config file and default.
	path := viper.GetString("storage.path")

	switch backend {
	case store.BackendCSV:
		return store.NewCSV(path), path, nil
	case store.BackendSQLite:
		s, err := store.NewSQLite(ctx, path)
		if err != nil {
			return nil, "", err
		}
		return s, path, nil
	default:
		return nil, "", fmt.Errorf("unsupported storage backend: %s", backend)
	}
}
