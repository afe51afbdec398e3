package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Z-vren/brand-value-actor/internal/ai"
	"github.com/Z-vren/brand-value-actor/internal/ai/gemini"
	"github.com/Z-vren/brand-value-actor/internal/lead"
	"github.com/Z-vren/brand-value-actor/internal/logger"
	"github.com/Z-vren/brand-value-actor/internal/screening"
	"github.com/Z-vren/brand-value-actor/internal/secrets"
	"github.com/Z-vren/brand-value-actor/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptDone          = "Done"
	PromptReport        = "Report by qualification"
	PromptDumpToFile    = "Dump evaluations to file"
	defaultOutputFile   = "evaluations.json"
	geminiAPIKeyEnvVar  = "GEMINI_API_KEY"
	defaultProviderName = "gemini"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Results written. What next?",
	Items: []string{PromptDone, PromptReport, PromptDumpToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the brand-value-actor main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("leads", "l", "", "JSON file with the leads to evaluate")
	runCmd.Flags().StringP("output", "o", "", "file to write the evaluations to. Default is "+defaultOutputFile)
	runCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask what to do after the evaluations are written")
	runCmd.Flags().BoolP("re-evaluate", "f", false, "evaluate leads again even if a stored evaluation exists")

	viper.BindPFlag("leads-file", runCmd.Flags().Lookup("leads"))
	viper.BindPFlag("output-file", runCmd.Flags().Lookup("output"))
	viper.BindPFlag("screening.re-evaluate", runCmd.Flags().Lookup("re-evaluate"))
}

// run is the main command for the cli.
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

	logger.Info("starting the brand-value-actor", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	leadsFile := strings.TrimSpace(config.LeadsFile)
	if leadsFile == "" {
		logger.Fatal("leads file is required",
			zap.String("hint", "set the --leads flag or the 'leads-file' key in the configuration file"),
		)
	}

	leads, err := lead.FromFile(leadsFile)
	if err != nil {
		logger.Fatal("loading leads", zap.Error(err))
	}

	logger.Info("loaded leads", zap.Int("count", leads.Len()), zap.String("file", leadsFile))

	evaluator, model, err := newAIEvaluator(ctx, config.AI, leads.Model, logger)
	if err != nil {
		logger.Fatal("building ai evaluator", zap.Error(err))
	}

	logger.Info("starting the screening", zap.String("model", model))

	screener, closeStore, err := prepareScreener(config, evaluator, logger)
	if err != nil {
		logger.Fatal("preparing screener", zap.Error(err))
	}
	defer closeStore()

	evaluations := screener.Run(ctx, leads)

	outputFile := strings.TrimSpace(config.OutputFile)
	if outputFile == "" {
		outputFile = defaultOutputFile
	}

	if err := evaluations.ToFile(outputFile); err != nil {
		logger.Fatal("writing evaluations", zap.Error(err))
	}

	logger.Info("evaluations written",
		zap.String("file", outputFile),
		zap.Int("count", evaluations.Len()),
		zap.Int("qualified", evaluations.QualifiedCount()),
		zap.Int("failed", evaluations.FailedCount()),
	)

	if cmd.Flag("auto-aprove").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, evaluations); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, evaluations *ai.Evaluations) error {
	switch action {
	case PromptDone:
		logger.Info("exiting", zap.String("reason", "done requested"))
		return errExit
	case PromptReport:
		pretty, _ := json.MarshalIndent(evaluations.ReportByQualification(), "", "  ")
		logger.Info(string(pretty), zap.Int("evaluations count", evaluations.Len()))
		return nil
	case PromptDumpToFile:
		filename, err := evaluations.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump evaluations to file: %w", err)
		}
		logger.Info("dumping evaluations to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func newAIEvaluator(ctx context.Context, cfg *AIConfig, modelOverride string, log *zap.Logger) (ai.Evaluator, string, error) {
	geminiCfg := &GeminiConfig{}
	if cfg != nil {
		provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
		if provider != "" && provider != defaultProviderName {
			return nil, "", fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
		}
		if cfg.Gemini != nil {
			geminiCfg = cfg.Gemini
		}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: geminiCfg.APIKey,
		Env:   geminiAPIKeyEnvVar,
		File:  geminiCfg.APIKeyFile,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w (set GEMINI_API_KEY or ai.gemini.api-key-file)", err)
	}

	model := strings.TrimSpace(geminiCfg.Model)
	if modelOverride = strings.TrimSpace(modelOverride); modelOverride != "" {
		log.Info("model overridden by leads file", zap.String("model", modelOverride))
		model = modelOverride
	}

	genLogger := logger.WithCommonFields(log, defaultProviderName, model)

	generator, err := gemini.NewGenerator(ctx, apiKey, model, geminiCfg.MaxRetries, genLogger)
	if err != nil {
		return nil, "", err
	}

	return gemini.NewEvaluator(generator, geminiCfg.MaxLogLength, genLogger), generator.Model(), nil
}

func prepareScreener(config *Config, evaluator ai.Evaluator, log *zap.Logger) (*screening.Screener, func(), error) {
	screeningCfg := &screening.Config{}
	if config.Screening != nil {
		screeningCfg.Concurrency = config.Screening.Concurrency
		screeningCfg.RateLimit = config.Screening.RateLimit
	}
	screeningCfg.Reevaluate = viper.GetBool("screening.re-evaluate")

	closeStore := func() {}

	deps := &screening.Deps{Evaluator: evaluator, Logger: log}

	if path := strings.TrimSpace(config.StoreFile); path != "" {
		st, err := store.Open(path)
		if err != nil {
			return nil, closeStore, fmt.Errorf("opening evaluation store: %w", err)
		}

		log.Info("using evaluation store", zap.String("file", path))

		deps.Store = st
		closeStore = func() {
			if err := st.Close(); err != nil {
				log.Warn("closing evaluation store", zap.Error(err))
			}
		}
	}

	return screening.New(screeningCfg, deps), closeStore, nil
}
