package cmd

import (
	"context"
	"fmt"
	stdlog "log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai/gemini"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/secrets"
)

const providerGemini = "gemini"

func newAnalyzer(ctx context.Context, cfg *GeminiConfig, log *zap.Logger) (*gemini.Analyzer, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.APIKeyFile,
		Value: cfg.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (or set ai.gemini.api-key-file / GEMINI_API_KEY_FILE)", err)
	}

	aiLogger := logger.WithCommonFields(log, providerGemini, cfg.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, aiLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAnalyzer(generator, cfg.MaxLogLength, aiLogger), nil
}

// setup builds the logger and reads the config shared by all commands.
func setup() (*zap.Logger, *Config) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		stdlog.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	return log, config
}
