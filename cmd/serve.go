package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resume analyzer page over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", ":8080", "address to listen on")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()
	defer logger.Sync()

	analyzer, err := newAnalyzer(ctx, config.AI.Gemini, logger)
	if err != nil {
		logger.Fatal("building analyzer", zap.Error(err))
	}

	logger.Info("starting the resume-analyzer", zap.String("version", version), zap.String("model", analyzer.Model()))

	handler := web.NewRouter(analyzer, logger, config.Server.CorsOrigins)

	if err := web.NewServer(config.Server.Listen, handler, logger).Run(ctx); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}

	logger.Info("server stopped")
}
