package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-rag-client/internal/config"
	"document-rag-client/internal/logger"
)

const configFilePath = "./configs/config.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:          "ragchat",
		Short:        "Upload a PDF and ask questions about it",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			logger.Setup(loaded.Log)
			log.Debug().Interface("config", loaded).Msg("Loaded config")
			*cfg = *loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", configFilePath, "Path to the config file")

	root.AddCommand(
		newChatCmd(cfg),
		newUploadCmd(cfg),
		newAskCmd(cfg),
		newHealthCmd(cfg),
	)
	return root
}
