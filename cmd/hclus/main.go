package main

import (
	"os"

	"github.com/drakos74/h-clus/infra/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:           "hclus",
		Short:         "Hierarchical clustering server and client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = c
			setupLog(cfg.Log)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path of the yaml config file")
}

func setupLog(l config.Log) {
	zerolog.SetGlobalLevel(l.ZerologLevel())
	if l.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Str("command", os.Args[0]).Msg("command failed")
	}
}
