package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/tatsuki/kotobakit/internal/cli"
	"codeberg.org/tatsuki/kotobakit/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	ttsCmd := cli.NewTTSCommand(flags)
	ttsCmd.RunE = func(cmd *cobra.Command, args []string) error {
		proc, err := processor.NewProcessor(flags)
		if err != nil {
			return err
		}
		return proc.RunTTS(context.Background(), args)
	}

	cardCmd := cli.NewCardCommand(flags)
	cardCmd.RunE = func(cmd *cobra.Command, args []string) error {
		proc, err := processor.NewProcessor(flags)
		if err != nil {
			return err
		}
		return proc.RunCards(context.Background(), args)
	}

	rootCmd.AddCommand(ttsCmd)
	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(cli.NewConfigCommand())

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
