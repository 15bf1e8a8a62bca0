package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/tatsuki/kotobakit/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kotobakit",
		Short: "Japanese Text-to-Speech and Anki Card Creator",
		Long: `kotobakit converts Japanese phrases into speech audio and turns them
into Anki flashcards.

Audio is fetched from the ondoku3.com TTS service, translations come
from the OpenAI (or Gemini) API, and cards are added to a running Anki
through the AnkiConnect add-on.

Examples:
  kotobakit tts こんにちは                  # Generate audio only
  kotobakit card こんにちは                 # Audio + translation + Anki card
  kotobakit card -t "Hello" こんにちは      # Use a custom translation
  kotobakit card --batch phrases.txt       # Process phrases from file`,
		Version: internal.Version,
	}

	rootCmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.kotobakit.yaml)")

	return rootCmd
}

// NewTTSCommand creates the tts subcommand (audio generation only)
func NewTTSCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tts <phrase>...",
		Short: "Generate TTS audio files only",
		Args:  cobra.ArbitraryArgs,
	}

	addCommonFlags(cmd, flags)

	return cmd
}

// NewCardCommand creates the card subcommand (audio + translation + Anki card)
func NewCardCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card <phrase>...",
		Short: "Generate TTS audio and create Anki cards",
		Args:  cobra.ArbitraryArgs,
	}

	addCommonFlags(cmd, flags)

	cmd.Flags().StringVarP(&flags.DeckName, "deck", "d", flags.DeckName, "Anki deck name")
	cmd.Flags().StringVarP(&flags.ModelName, "model", "m", flags.ModelName, "Anki note model name")
	cmd.Flags().StringVarP(&flags.Translation, "translation", "t", "", "Custom translation to use instead of API translation")
	cmd.Flags().BoolVar(&flags.KeepAudio, "keep-audio", false, "Keep audio files after adding to Anki")
	cmd.Flags().StringVar(&flags.Translator, "translator", flags.Translator, "Translation provider: openai or gemini")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "Override OpenAI model (e.g. gpt-3.5-turbo, gpt-4o)")
	cmd.Flags().StringVar(&flags.APKGFile, "apkg", "", "Write an .apkg deck package instead of using AnkiConnect")
	cmd.Flags().StringVar(&flags.CSVFile, "csv", "", "Write an Anki import CSV instead of using AnkiConnect")
	cmd.MarkFlagsMutuallyExclusive("apkg", "csv")

	viper.BindPFlag("anki.default_deck", cmd.Flags().Lookup("deck"))
	viper.BindPFlag("anki.default_model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("translation.provider", cmd.Flags().Lookup("translator"))
	viper.BindPFlag("openai.model", cmd.Flags().Lookup("openai-model"))

	return cmd
}

// NewConfigCommand creates the config subcommand
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			show, _ := cmd.Flags().GetBool("show")
			if !show {
				return cmd.Help()
			}
			ShowConfig(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().Bool("show", false, "Show current configuration")

	return cmd
}

func addCommonFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "o", "", "Directory to save audio files (default: current directory)")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process phrases from file (one per line, 'phrase = translation' supported)")
	cmd.Flags().StringVar(&flags.Voice, "voice", flags.Voice, "Override TTS voice")
	cmd.Flags().Float64Var(&flags.Speed, "speed", flags.Speed, "Override TTS speed")
	cmd.Flags().Float64Var(&flags.Pitch, "pitch", flags.Pitch, "Override TTS pitch")

	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("tts.voice", cmd.Flags().Lookup("voice"))
	viper.BindPFlag("tts.speed", cmd.Flags().Lookup("speed"))
	viper.BindPFlag("tts.pitch", cmd.Flags().Lookup("pitch"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// API keys may live in a local .env file
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".kotobakit" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kotobakit")
	}

	// Environment variables
	viper.SetEnvPrefix("KOTOBAKIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("openai.api_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("gemini.api_key")
}
