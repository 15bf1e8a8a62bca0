package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"codeberg.org/tatsuki/kotobakit/internal"
	"codeberg.org/tatsuki/kotobakit/internal/anki"
	"codeberg.org/tatsuki/kotobakit/internal/audio"
	"codeberg.org/tatsuki/kotobakit/internal/batch"
	"codeberg.org/tatsuki/kotobakit/internal/cli"
	"codeberg.org/tatsuki/kotobakit/internal/translation"
)

// NoteAdder is the subset of the AnkiConnect client used by the
// processor, narrow so tests can substitute a fake.
type NoteAdder interface {
	Ping(ctx context.Context) error
	AddNote(ctx context.Context, note anki.Note) (int64, error)
}

// Processor orchestrates audio generation, translation and card creation
type Processor struct {
	flags *cli.Flags

	provider   audio.Provider
	translator translation.Translator
	ankiClient NoteAdder
	cache      *translation.TranslationCache
}

// NewProcessor creates a processor wired from flags and configuration
func NewProcessor(flags *cli.Flags) (*Processor, error) {
	provider, err := buildProvider(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio provider: %w", err)
	}

	return &Processor{
		flags:    flags,
		provider: provider,
		cache:    translation.NewTranslationCache(),
	}, nil
}

// RunTTS generates audio files for the given phrases without touching Anki
func (p *Processor) RunTTS(ctx context.Context, args []string) error {
	entries, err := p.collectEntries(args)
	if err != nil {
		return err
	}

	generated := 0
	failed := 0
	for _, entry := range entries {
		outputFile, err := p.generateAudio(ctx, entry.Phrase)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", entry.Phrase, err)
			failed++
			continue
		}

		fmt.Printf("Generated %s\n", outputFile)
		generated++
	}

	if failed > 0 {
		fmt.Printf("%d audio files generated, %d errors\n", generated, failed)
	}

	if generated == 0 {
		return fmt.Errorf("no audio files generated")
	}
	return nil
}

// RunCards generates audio, resolves translations and creates flashcards.
// Cards go to AnkiConnect unless an .apkg or CSV export path is set.
func (p *Processor) RunCards(ctx context.Context, args []string) error {
	entries, err := p.collectEntries(args)
	if err != nil {
		return err
	}

	exportMode := p.flags.APKGFile != "" || p.flags.CSVFile != ""

	var generator *anki.Generator
	if exportMode {
		options := anki.DefaultGeneratorOptions()
		options.OutputPath = p.flags.CSVFile
		generator = anki.NewGenerator(options)
	} else {
		if p.ankiClient == nil {
			p.ankiClient = anki.NewConnectClient(ankiHost(), ankiPort())
		}
		if err := p.ankiClient.Ping(ctx); err != nil {
			return fmt.Errorf("cannot reach Anki: %w (is Anki running with the AnkiConnect add-on?)", err)
		}
	}

	added := 0
	failed := 0
	var cleanup []string

	for _, entry := range entries {
		audioFile, err := p.processEntry(ctx, entry, generator)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", entry.Phrase, err)
			failed++
			continue
		}

		added++
		if audioFile != "" {
			cleanup = append(cleanup, audioFile)
		}
	}

	if exportMode && added > 0 {
		if p.flags.CSVFile != "" {
			if err := generator.GenerateCSV(); err != nil {
				return fmt.Errorf("failed to write CSV: %w", err)
			}
			fmt.Printf("Wrote %s\n", p.flags.CSVFile)
		}
		if p.flags.APKGFile != "" {
			if err := generator.GenerateAPKG(p.flags.APKGFile, p.deckName()); err != nil {
				return fmt.Errorf("failed to write deck package: %w", err)
			}
			fmt.Printf("Wrote %s\n", p.flags.APKGFile)
		}
	}

	// A CSV export references audio files by name, so they must stay
	// on disk for the Anki import. The .apkg package embeds its media.
	keepAudio := p.flags.KeepAudio || p.flags.CSVFile != ""
	if !keepAudio {
		for _, file := range cleanup {
			if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "Warning: could not remove %s: %v\n", file, err)
			}
		}
	}

	fmt.Printf("%d cards added, %d errors\n", added, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d phrases failed", failed, len(entries))
	}
	return nil
}

// processEntry runs the full pipeline for a single phrase and returns the
// audio file path so the caller can clean it up afterwards.
func (p *Processor) processEntry(ctx context.Context, entry batch.PhraseEntry, generator *anki.Generator) (string, error) {
	audioFile, err := p.generateAudio(ctx, entry.Phrase)
	if err != nil {
		return "", err
	}

	back, err := p.resolveTranslation(ctx, entry)
	if err != nil {
		return "", err
	}

	if viper.GetBool("output.save_translations") && back != "" {
		if err := translation.SaveTranslation(p.outputDir(), entry.Phrase, back); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save translation: %v\n", err)
		}
	}

	if generator != nil {
		generator.AddCard(anki.Card{
			Front:     entry.Phrase,
			Back:      back,
			AudioFile: audioFile,
		})
		return audioFile, nil
	}

	noteID, err := p.ankiClient.AddNote(ctx, anki.Note{
		Deck:      p.deckName(),
		Model:     p.modelName(),
		Front:     entry.Phrase,
		Back:      back,
		AudioPath: audioFile,
	})
	if err != nil {
		return "", err
	}

	fmt.Printf("Added card %d: %s\n", noteID, entry.Phrase)
	return audioFile, nil
}

func (p *Processor) generateAudio(ctx context.Context, phrase string) (string, error) {
	outputFile := filepath.Join(p.outputDir(), internal.AudioFileName(phrase))

	if err := p.provider.GenerateAudio(ctx, phrase, outputFile); err != nil {
		return "", err
	}
	return outputFile, nil
}

// resolveTranslation picks the card back in order of preference: the -t
// flag, an inline translation from the batch file, then the translator.
func (p *Processor) resolveTranslation(ctx context.Context, entry batch.PhraseEntry) (string, error) {
	if p.flags.Translation != "" {
		return p.flags.Translation, nil
	}

	if entry.Translation != "" {
		return entry.Translation, nil
	}

	if cached, ok := p.cache.Get(entry.Phrase); ok {
		return cached, nil
	}

	if p.translator == nil {
		translator, err := buildTranslator(p.flags)
		if err != nil {
			return "", err
		}
		p.translator = translator
	}

	translated, err := p.translator.Translate(ctx, entry.Phrase)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}

	p.cache.Add(entry.Phrase, translated)
	return translated, nil
}

// collectEntries merges command line phrases with batch file entries
func (p *Processor) collectEntries(args []string) ([]batch.PhraseEntry, error) {
	var entries []batch.PhraseEntry

	for _, arg := range args {
		entries = append(entries, batch.PhraseEntry{Phrase: arg})
	}

	if p.flags.BatchFile != "" {
		fromFile, err := batch.ReadBatchFile(p.flags.BatchFile)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fromFile...)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no phrases given: pass phrases as arguments or use --batch")
	}
	return entries, nil
}

func (p *Processor) outputDir() string {
	if p.flags.OutputDir != "" {
		return p.flags.OutputDir
	}
	if dir := viper.GetString("output.directory"); dir != "" {
		return dir
	}
	return "."
}

func (p *Processor) deckName() string {
	if v := viper.GetString("anki.default_deck"); v != "" {
		return v
	}
	if p.flags.DeckName != "" {
		return p.flags.DeckName
	}
	return anki.DefaultDeck
}

func (p *Processor) modelName() string {
	if v := viper.GetString("anki.default_model"); v != "" {
		return v
	}
	if p.flags.ModelName != "" {
		return p.flags.ModelName
	}
	return anki.DefaultModel
}

// resolveAudioConfig merges viper settings and flag values. With the flags
// bound to viper the lookup already prefers an explicit flag over the
// config file; the flag fallbacks cover callers without bindings.
func resolveAudioConfig(flags *cli.Flags) *audio.Config {
	config := audio.DefaultProviderConfig()

	if v := viper.GetString("tts.provider"); v != "" {
		config.Provider = v
	}
	if v := viper.GetString("tts.url"); v != "" {
		config.URL = v
	}
	if v := viper.GetString("tts.voice"); v != "" {
		config.Voice = v
	} else if flags.Voice != "" {
		config.Voice = flags.Voice
	}
	if viper.IsSet("tts.speed") {
		config.Speed = viper.GetFloat64("tts.speed")
	} else {
		config.Speed = flags.Speed
	}
	if viper.IsSet("tts.pitch") {
		config.Pitch = viper.GetFloat64("tts.pitch")
	} else {
		config.Pitch = flags.Pitch
	}
	config.OpenAIKey = cli.GetOpenAIKey()
	if v := viper.GetString("openai.tts_model"); v != "" {
		config.OpenAIModel = v
	}

	return config
}

func buildProvider(flags *cli.Flags) (audio.Provider, error) {
	config := resolveAudioConfig(flags)

	provider, err := audio.NewProvider(config)
	if err != nil {
		return nil, err
	}

	// With an OpenAI key configured, a transient ondoku failure falls
	// back to the OpenAI speech API instead of failing the phrase.
	if config.Provider == "ondoku" && config.OpenAIKey != "" {
		fallback, err := audio.NewOpenAIProvider(config)
		if err == nil {
			provider = audio.NewProviderWithFallback(provider, fallback)
		}
	}

	return provider, nil
}

func buildTranslator(flags *cli.Flags) (translation.Translator, error) {
	config := translation.DefaultConfig()

	if v := viper.GetString("translation.provider"); v != "" {
		config.Provider = v
	} else if flags.Translator != "" {
		config.Provider = flags.Translator
	}
	if v := viper.GetString("openai.model"); v != "" {
		config.OpenAIModel = v
	} else if flags.OpenAIModel != "" {
		config.OpenAIModel = flags.OpenAIModel
	}
	if v := viper.GetString("gemini.model"); v != "" {
		config.GeminiModel = v
	}
	if v := viper.GetString("translation.system_prompt"); v != "" {
		config.SystemPrompt = v
	}
	config.OpenAIKey = cli.GetOpenAIKey()
	config.GeminiKey = cli.GetGeminiKey()

	return translation.NewTranslator(config)
}

func ankiHost() string {
	if v := viper.GetString("anki.host"); v != "" {
		return v
	}
	return anki.DefaultHost
}

func ankiPort() int {
	if v := viper.GetInt("anki.port"); v != 0 {
		return v
	}
	return anki.DefaultPort
}
