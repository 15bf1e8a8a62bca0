package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	OutputDir string
	BatchFile string

	// TTS flags
	Voice string
	Speed float64
	Pitch float64

	// Card flags
	DeckName    string
	ModelName   string
	Translation string
	KeepAudio   bool
	Translator  string
	APKGFile    string
	CSVFile     string

	// LLM flags
	OpenAIModel string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Voice:       "ja-JP-Wavenet-C",
		Speed:       1,
		Pitch:       0,
		DeckName:    "Japanese::Sentences",
		ModelName:   "Basic",
		Translator:  "openai",
		OpenAIModel: "gpt-3.5-turbo",
	}
}
