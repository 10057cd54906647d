package domain

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Default retrieval tuning values. Threshold and preview length are the
// documented knobs of the answer policy: a top similarity above the
// threshold answers from the knowledge base, anything below considers the
// web-search escalation.
const (
	DefaultChunkSize           = 1000
	DefaultChunkOverlap        = 200
	DefaultSimilarityThreshold = 0.7
	DefaultTopK                = 5
	DefaultPreviewLength       = 200
)

// DefaultSubjectTerms is the curated list of domain terms used by the
// relevance classifier. A question containing any of these (case-insensitive
// substring match) is considered about the portfolio owner and eligible for
// web-search escalation.
var DefaultSubjectTerms = []string{
	"khánh duy",
	"khanh duy",
	"duy",
	"portfolio",
	"resume",
	"cv",
	"ai engineer",
	"machine learning",
	"deep learning",
	"rag",
	"project",
	"experience",
	"skill",
	"education",
	"contact",
}

// DefaultSubjectQualifier is appended to web-search queries so results stay
// anchored to the portfolio owner's professional domain.
const DefaultSubjectQualifier = "Khánh Duy AI engineer portfolio"

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string `toml:"base_url"`

	// APIKey is the API key (for Gemini). Usually supplied via the
	// GEMINI_API_KEY environment variable rather than the config file.
	APIKey string `toml:"api_key"`
}

// LLMSettings holds language-model provider configuration.
type LLMSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider `toml:"provider"`

	// Model is the generation model name.
	Model string `toml:"model"`

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string `toml:"base_url"`

	// APIKey is the API key (for Gemini).
	APIKey string `toml:"api_key"`
}

// WebSearchSettings holds web-search collaborator configuration.
type WebSearchSettings struct {
	// APIKey is the Tavily API key. Web escalation is disabled when empty.
	APIKey string `toml:"api_key"`

	// MaxResults bounds how many search hits feed the answer prompt.
	MaxResults int `toml:"max_results"`
}

// Settings is the full assistant configuration, persisted as TOML.
type Settings struct {
	// ChunkSize is the soft upper bound on chunk length in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the character overlap carried between chunks.
	ChunkOverlap int `toml:"chunk_overlap"`

	// SimilarityThreshold gates the grounded-answer path.
	SimilarityThreshold float64 `toml:"similarity_threshold"`

	// TopK is how many chunks retrieval returns.
	TopK int `toml:"top_k"`

	// PreviewLength bounds source previews in responses, in characters.
	PreviewLength int `toml:"preview_length"`

	// SubjectTerms drive the keyword relevance classifier.
	SubjectTerms []string `toml:"subject_terms"`

	// SubjectQualifier is appended to escalated web-search queries.
	SubjectQualifier string `toml:"subject_qualifier"`

	Embedding EmbeddingSettings `toml:"embedding"`
	LLM       LLMSettings       `toml:"llm"`
	WebSearch WebSearchSettings `toml:"web_search"`
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:           DefaultChunkSize,
		ChunkOverlap:        DefaultChunkOverlap,
		SimilarityThreshold: DefaultSimilarityThreshold,
		TopK:                DefaultTopK,
		PreviewLength:       DefaultPreviewLength,
		SubjectTerms:        append([]string(nil), DefaultSubjectTerms...),
		SubjectQualifier:    DefaultSubjectQualifier,
		Embedding: EmbeddingSettings{
			Provider: AIProviderGemini,
		},
		LLM: LLMSettings{
			Provider: AIProviderGemini,
		},
		WebSearch: WebSearchSettings{
			MaxResults: DefaultTopK,
		},
	}
}

// Normalise fills zero or out-of-range values with defaults so a partially
// written config file still yields a usable configuration.
func (s *Settings) Normalise() {
	if s.ChunkSize <= 0 {
		s.ChunkSize = DefaultChunkSize
	}
	if s.ChunkOverlap < 0 {
		s.ChunkOverlap = DefaultChunkOverlap
	}
	if s.ChunkOverlap >= s.ChunkSize {
		s.ChunkOverlap = s.ChunkSize / 4
	}
	if s.SimilarityThreshold <= 0 || s.SimilarityThreshold > 1 {
		s.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if s.TopK <= 0 {
		s.TopK = DefaultTopK
	}
	if s.PreviewLength <= 0 {
		s.PreviewLength = DefaultPreviewLength
	}
	if len(s.SubjectTerms) == 0 {
		s.SubjectTerms = append([]string(nil), DefaultSubjectTerms...)
	}
	if s.SubjectQualifier == "" {
		s.SubjectQualifier = DefaultSubjectQualifier
	}
	if !s.Embedding.Provider.IsValid() {
		s.Embedding.Provider = AIProviderGemini
	}
	if !s.LLM.Provider.IsValid() {
		s.LLM.Provider = AIProviderGemini
	}
	if s.WebSearch.MaxResults <= 0 {
		s.WebSearch.MaxResults = DefaultTopK
	}
}
