// Package cli implements the portfolio-rag command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/ai"
	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/config/file"
	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/extract"
	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/extract/docx"
	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/extract/markdown"
	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/extract/plaintext"
	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/storage/sqlite"
	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driving"
	"github.com/khanhduydev/portfolio-rag/internal/core/services"
	"github.com/khanhduydev/portfolio-rag/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	verboseFlag   bool
	dataDirFlag   string
	configDirFlag string
)

// Services wired by initServices. Tests replace these with mocks.
var (
	assistantService driving.AssistantService
	ingestService    driving.IngestService
	relevance        *services.RelevanceClassifier
	settingsStore    *file.SettingsStore
	settingsWatcher  *file.Watcher
	docStore         *sqlite.Store

	// newAssistant builds an assistant with per-invocation retrieval knobs.
	// nil when the default assistantService should always be used.
	newAssistant func(topK int, threshold float64) driving.AssistantService
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-rag",
	Short: "Personal portfolio RAG assistant",
	Long: `portfolio-rag answers questions about Khánh Duy's portfolio from a local
knowledge base, escalating to live web search when the knowledge base has no
good match for an on-topic question.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		if skipServiceInit(cmd) {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		closeServices()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "override the data directory (default ~/.portfolio-rag/data)")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "override the config directory (default ~/.portfolio-rag)")
}

// skipServiceInit reports whether the command runs without backing services.
func skipServiceInit(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return false
}

// initServices wires the full service graph from settings. It is idempotent
// so tests can pre-populate the service variables.
func initServices() error {
	if assistantService != nil && ingestService != nil {
		return nil
	}

	store, err := file.NewSettingsStore(configDirFlag)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	settingsStore = store
	settings := store.Settings()
	applyEnvOverrides(&settings)

	embedder, err := ai.CreateEmbeddingService(settings.Embedding)
	if err != nil {
		return fmt.Errorf("create embedding service: %w", err)
	}

	llm, err := ai.CreateLLMService(settings.LLM)
	if err != nil {
		return fmt.Errorf("create LLM service: %w", err)
	}

	webSearch, err := ai.CreateWebSearchService(settings.WebSearch)
	if err != nil {
		return fmt.Errorf("create web search service: %w", err)
	}
	if webSearch == nil {
		logger.Debug("web search disabled: no API key configured")
	}

	docStore, err = sqlite.NewStore(dataDirFlag, embedder)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}

	relevance = services.NewRelevanceClassifier(settings.SubjectTerms)

	// Subject terms follow config file edits without a restart.
	settingsWatcher, err = file.NewWatcher(store, func(s domain.Settings) {
		relevance.SetTerms(s.SubjectTerms)
	})
	if err != nil {
		logger.Warn("config watcher unavailable: %v", err)
	}

	baseOpts := services.AssistantOptions{
		TopK:             settings.TopK,
		Threshold:        settings.SimilarityThreshold,
		PreviewLength:    settings.PreviewLength,
		SubjectQualifier: settings.SubjectQualifier,
		MaxSearchResults: settings.WebSearch.MaxResults,
	}
	assistantService = services.NewAssistant(docStore, llm, webSearch, relevance, baseOpts)
	newAssistant = func(topK int, threshold float64) driving.AssistantService {
		opts := baseOpts
		if topK > 0 {
			opts.TopK = topK
		}
		if threshold > 0 {
			opts.Threshold = threshold
		}
		return services.NewAssistant(docStore, llm, webSearch, relevance, opts)
	}

	processor := services.NewProcessor(
		services.WithChunkSize(settings.ChunkSize),
		services.WithChunkOverlap(settings.ChunkOverlap),
	)
	registry := extract.NewRegistry(
		plaintext.New(),
		markdown.New(),
		docx.New(),
	)
	ingestService = services.NewIngestor(docStore, registry, processor)

	return nil
}

// applyEnvOverrides fills API keys from the environment when the config file
// leaves them empty, so keys need not live on disk.
func applyEnvOverrides(settings *domain.Settings) {
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if settings.WebSearch.APIKey == "" {
		settings.WebSearch.APIKey = os.Getenv("TAVILY_API_KEY")
	}
}

// closeServices releases resources opened by initServices.
func closeServices() {
	if settingsWatcher != nil {
		settingsWatcher.Close()
		settingsWatcher = nil
	}
	if docStore != nil {
		docStore.Close()
		docStore = nil
	}
}
