package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
)

func TestQueryCmd_Use(t *testing.T) {
	assert.Equal(t, "query [question]", queryCmd.Use)
}

func TestQueryCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices(&mockAssistant{}, &mockIngest{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"query"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestQueryCmd_PrintsAnswerAndSources(t *testing.T) {
	assistant := &mockAssistant{response: &domain.RAGResponse{
		Answer: "Duy works on RAG systems.",
		Sources: []domain.SourceRef{
			{Title: "Bio", Source: "bio", Content: "preview", Similarity: 0.92},
		},
	}}
	cleanup := setupTestServices(assistant, &mockIngest{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "What does Duy do?"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "What does Duy do?", assistant.question)
	assert.Contains(t, buf.String(), "Duy works on RAG systems.")
	assert.Contains(t, buf.String(), "Sources:")
	assert.Contains(t, buf.String(), "Bio")
}

func TestQueryCmd_MarksWebSources(t *testing.T) {
	assistant := &mockAssistant{response: &domain.RAGResponse{
		Answer:     "From the web.",
		Sources:    []domain.SourceRef{{Title: "Hit", Source: "https://example.com", Similarity: 0.8}},
		SearchUsed: true,
	}}
	cleanup := setupTestServices(assistant, &mockIngest{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "anything"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Web sources:")
}

func TestQueryCmd_JSONOutput(t *testing.T) {
	assistant := &mockAssistant{response: &domain.RAGResponse{
		Answer:  "answer",
		Sources: []domain.SourceRef{},
	}}
	cleanup := setupTestServices(assistant, &mockIngest{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "--json", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
		queryJSON = false
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), `"answer": "answer"`)
	assert.Contains(t, buf.String(), `"searchUsed": false`)
}

func TestQueryCmd_PropagatesError(t *testing.T) {
	assistant := &mockAssistant{err: errors.New("generation failed")}
	cleanup := setupTestServices(assistant, &mockIngest{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"query", "anything"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed")
}

func TestQueryCmd_HasFlags(t *testing.T) {
	require.NotNil(t, queryCmd.Flags().Lookup("top-k"))
	require.NotNil(t, queryCmd.Flags().Lookup("threshold"))
	require.NotNil(t, queryCmd.Flags().Lookup("json"))
}
