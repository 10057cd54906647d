package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetIngestFlags() {
	ingestText = ""
	ingestSource = ""
	ingestMediaType = ""
	ingestReplace = false
}

func TestIngestCmd_RequiresFilesOrText(t *testing.T) {
	cleanup := setupTestServices(&mockAssistant{}, &mockIngest{})
	defer cleanup()
	defer resetIngestFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one file")
}

func TestIngestCmd_TextRequiresSource(t *testing.T) {
	cleanup := setupTestServices(&mockAssistant{}, &mockIngest{})
	defer cleanup()
	defer resetIngestFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "--text", "some content"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--source is required")
}

func TestIngestCmd_TextWithSource(t *testing.T) {
	ingest := &mockIngest{}
	cleanup := setupTestServices(&mockAssistant{}, ingest)
	defer cleanup()
	defer resetIngestFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--text", "Duy is an engineer.", "--source", "bio"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	require.Len(t, ingest.texts, 1)
	assert.Equal(t, "Duy is an engineer.", ingest.texts[0])
	assert.Contains(t, buf.String(), "Stored 1 chunks for bio")
}

func TestIngestCmd_File(t *testing.T) {
	ingest := &mockIngest{}
	cleanup := setupTestServices(&mockAssistant{}, ingest)
	defer cleanup()
	defer resetIngestFlags()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("file content"), 0600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", path})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Stored 1 chunks for notes.txt")
}

func TestIngestCmd_ReplaceDeletesFirst(t *testing.T) {
	ingest := &mockIngest{}
	cleanup := setupTestServices(&mockAssistant{}, ingest)
	defer cleanup()
	defer resetIngestFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--replace", "--text", "new content", "--source", "bio"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, []string{"bio"}, ingest.deleted)
}

func TestIngestCmd_MissingFileFails(t *testing.T) {
	cleanup := setupTestServices(&mockAssistant{}, &mockIngest{})
	defer cleanup()
	defer resetIngestFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "/no/such/file.txt"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files failed")
}

func TestDetectMediaType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"notes.md", "text/markdown"},
		{"doc.markdown", "text/markdown"},
		{"cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"unknown.xyz123", "text/plain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, detectMediaType(tt.path), tt.path)
	}
}
