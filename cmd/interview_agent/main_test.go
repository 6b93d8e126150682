package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mock-interview/internal/types"
)

// execute runs the root command in-process with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		// flag values persist between in-process executions
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	for _, c := range cmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

func TestNormalizeCommand_Stdin(t *testing.T) {
	raw := "```json\n[{\"question\":\"What is a slice?\",\"answer\":\"A view over an array.\"}]\n```"

	out, err := execute(t, raw, "normalize")
	require.NoError(t, err)

	var questions []types.InterviewQuestion
	require.NoError(t, json.Unmarshal([]byte(out), &questions))
	require.Len(t, questions, 1)
	assert.Equal(t, "What is a slice?", questions[0].Question)
}

func TestNormalizeCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.txt")
	require.NoError(t, os.WriteFile(path, []byte(`Sure! [{question: "Q", answer: "A",}]`), 0o600))

	out, err := execute(t, "", "normalize", "--in", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"question": "Q"`)
}

func TestNormalizeCommand_Feedback(t *testing.T) {
	out, err := execute(t, "```json\n{\"ratings\": \"8\", \"feedback\": \"Clear.\"}\n```", "normalize", "--feedback")
	require.NoError(t, err)

	var fb types.AnswerFeedback
	require.NoError(t, json.Unmarshal([]byte(out), &fb))
	assert.Equal(t, 8, fb.Rating)
}

func TestNormalizeCommand_NoArray(t *testing.T) {
	_, err := execute(t, "I cannot help with that.", "normalize")
	assert.Error(t, err)
}

func TestGenerateCommand_RequiresAPIKey(t *testing.T) {
	_, err := execute(t, "", "generate",
		"--position", "Backend Engineer",
		"--description", "Build and operate Go services",
		"--tech-stack", "Go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestGenerateCommand_InvalidForm(t *testing.T) {
	_, err := execute(t, "", "generate", "--position", "Dev", "--description", "short", "--tech-stack", "Go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid interview form")
}

func TestEvaluateCommand_RequiresInput(t *testing.T) {
	_, err := execute(t, "", "evaluate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--question")
}

func TestMigrateCommand_Args(t *testing.T) {
	_, err := execute(t, "", "migrate", "sideways")
	assert.Error(t, err)

	_, err = execute(t, "", "migrate", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestImportJobCommand_RequiresURL(t *testing.T) {
	_, err := execute(t, "", "import-job")
	assert.Error(t, err)
}
