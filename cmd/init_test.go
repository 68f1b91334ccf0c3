package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })
}

func TestInitCmd_WritesConfigFiles(t *testing.T) {
	tempDir := t.TempDir()
	chdir(t, tempDir)

	cmd := newRootCmd()
	cmd.AddCommand(newInitCmd())
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), configFileName)

	info, err := os.Stat(filepath.Join(tempDir, configFileName))
	require.NoError(t, err)
	require.False(t, info.IsDir())

	contents, err := os.ReadFile(filepath.Join(tempDir, configFileName))
	require.NoError(t, err)
	require.NotEmpty(t, contents)

	sample, err := os.ReadFile(filepath.Join(tempDir, sampleFixturesFileName))
	require.NoError(t, err)

	doc, err := fileAdapter.Decode(sampleFixturesFileName, sample)
	require.NoError(t, err, "the sample must pass validation")
	require.Len(t, doc.Fixtures, 2)
	assert.Equal(t, "NewCart", doc.Fixtures[0].Constructor)
	assert.Equal(t, "alice", doc.Fixtures[0].Parameters["owner"].Value.Value)
}

func TestInitCmd_ErrorsWhenFileExists(t *testing.T) {
	for _, existing := range []string{configFileName, sampleFixturesFileName} {
		t.Run(existing, func(t *testing.T) {
			tempDir := t.TempDir()
			chdir(t, tempDir)

			require.NoError(t, os.WriteFile(filepath.Join(tempDir, existing), []byte("existing: true\n"), 0o644))

			cmd := newRootCmd()
			cmd.AddCommand(newInitCmd())
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{"init"})

			err := cmd.Execute()
			require.Error(t, err)

			contents, err := os.ReadFile(filepath.Join(tempDir, existing))
			require.NoError(t, err)
			assert.Equal(t, "existing: true\n", string(contents))
		})
	}
}
