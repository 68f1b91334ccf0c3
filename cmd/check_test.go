package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"fixtura.dev/pkg/fixtura/internal/controller"
	"fixtura.dev/pkg/fixtura/internal/domain"
)

const validFixtures = `version: 1
fixtures:
  - type: "*example.com/shop.Cart"
    members:
      Owner: { value: alice }
      Total: { unique: true }
`

// useTestWorkflow points the shared workflow at a UI writing to the returned buffer.
func useTestWorkflow(t *testing.T) *bytes.Buffer {
	t.Helper()

	out := &bytes.Buffer{}
	outputCmd := &cobra.Command{}
	outputCmd.SetOut(out)

	original := workflow
	workflow = domain.NewWorkflow(fsAdapter, fileAdapter, controller.NewUI(outputCmd))
	t.Cleanup(func() { workflow = original })

	return out
}

func runCommand(t *testing.T, sub *cobra.Command, args ...string) error {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(sub)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	return cmd.Execute()
}

// ignoreLogRotation skips the lumberjack rotation goroutine started by configureLogger.
var ignoreLogRotation = goleak.IgnoreAnyFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun")

func TestCheckCmd(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreLogRotation)

	t.Run("valid files", func(t *testing.T) {
		out := useTestWorkflow(t)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cart.yaml"), []byte(validFixtures), 0o600))

		err := runCommand(t, newCheckCmd(), "check", dir+"/...")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "cart.yaml (1 fixtures)")
		assert.Contains(t, out.String(), "1 files checked, 0 failed")
	})

	t.Run("invalid file exits with error", func(t *testing.T) {
		out := useTestWorkflow(t)
		dir := t.TempDir()
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: 2\nfixtures: []\n"), 0o600))

		err := runCommand(t, newCheckCmd(), "check", "--parallel", "1", path)
		require.ErrorIs(t, err, domain.ErrCheckFailed)
		assert.Contains(t, out.String(), "FAIL")
		assert.Contains(t, out.String(), "version: must be 1")
	})
}

func TestListCmd(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreLogRotation)

	out := useTestWorkflow(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart.yaml"), []byte(validFixtures), 0o600))

	err := runCommand(t, newListCmd(), "list", dir)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "*example.com/shop.Cart")
	assert.Contains(t, out.String(), "cart.yaml")
}
