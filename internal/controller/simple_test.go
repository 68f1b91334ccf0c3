package controller

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

func newTestUI() (*SimpleUI, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	return NewSimpleUI(cmd), out
}

func TestSimpleUI_DisplayFixtures(t *testing.T) {
	ui, out := newTestUI()

	err := ui.DisplayFixtures(context.Background(), []m.FixtureSummary{
		{File: "b.yaml", ID: m.FixtureItemID{TypeFullName: "example.com/shop.Store", Name: "main"}, Members: 1},
		{File: "a.yaml", ID: m.FixtureItemID{TypeFullName: "*example.com/shop.Cart"}, Constructor: "NewCart", Members: 2, Parameters: 1},
	})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "TYPE")
	assert.Contains(t, output, "*example.com/shop.Cart")
	assert.Contains(t, output, "NewCart")
	assert.Contains(t, output, "TOTAL FILES 2")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("a.yaml")), bytes.Index(out.Bytes(), []byte("b.yaml")))
}

func TestSimpleUI_DisplayVerdicts(t *testing.T) {
	ui, out := newTestUI()

	err := ui.DisplayVerdicts(context.Background(), []m.FileVerdict{
		{Path: "good.yaml", Fixtures: 3},
		{Path: "bad.yaml", Err: errors.New("fixtures[0].type: is required")},
	})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "good.yaml (3 fixtures)")
	assert.Contains(t, output, "FAIL")
	assert.Contains(t, output, "fixtures[0].type: is required")
	assert.Contains(t, output, "2 files checked, 1 failed")
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	ui, out := newTestUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, ui.DisplayVerdicts(ctx, nil), context.Canceled)
	require.ErrorIs(t, ui.DisplayFixtures(ctx, nil), context.Canceled)
	assert.Empty(t, out.String())
}
