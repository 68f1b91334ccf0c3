package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

var (
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	pathStyle = lipgloss.NewStyle().Faint(true)
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// NewUI returns the UI used by the CLI.
func NewUI(cmd *cobra.Command) UI {
	return NewSimpleUI(cmd)
}

// DisplayFixtures prints the configured fixture items as a table.
func (s *SimpleUI) DisplayFixtures(ctx context.Context, fixtures []m.FixtureSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sorted := append([]m.FixtureSummary(nil), fixtures...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}

		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	s.printf("\n%s", renderFixtureTable(sorted))

	return nil
}

func renderFixtureTable(fixtures []m.FixtureSummary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Type", "Name", "Root", "Constructor", "Members", "Parameters"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	files := make(map[string]struct{})

	for _, fixture := range fixtures {
		files[fixture.File] = struct{}{}

		table.Append([]string{
			fixture.File,
			string(fixture.ID.TypeFullName),
			fixture.ID.Name,
			fixture.ID.RootItemPath,
			fixture.Constructor,
			fmt.Sprintf("%d", fixture.Members),
			fmt.Sprintf("%d", fixture.Parameters),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(files)),
		fmt.Sprintf("%d fixtures", len(fixtures)),
		"", "", "", "", "",
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayVerdicts prints one styled line per checked file, followed by the
// error of each failed file.
func (s *SimpleUI) DisplayVerdicts(ctx context.Context, verdicts []m.FileVerdict) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	failed := 0

	for _, verdict := range verdicts {
		if verdict.OK() {
			s.printf("%s %s (%d fixtures)\n", okStyle.Render("ok  "), verdict.Path, verdict.Fixtures)
			continue
		}

		failed++

		s.printf("%s %s\n", failStyle.Render("FAIL"), verdict.Path)
		s.printf("%s\n", pathStyle.Render(verdict.Err.Error()))
	}

	s.printf("%d files checked, %d failed\n", len(verdicts), failed)

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
