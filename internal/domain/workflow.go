package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"fixtura.dev/pkg/fixtura/internal/adapter"
	"fixtura.dev/pkg/fixtura/internal/controller"
	m "fixtura.dev/pkg/fixtura/internal/model"
)

// ErrCheckFailed is returned by Check when at least one file is invalid.
var ErrCheckFailed = errors.New("configuration check failed")

// CheckArgs contains the arguments for checking configuration files.
type CheckArgs struct {
	Paths   []string
	Threads int
}

// ListArgs contains the arguments for listing configured fixture items.
type ListArgs struct {
	Paths   []string
	Threads int
}

// Workflow runs the configuration file commands.
type Workflow interface {
	Check(ctx context.Context, args CheckArgs) error
	List(ctx context.Context, args ListArgs) error
}

type workflow struct {
	adapter.ConfigFSAdapter
	adapter.ConfigFileAdapter
	controller.UI
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(fsAdapter adapter.ConfigFSAdapter, fileAdapter adapter.ConfigFileAdapter, ui controller.UI) Workflow {
	return &workflow{
		ConfigFSAdapter:   fsAdapter,
		ConfigFileAdapter: fileAdapter,
		UI:                ui,
	}
}

// Check decodes and validates every configuration file, Threads at a time.
func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	files, err := w.Expand(args.Paths...)
	if err != nil {
		return fmt.Errorf("expand paths: %w", err)
	}

	verdicts := make([]m.FileVerdict, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	if args.Threads > 0 {
		group.SetLimit(args.Threads)
	}

	for i, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			verdicts[i] = w.checkFile(file)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("check configuration: %w", err)
	}

	if err := w.DisplayVerdicts(ctx, verdicts); err != nil {
		return fmt.Errorf("display verdicts: %w", err)
	}

	failed := 0

	for _, verdict := range verdicts {
		if !verdict.OK() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files are invalid", ErrCheckFailed, failed, len(verdicts))
	}

	return nil
}

func (w *workflow) checkFile(path string) m.FileVerdict {
	content, err := w.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read configuration file", "path", path, "error", err)
		return m.FileVerdict{Path: path, Err: err}
	}

	doc, err := w.Decode(path, content)
	if err != nil {
		slog.Debug("configuration file is invalid", "path", path, "error", err)
		return m.FileVerdict{Path: path, Err: err}
	}

	return m.FileVerdict{Path: path, Fixtures: len(doc.Fixtures)}
}

// List loads every configuration file, Threads at a time, and displays the
// fixture items they configure.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	files, err := w.Expand(args.Paths...)
	if err != nil {
		return fmt.Errorf("expand paths: %w", err)
	}

	var (
		mu        sync.Mutex
		summaries []m.FixtureSummary
	)

	group, groupCtx := errgroup.WithContext(ctx)
	if args.Threads > 0 {
		group.SetLimit(args.Threads)
	}

	for _, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			items, err := w.Load(file)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()

			for _, item := range items {
				summaries = append(summaries, m.FixtureSummary{
					File:        file,
					ID:          item.ID,
					Constructor: item.FixtureConfiguration.Constructor,
					Members:     len(item.MemberConfigurations),
					Parameters:  len(item.ConstructorParameters),
				})
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	return w.DisplayFixtures(ctx, summaries)
}
