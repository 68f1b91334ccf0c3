// Package controller provides output adapters for displaying fixture configuration reports.
package controller

import (
	"context"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

// UI defines the interface for displaying configuration reports.
// Implementations can use different output methods.
type UI interface {
	DisplayFixtures(ctx context.Context, fixtures []m.FixtureSummary) error
	DisplayVerdicts(ctx context.Context, verdicts []m.FileVerdict) error
}
