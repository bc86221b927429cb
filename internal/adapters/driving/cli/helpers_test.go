package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

type fakeContent struct {
	page     *domain.ContentPage
	location *domain.Location
	err      error
	requests []domain.PageRequest
}

func (f *fakeContent) ReadPage(_ context.Context, req domain.PageRequest) (*domain.ContentPage, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeContent) Locate(context.Context, string, string, string) (*domain.Location, error) {
	return f.location, f.err
}

type fakeTOC struct {
	toc   *domain.TableOfContents
	err   error
	langs []string
}

func (f *fakeTOC) Load(_ context.Context, _, language string) (*domain.TableOfContents, error) {
	f.langs = append(f.langs, language)
	return f.toc, f.err
}

func (f *fakeTOC) Invalidate(string) {}

type fakePreferences struct {
	prefs domain.Preferences
	saved []domain.Preferences
}

func (f *fakePreferences) Get() (domain.Preferences, error) { return f.prefs, nil }

func (f *fakePreferences) Save(p domain.Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	f.saved = append(f.saved, p)
	f.prefs = p
	return nil
}

func (f *fakePreferences) GetDefaults() domain.Preferences { return domain.DefaultPreferences() }

type fakeHistory struct {
	positions []domain.ReadingPosition
	err       error
	limits    []int
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]domain.ReadingPosition, error) {
	f.limits = append(f.limits, limit)
	return f.positions, f.err
}

func samplePage() *domain.ContentPage {
	return &domain.ContentPage{
		Sections: []domain.Section{{
			ID: "c1", Title: "Chapter One",
			Segments: []domain.Segment{
				{ID: "seg1", Ordinal: 1, Content: "alpha"},
				{ID: "seg2", Ordinal: 2, Content: "beta"},
			},
		}},
		CurrentSegmentPosition: 1,
		TotalSegments:          2,
		TextDetail:             domain.TextDetail{ID: "t1", Title: "The Text"},
	}
}

func sampleTOC() *domain.TableOfContents {
	return &domain.TableOfContents{
		TextID:     "t1",
		TextDetail: domain.TextDetail{ID: "t1", Title: "The Text"},
		Contents: []domain.TOCContent{{
			ID: "content-a",
			Sections: []domain.Section{{
				ID: "c1", Title: "One",
				Sections: []domain.Section{{ID: "s1", Title: "One.1"}},
			}, {
				ID: "c2",
			}},
		}},
	}
}

func samplePosition() domain.ReadingPosition {
	return domain.ReadingPosition{
		Key:       domain.SessionKey{TextID: "t1", ContentID: "c1"},
		SectionID: "s4",
		UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// useServices installs s for the duration of a test.
func useServices(t *testing.T, s *Services) {
	t.Helper()
	SetServices(s)
	t.Cleanup(func() {
		SetServices(nil)
		SetBootstrap(nil)
	})
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores every flag to its default between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
