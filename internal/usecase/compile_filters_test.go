package usecase

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/V4T54L/journalview/internal/domain"
	"github.com/V4T54L/journalview/internal/domain/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCompileFilters(t *testing.T) {
	t.Run("Priority Expands To Inclusive Set", func(t *testing.T) {
		q := domain.NewQueryBuilder().WithPriorityAboveOrEqualTo(3).WithTransports(nil).Build()
		got := CompileFilters(q).Matches()
		want := []string{"PRIORITY=0", "PRIORITY=1", "PRIORITY=2", "PRIORITY=3"}
		if !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("Dimensions In Fixed Order", func(t *testing.T) {
		q := domain.NewQueryBuilder().
			WithTransports([]string{"kernel"}).
			WithBootIDs([]string{"b1", "b2"}).
			WithinSlice("system.slice").
			WithUnits([]string{"nginx", "sshd.service"}).
			WithPriorityAboveOrEqualTo(0).
			WithPID(42).
			Build()

		got := CompileFilters(q).Matches()
		want := []string{
			"_PID=42",
			"PRIORITY=0",
			"_SYSTEMD_UNIT=nginx.service",
			"_SYSTEMD_UNIT=sshd.service",
			"_SYSTEMD_SLICE=system.slice",
			"_BOOT_ID=b1",
			"_BOOT_ID=b2",
			"_TRANSPORT=kernel",
		}
		if !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("Unset Dimensions Are Omitted", func(t *testing.T) {
		q := domain.NewQueryBuilder().WithPriorityAboveOrEqualTo(0).WithTransports(nil).Build()
		plan := CompileFilters(q)
		if len(plan.Groups) != 1 || plan.Groups[0].Field != domain.FieldPriority {
			t.Errorf("expected only the priority group, got %+v", plan.Groups)
		}
	})

	t.Run("Clamps Hand Built Priority", func(t *testing.T) {
		plan := CompileFilters(domain.QuerySpec{MinimumPriority: 12})
		if got := len(plan.Groups[0].Values); got != domain.MaxPriority+1 {
			t.Errorf("expected %d priority values, got %d", domain.MaxPriority+1, got)
		}
	})
}

func TestCompile(t *testing.T) {
	t.Run("Independent Of Insertion Order", func(t *testing.T) {
		a := Filters{}
		a[DimensionTransport] = []string{"journal"}
		a[DimensionUnit] = []string{"a.service"}
		a[DimensionPID] = []string{"7"}

		b := Filters{}
		b[DimensionPID] = []string{"7"}
		b[DimensionUnit] = []string{"a.service"}
		b[DimensionTransport] = []string{"journal"}

		if !slices.Equal(Compile(a).Matches(), Compile(b).Matches()) {
			t.Errorf("plans differ: %v vs %v", Compile(a).Matches(), Compile(b).Matches())
		}
	})

	t.Run("Drops Empty And Repeated Values", func(t *testing.T) {
		plan := Compile(Filters{DimensionBoot: {"b1", "", "b1", "b2"}, DimensionSlice: {""}})
		want := []string{"_BOOT_ID=b1", "_BOOT_ID=b2"}
		if got := plan.Matches(); !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestApplyFilters(t *testing.T) {
	logger := discardLogger()

	t.Run("Flushes Before Applying", func(t *testing.T) {
		j := mocks.NewJournal()
		_ = j.AddMatch("_SYSTEMD_UNIT=old.service")

		plan := Compile(Filters{DimensionPID: {"1"}})
		if rejected := ApplyFilters(j, plan, logger); rejected != 0 {
			t.Fatalf("expected no rejected matches, got %d", rejected)
		}
		if j.Flushes != 1 {
			t.Errorf("expected 1 flush, got %d", j.Flushes)
		}
		if got := j.ActiveMatches(); !slices.Equal(got, []string{"_PID=1"}) {
			t.Errorf("active matches = %v", got)
		}
	})

	t.Run("Rejected Match Is Skipped", func(t *testing.T) {
		j := mocks.NewJournal()
		j.MatchErrs = map[string]error{"_BOOT_ID=bad": errors.New("invalid argument")}

		plan := Compile(Filters{DimensionBoot: {"bad", "good"}, DimensionTransport: {"journal"}})
		if rejected := ApplyFilters(j, plan, logger); rejected != 1 {
			t.Fatalf("expected 1 rejected match, got %d", rejected)
		}
		want := []string{"_BOOT_ID=good", "_TRANSPORT=journal"}
		if got := j.ActiveMatches(); !slices.Equal(got, want) {
			t.Errorf("active matches = %v, want %v", got, want)
		}
	})
}
