package systemd

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/V4T54L/journalview/internal/domain"
)

// ServicePattern selects service unit files.
const ServicePattern = "*.service"

// UnitLister lists unit files through the systemd D-Bus API.
type UnitLister struct {
	logger *slog.Logger
}

// NewUnitLister creates a new UnitLister.
func NewUnitLister(logger *slog.Logger) *UnitLister {
	return &UnitLister{logger: logger.With("component", "unit_lister")}
}

// ListUnits returns every installed service unit file, sorted by name.
func (l *UnitLister) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to systemd: %w", err)
	}
	defer conn.Close()

	files, err := conn.ListUnitFilesByPatternsContext(ctx, nil, []string{ServicePattern})
	if err != nil {
		return nil, fmt.Errorf("list unit files: %w", err)
	}
	l.logger.Debug("listed unit files", "count", len(files))
	return toUnits(files), nil
}

func toUnits(files []dbus.UnitFile) []domain.Unit {
	units := make([]domain.Unit, 0, len(files))
	for _, f := range files {
		units = append(units, domain.Unit{UnitFile: path.Base(f.Path), State: f.Type})
	}
	sort.Slice(units, func(i, j int) bool { return units[i].UnitFile < units[j].UnitFile })
	return units
}
