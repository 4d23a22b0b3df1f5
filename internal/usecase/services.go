package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/V4T54L/journalview/internal/domain"
)

// InitUnit is the pseudo-unit standing for the init process. Selecting it
// filters on pid 1 instead of a unit name.
const InitUnit = "Init (Systemd)"

// SplitInitUnit removes every occurrence of InitUnit from services and
// reports whether it was present.
func SplitInitUnit(services []string) ([]string, bool) {
	units := slices.DeleteFunc(slices.Clone(services), func(s string) bool { return s == InitUnit })
	return units, len(units) != len(services)
}

// ServiceCatalog lists the units a query can filter on.
type ServiceCatalog struct {
	units domain.UnitLister
	boots domain.BootLister
}

// NewServiceCatalog creates a new ServiceCatalog. Either lister may be nil.
func NewServiceCatalog(units domain.UnitLister, boots domain.BootLister) *ServiceCatalog {
	return &ServiceCatalog{units: units, boots: boots}
}

// ListServices returns the installed service units, preceded by InitUnit.
func (c *ServiceCatalog) ListServices(ctx context.Context) ([]domain.Unit, error) {
	out := []domain.Unit{{UnitFile: InitUnit}}
	if c.units == nil {
		return out, nil
	}
	units, err := c.units.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return append(out, units...), nil
}

// ListBoots returns the recorded boots, newest first.
func (c *ServiceCatalog) ListBoots(ctx context.Context) ([]domain.Boot, error) {
	if c.boots == nil {
		return nil, nil
	}
	boots, err := c.boots.ListBoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boots: %w", err)
	}
	return boots, nil
}
