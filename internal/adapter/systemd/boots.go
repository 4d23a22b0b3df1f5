package systemd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/V4T54L/journalview/internal/domain"
)

// CommandRunner runs an external command and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out, nil
}

// BootLister reads the boot list from journalctl.
type BootLister struct {
	run    CommandRunner
	logger *slog.Logger
}

// NewBootLister creates a BootLister. A nil run executes journalctl on this host.
func NewBootLister(run CommandRunner, logger *slog.Logger) *BootLister {
	if run == nil {
		run = execRunner
	}
	return &BootLister{run: run, logger: logger.With("component", "boot_lister")}
}

// ListBoots returns the recorded boots, newest first.
func (l *BootLister) ListBoots(ctx context.Context) ([]domain.Boot, error) {
	out, err := l.run(ctx, "journalctl", "--list-boots", "-r", "-o", "json")
	if err != nil {
		return nil, fmt.Errorf("list boots: %w", err)
	}
	boots, err := parseBoots(out)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("listed boots", "count", len(boots))
	return boots, nil
}

func parseBoots(data []byte) ([]domain.Boot, error) {
	boots := []domain.Boot{}
	if len(bytes.TrimSpace(data)) == 0 {
		return boots, nil
	}
	if err := json.Unmarshal(data, &boots); err != nil {
		return nil, fmt.Errorf("decode boot list: %w", err)
	}
	return boots, nil
}
