package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rileyhilliard/vitals/internal/config"
	"github.com/rileyhilliard/vitals/internal/ranges"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// StorageBackendCheck verifies the range backend opens and that any stored
// config decodes. A bad stored value is a warning since the dashboard falls
// back to defaults.
type StorageBackendCheck struct {
	Storage config.StorageConfig

	// Open overrides ranges.Open, for tests.
	Open func(ctx context.Context, cfg config.StorageConfig) (ranges.Backend, error)
}

func (c *StorageBackendCheck) Name() string     { return "storage_backend" }
func (c *StorageBackendCheck) Category() string { return "STORAGE" }

func (c *StorageBackendCheck) Run(ctx context.Context) CheckResult {
	open := c.Open
	if open == nil {
		open = ranges.Open
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	backend, err := open(ctx, c.Storage)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot open %s backend: %v", backendName(c.Storage), err),
			Suggestion: "Check the storage section of your .vitals.yaml",
		}
	}
	defer backend.Close()

	key := c.Storage.Key
	if key == "" {
		key = ranges.DefaultKey
	}

	data, err := backend.Get(ctx, key)
	switch {
	case errors.Is(err, ranges.ErrNotFound):
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("%s backend ready, no saved ranges (defaults in use)", backendName(c.Storage)),
		}
	case err != nil:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot read '%s': %v", key, err),
			Suggestion: "Check the backend is reachable and readable",
		}
	}

	if _, err := vitals.ParseRanges(data); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Stored ranges unreadable (%v), defaults will be used", err),
			Suggestion: "Run 'vitals ranges reset' to overwrite them",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s backend ready, saved ranges load", backendName(c.Storage)),
	}
}

func (c *StorageBackendCheck) Fix() error {
	return nil
}

func backendName(cfg config.StorageConfig) string {
	if cfg.Backend == "" {
		return config.BackendFile
	}
	return cfg.Backend
}

// NewStorageChecks creates the storage checks.
func NewStorageChecks(cfg config.StorageConfig) []Check {
	return []Check{
		&StorageBackendCheck{Storage: cfg},
	}
}
