package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"insurebot/internal/model"
)

// FileCatalogRepository stores the canonical catalog as one JSON array document
type FileCatalogRepository struct {
	path string
}

// NewFileCatalogRepository creates a catalog repository backed by the file at path
func NewFileCatalogRepository(path string) *FileCatalogRepository {
	return &FileCatalogRepository{path: path}
}

// Path returns the location of the catalog document
func (r *FileCatalogRepository) Path() string {
	return r.path
}

// Exists reports whether the catalog document has been written
func (r *FileCatalogRepository) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(r.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat catalog %s: %w", r.path, err)
}

// LoadPlans reads every plan in stored order
func (r *FileCatalogRepository) LoadPlans(ctx context.Context) ([]model.Plan, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", r.path, err)
	}

	var plans []model.Plan
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", r.path, err)
	}
	return plans, nil
}

// ReplacePlans overwrites the whole catalog document
func (r *FileCatalogRepository) ReplacePlans(ctx context.Context, plans []model.Plan) error {
	if plans == nil {
		plans = []model.Plan{}
	}
	data, err := json.MarshalIndent(plans, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return writeFileAtomic(r.path, data)
}

// Close is a no-op for the file backend
func (r *FileCatalogRepository) Close() error {
	return nil
}
