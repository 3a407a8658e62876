// Package catalog loads, validates and synchronizes the supplier catalog.
// Catalogs live as JSON exports on disk and as rows in a hosted
// spreadsheet; this package converts both into []models.Supplier snapshots
// for the routing engine.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"supplier-routing-service/internal/models"
	"supplier-routing-service/pkg/errors"
	"supplier-routing-service/pkg/logger"
)

// LoadStats describes the outcome of a catalog load
type LoadStats struct {
	TotalEntries   int
	ValidSuppliers int
	SkippedEntries int
	Errors         []*errors.RouterError
}

// String returns a human-readable summary of the load
func (ls *LoadStats) String() string {
	return fmt.Sprintf("Loaded %d of %d catalog entries (%d skipped)",
		ls.ValidSuppliers, ls.TotalEntries, ls.SkippedEntries)
}

// Loader reads supplier catalogs from JSON files
type Loader struct {
	logger logger.Logger
}

// NewLoader creates a catalog loader
func NewLoader() *Loader {
	return &Loader{
		logger: logger.GetGlobalLogger().WithComponent("catalog"),
	}
}

// catalogFile accepts both a bare supplier array and the exported object
// shape {"suppliers": [...]}.
type catalogFile struct {
	Suppliers []models.Supplier `json:"suppliers"`
}

// LoadFile reads a catalog from a JSON file. Malformed supplier entries are
// skipped with a diagnostic; only an unreadable or unparsable file is fatal.
func (l *Loader) LoadFile(path string) ([]models.Supplier, *LoadStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, nil, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return nil, nil, errors.FileError(errors.CodeFileCorrupted, path, err)
	}

	suppliers, err := l.Parse(data)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CategoryParse, errors.CodeInvalidFormat,
			fmt.Sprintf("catalog file %s is not valid JSON", path))
	}

	valid, stats := l.Validate(suppliers)
	l.logger.WithFields(logger.Fields{
		"file":    path,
		"valid":   stats.ValidSuppliers,
		"skipped": stats.SkippedEntries,
	}).Info("Loaded catalog")

	return valid, stats, nil
}

// Parse decodes catalog JSON without validating entries
func (l *Loader) Parse(data []byte) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := json.Unmarshal(data, &suppliers); err == nil {
		return suppliers, nil
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return file.Suppliers, nil
}

// Validate filters a supplier list down to structurally valid entries.
// Invalid entries are skipped and reported in the stats; the catalog as a
// whole stays usable.
func (l *Loader) Validate(suppliers []models.Supplier) ([]models.Supplier, *LoadStats) {
	stats := &LoadStats{TotalEntries: len(suppliers)}
	valid := make([]models.Supplier, 0, len(suppliers))

	for i := range suppliers {
		if err := suppliers[i].Validate(); err != nil {
			entryErr := errors.CatalogEntryError(errors.CodeMalformedSupplier,
				suppliers[i].Name, "", "supplier", err.Error())
			stats.Errors = append(stats.Errors, entryErr)
			stats.SkippedEntries++

			l.logger.WithError(entryErr).Warn("Skipping malformed catalog entry")
			continue
		}

		valid = append(valid, suppliers[i])
		stats.ValidSuppliers++
	}

	return valid, stats
}

// SaveFile writes the catalog back to disk in the exported object shape
func (l *Loader) SaveFile(path string, suppliers []models.Supplier) error {
	data, err := json.MarshalIndent(catalogFile{Suppliers: suppliers}, "", "  ")
	if err != nil {
		return errors.InternalError(errors.CodeUnexpectedError, "catalog serialization", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.FileError(errors.CodeFilePermission, path, err)
	}

	l.logger.WithFields(logger.Fields{
		"file":      path,
		"suppliers": len(suppliers),
	}).Info("Saved catalog")

	return nil
}
