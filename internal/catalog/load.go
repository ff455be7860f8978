package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Input and output file names.
const (
	DetailsFile        = "file_details.json"
	CategoriesFile     = "file_categories.json"
	TechnologiesFile   = "file_technologies.json"
	UpdatedDetailsFile = "file_details_updated.json"

	DefaultDataDir = "dist_data"
	DefaultOutFile = "technical-documents-table-enhanced.html"
)

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Load reads the three collections from dir.
func Load(dir string) (Dataset, error) {
	var ds Dataset
	if err := readJSON(filepath.Join(dir, DetailsFile), &ds.Details); err != nil {
		return Dataset{}, err
	}
	if err := readJSON(filepath.Join(dir, CategoriesFile), &ds.Categories); err != nil {
		return Dataset{}, err
	}
	if err := readJSON(filepath.Join(dir, TechnologiesFile), &ds.Technologies); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// LoadDetails reads only file_details.json from dir.
func LoadDetails(dir string) ([]Detail, error) {
	var details []Detail
	if err := readJSON(filepath.Join(dir, DetailsFile), &details); err != nil {
		return nil, err
	}
	return details, nil
}

// WriteDetails writes details as indented JSON.
func WriteDetails(path string, details []Detail) error {
	if details == nil {
		details = []Detail{}
	}
	data, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode details: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
