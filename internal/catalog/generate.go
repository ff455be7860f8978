package catalog

import (
	"bytes"

	"github.com/rpggio/zisseki/internal/metrics"
	"go.uber.org/zap"
)

// Result describes one generated page.
type Result struct {
	Records int
	OutPath string
}

// Generate loads dataDir, joins it and writes the page to outPath.
func Generate(dataDir, outPath string, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("loading catalog data", zap.String("dir", dataDir))
	ds, err := Load(dataDir)
	if err != nil {
		return Result{}, err
	}

	records := Join(ds.Details, ds.Categories, ds.Technologies)
	filters := BuildFilters(records)

	var buf bytes.Buffer
	if err := Render(&buf, records, filters); err != nil {
		return Result{}, err
	}
	if err := writeFileAtomic(outPath, buf.Bytes()); err != nil {
		return Result{}, err
	}

	metrics.SetCatalogRecords(len(records))
	logger.Info("catalog generated",
		zap.String("out", outPath),
		zap.Int("records", len(records)),
		zap.Int("categories", len(ds.Categories)),
		zap.Int("technologies", len(ds.Technologies)),
	)
	return Result{Records: len(records), OutPath: outPath}, nil
}
