package storage

import (
	"context"
	"fmt"

	"qsr-forecast/config"
	"qsr-forecast/models"
	"qsr-forecast/utils"
)

// WrittenFile describes one table persisted by DatasetWriter.
type WrittenFile struct {
	Path string
	Rows int
}

// DatasetWriter persists the sales tables and the store roster as CSV.
// Each file is all-or-nothing; files already written stay in place when a
// later one fails.
type DatasetWriter struct {
	paths   config.DataPaths
	logger  *utils.Logger
	written []WrittenFile
}

// NewDatasetWriter returns a writer targeting the given paths.
func NewDatasetWriter(paths config.DataPaths, logger *utils.Logger) *DatasetWriter {
	return &DatasetWriter{paths: paths, logger: logger}
}

// Export writes the full sales table, the roster and both partitions.
func (w *DatasetWriter) Export(ctx context.Context, ds *models.Dataset) error {
	w.written = w.written[:0]

	tables := []struct {
		path    string
		records []*models.SalesRecord
	}{
		{w.paths.SalesFile, ds.Sales},
		{w.paths.TrainFile, ds.Train},
		{w.paths.ValidationFile, ds.Validation},
	}

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.writeSales(t.path, t.records); err != nil {
			return err
		}
	}
	return w.writeStores(w.paths.StoreMetadataFile, ds.Stores)
}

// Written lists the files persisted by the last Export, in write order.
func (w *DatasetWriter) Written() []WrittenFile {
	return append([]WrittenFile(nil), w.written...)
}

// Close is a no-op; every file is closed by Export itself.
func (w *DatasetWriter) Close() error { return nil }

func (w *DatasetWriter) writeSales(path string, records []*models.SalesRecord) error {
	cw, err := NewCSVWriter(path, SalesHeader)
	if err != nil {
		return err
	}
	defer cw.Close()

	for _, r := range records {
		if err := cw.Write(SalesRow(r)); err != nil {
			return err
		}
	}
	return w.commit(cw)
}

func (w *DatasetWriter) writeStores(path string, stores []*models.StoreMetadata) error {
	cw, err := NewCSVWriter(path, StoreHeader)
	if err != nil {
		return err
	}
	defer cw.Close()

	for _, s := range stores {
		if err := cw.Write(StoreRow(s)); err != nil {
			return err
		}
	}
	return w.commit(cw)
}

func (w *DatasetWriter) commit(cw *CSVWriter) error {
	if err := cw.Commit(); err != nil {
		return fmt.Errorf("storage: write %s: %w", cw.Path(), err)
	}
	w.written = append(w.written, WrittenFile{Path: cw.Path(), Rows: cw.Rows()})
	w.logger.Info("[storage] Wrote %d rows to %s", cw.Rows(), cw.Path())
	return nil
}
