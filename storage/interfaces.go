package storage

import (
	"context"

	"qsr-forecast/models"
)

// Exporter is the interface any dataset storage backend must satisfy.
type Exporter interface {
	Export(ctx context.Context, ds *models.Dataset) error
	Close() error
}

var (
	_ Exporter = (*DatasetWriter)(nil)
	_ Exporter = (*PostgresWriter)(nil)
)
