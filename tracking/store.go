// Package tracking is a small experiment-tracking backend: experiments
// group runs, and each run records string parameters and numeric metrics.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	StatusRunning  RunStatus = "RUNNING"
	StatusFinished RunStatus = "FINISHED"
	StatusFailed   RunStatus = "FAILED"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("tracking: run not found")

type Experiment struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:250;not null"`
	CreatedAt time.Time
}

type Run struct {
	ID           string    `gorm:"primaryKey;size:36"`
	ExperimentID uint      `gorm:"index;not null"`
	Name         string    `gorm:"size:250"`
	Status       RunStatus `gorm:"size:16;not null"`
	StartTime    time.Time `gorm:"not null"`
	EndTime      *time.Time
	Params       []Param  `gorm:"foreignKey:RunID"`
	Metrics      []Metric `gorm:"foreignKey:RunID"`
}

type Param struct {
	RunID string `gorm:"primaryKey;size:36"`
	Key   string `gorm:"primaryKey;size:250"`
	Value string `gorm:"size:500"`
}

type Metric struct {
	ID        uint    `gorm:"primaryKey"`
	RunID     string  `gorm:"index;size:36;not null"`
	Key       string  `gorm:"size:250;not null"`
	Value     float64 `gorm:"not null"`
	Step      int64
	Timestamp time.Time
}

// Store persists experiments and runs in a sqlite database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite database at path and
// migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("tracking: open %q: %w", path, err)
	}

	if err := db.AutoMigrate(&Experiment{}, &Run{}, &Param{}, &Metric{}); err != nil {
		return nil, multierr.Append(fmt.Errorf("tracking: migrate: %w", err), closeDB(db))
	}
	return &Store{db: db}, nil
}

// GetOrCreateExperiment returns the experiment called name, creating it
// on first use.
func (s *Store) GetOrCreateExperiment(ctx context.Context, name string) (*Experiment, error) {
	exp := &Experiment{}
	err := s.db.WithContext(ctx).
		Where(Experiment{Name: name}).
		FirstOrCreate(exp).Error
	if err != nil {
		return nil, fmt.Errorf("tracking: experiment %q: %w", name, err)
	}
	return exp, nil
}

// StartRun creates a RUNNING run under experimentID.
func (s *Store) StartRun(ctx context.Context, experimentID uint, name string) (*Run, error) {
	run := &Run{
		ID:           uuid.NewString(),
		ExperimentID: experimentID,
		Name:         name,
		Status:       StatusRunning,
		StartTime:    time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("tracking: start run: %w", err)
	}
	return run, nil
}

// LogParam records a parameter. Parameters are write-once per run.
func (s *Store) LogParam(ctx context.Context, runID, key, value string) error {
	p := &Param{RunID: runID, Key: key, Value: value}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("tracking: log param %q: %w", key, err)
	}
	return nil
}

// LogMetric appends a metric value at step.
func (s *Store) LogMetric(ctx context.Context, runID, key string, value float64, step int64) error {
	m := &Metric{RunID: runID, Key: key, Value: value, Step: step, Timestamp: time.Now().UTC()}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("tracking: log metric %q: %w", key, err)
	}
	return nil
}

// EndRun marks a run terminated with status.
func (s *Store) EndRun(ctx context.Context, runID string, status RunStatus) error {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&Run{}).
		Where("id = ?", runID).
		Updates(map[string]any{"status": status, "end_time": now})
	if res.Error != nil {
		return fmt.Errorf("tracking: end run: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRunNotFound
	}
	return nil
}

// GetRun loads a run with its params and metrics.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	run := &Run{}
	err := s.db.WithContext(ctx).
		Preload("Params").
		Preload("Metrics").
		First(run, "id = ?", runID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tracking: get run: %w", err)
	}
	return run, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return closeDB(s.db)
}

// Param returns the value of key and whether it was logged.
func (r *Run) Param(key string) (string, bool) {
	for _, p := range r.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// LatestMetric returns the value of key with the highest step.
func (r *Run) LatestMetric(key string) (float64, bool) {
	var (
		found bool
		best  Metric
	)
	for _, m := range r.Metrics {
		if m.Key == key && (!found || m.Step >= best.Step) {
			best, found = m, true
		}
	}
	return best.Value, found
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
