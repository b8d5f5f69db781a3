package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/multierr"

	"qsr-forecast/config"
	"qsr-forecast/tracking"
	"qsr-forecast/utils"
)

// RequiredModules must be linked into the binary for the toolchain to be
// considered installed.
var RequiredModules = []string{
	"gonum.org/v1/gonum",
	"gopkg.in/yaml.v3",
	"gorm.io/gorm",
	"gorm.io/driver/sqlite",
	"github.com/shopspring/decimal",
	"github.com/rs/zerolog",
	"github.com/lib/pq",
}

// SmokeCheck is one independent installation check.
type SmokeCheck struct {
	Name string
	Run  func(ctx context.Context) error
}

// CheckResult is the outcome of one SmokeCheck.
type CheckResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Passed reports whether the check succeeded.
func (r CheckResult) Passed() bool { return r.Err == nil }

// SmokeTest runs every check, even after a failure, and reports each one.
type SmokeTest struct {
	checks []SmokeCheck
	logger *utils.Logger
}

// NewSmokeTest creates a SmokeTest over checks, run in the given order.
func NewSmokeTest(logger *utils.Logger, checks ...SmokeCheck) *SmokeTest {
	return &SmokeTest{checks: checks, logger: logger}
}

// Run executes all checks. The returned error combines every failure and
// is nil only when all checks passed.
func (s *SmokeTest) Run(ctx context.Context) ([]CheckResult, error) {
	results := make([]CheckResult, 0, len(s.checks))
	var errs error

	for _, c := range s.checks {
		start := time.Now()
		err := c.Run(ctx)
		results = append(results, CheckResult{Name: c.Name, Err: err, Duration: time.Since(start)})

		if err != nil {
			s.logger.Error("[smoketest] %s failed: %v", c.Name, err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		s.logger.Debug("[smoketest] %s passed", c.Name)
	}
	return results, errs
}

// Print renders one line per check and the overall verdict.
func (s *SmokeTest) Print(out io.Writer, results []CheckResult) error {
	w := &errWriter{w: out}
	thin := strings.Repeat("─", 40)

	w.printf("🧪 Testing tracking installation...\n%s\n", thin)
	allPassed := true
	for _, r := range results {
		if r.Passed() {
			w.printf("✅ %-24s (%v)\n", r.Name, r.Duration.Round(time.Millisecond))
		} else {
			allPassed = false
			w.printf("❌ %-24s %v\n", r.Name, r.Err)
		}
	}
	w.printf("%s\n", thin)

	if allPassed {
		w.printf("🎉 All checks passed! Tracking is ready to use.\n\n")
		w.printf("Next steps:\n")
		w.printf("1. Generate data: qsr-forecast generate\n")
		w.printf("2. Enable run logging: set mlflow.log_generation in config.yaml\n")
	} else {
		w.printf("❌ Some checks failed. See the output above.\n")
	}
	return w.err
}

// DependencyCheck verifies that required modules were linked into the
// running binary.
func DependencyCheck(required []string, readBuildInfo func() (*debug.BuildInfo, bool)) SmokeCheck {
	return SmokeCheck{
		Name: "dependencies",
		Run: func(context.Context) error {
			info, ok := readBuildInfo()
			if !ok {
				return errors.New("build info unavailable")
			}

			linked := make(map[string]string, len(info.Deps))
			for _, d := range info.Deps {
				linked[d.Path] = d.Version
			}

			var missing []string
			for _, mod := range required {
				if _, ok := linked[mod]; !ok {
					missing = append(missing, mod)
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("missing modules: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}

// TrackingCheck performs one tracked-run round trip against a throwaway
// sqlite database in dir and removes it afterwards.
func TrackingCheck(dir string) SmokeCheck {
	return SmokeCheck{
		Name: "tracking round trip",
		Run: func(ctx context.Context) (err error) {
			path := filepath.Join(dir, fmt.Sprintf("smoketest-%d.db", time.Now().UnixNano()))
			defer func() {
				if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
					err = multierr.Append(err, rmErr)
				}
			}()

			store, err := tracking.Open(path)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, store.Close()) }()

			id, err := store.Record(ctx, tracking.RunRecord{
				Experiment: "smoke-test",
				Name:       "smoke-test",
				Params:     map[string]string{"test_param": "test_value"},
				Metrics:    map[string]float64{"test_metric": 0.95},
			})
			if err != nil {
				return err
			}

			run, err := store.GetRun(ctx, id)
			if err != nil {
				return err
			}
			if v, ok := run.Param("test_param"); !ok || v != "test_value" {
				return fmt.Errorf("param round trip: got %q", v)
			}
			if v, ok := run.LatestMetric("test_metric"); !ok || v != 0.95 {
				return fmt.Errorf("metric round trip: got %v", v)
			}
			if run.Status != tracking.StatusFinished {
				return fmt.Errorf("run status: got %s", run.Status)
			}
			return nil
		},
	}
}

// ConfigCheck verifies that the configuration at path loads and validates.
func ConfigCheck(path string) SmokeCheck {
	return SmokeCheck{
		Name: "configuration",
		Run: func(context.Context) error {
			_, err := config.Load(path)
			return err
		},
	}
}
