package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// CheckerConfig configures how long a single check may run
type CheckerConfig struct {
	Timeout time.Duration
}

// DefaultCheckerConfig returns the default checker configuration
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{Timeout: 2 * time.Second}
}

// ProbeChecker returns a health check function that runs probe under the configured
// timeout. A probe that does not return in time is reported as failed; it is not cancelled.
func ProbeChecker(probe func() error, config CheckerConfig) func() error {
	return func() error {
		if probe == nil {
			return errors.New("probe is nil")
		}
		if config.Timeout <= 0 {
			return probe()
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- probe() }()

		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return fmt.Errorf("probe did not finish within %v", config.Timeout)
		}
	}
}

// FileChecker returns a health check function that verifies a non-empty regular file exists at path
func FileChecker(path string) func() error {
	return func() error {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%s is not a regular file", path)
		}
		if info.Size() == 0 {
			return fmt.Errorf("%s is empty", path)
		}
		return nil
	}
}
