package corrfunc

import (
	"errors"
	"fmt"

	"github.com/cosmodesi/Corrfunc/bins"
	"github.com/cosmodesi/Corrfunc/executor"
	"github.com/cosmodesi/Corrfunc/internal/grid"
	"github.com/cosmodesi/Corrfunc/resource"
	"github.com/cosmodesi/Corrfunc/weights"
)

var (
	// ErrInvalidConfig is returned for run options outside their valid domain.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidBins is returned for malformed radial or angular bins.
	ErrInvalidBins = errors.New("invalid bins")

	// ErrInvalidWeights is returned when the weight payloads, pair-weight
	// table or weight method do not fit together.
	ErrInvalidWeights = errors.New("invalid weights")

	// ErrLengthMismatch is returned when coordinate or weight columns of one
	// point set have different lengths.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrMemoryLimitExceeded is returned when a run cannot reserve its index
	// and histogram buffers.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// ConfigError reports the option that failed validation.
//
// It unwraps to ErrInvalidConfig.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ce *ConfigError
	if errors.As(err, &ce) {
		return err
	}

	switch {
	case errors.Is(err, weights.ErrLengthMismatch):
		return fmt.Errorf("%w: %w", ErrLengthMismatch, err)
	case errors.Is(err, weights.ErrInvalidWeights),
		errors.Is(err, weights.ErrUnknownScheme),
		errors.Is(err, weights.ErrInvalidTable):
		return fmt.Errorf("%w: %w", ErrInvalidWeights, err)
	case errors.Is(err, bins.ErrNoBins), errors.Is(err, bins.ErrInvalidMu):
		return fmt.Errorf("%w: %w", ErrInvalidBins, err)
	case errors.Is(err, grid.ErrInvalidGeometry), errors.Is(err, grid.ErrOutOfBox),
		errors.Is(err, executor.ErrNoWorkers):
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var ee *bins.ErrInvalidEdge
	if errors.As(err, &ee) {
		return fmt.Errorf("%w: %w", ErrInvalidBins, err)
	}

	return err
}
