package corrfunc

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/go-playground/validator/v10"

	"github.com/cosmodesi/Corrfunc/executor"
	"github.com/cosmodesi/Corrfunc/internal/grid"
	"github.com/cosmodesi/Corrfunc/resource"
	"github.com/cosmodesi/Corrfunc/weights"
)

// KernelMode selects the inner pair loop.
type KernelMode int

const (
	// KernelAuto picks the block width from the CPU's vector ISA.
	KernelAuto KernelMode = iota
	// KernelScalar forces the one-pair-at-a-time loop.
	KernelScalar
	// KernelBlocked forces the blocked loop even on generic CPUs.
	KernelBlocked
)

func (k KernelMode) String() string {
	switch k {
	case KernelAuto:
		return "auto"
	case KernelScalar:
		return "scalar"
	case KernelBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// DefaultRefine is the default cells-per-rmax factor on x, y and z. The
// line of sight (z) is coarser since the angular cut bounds |dz|.
var DefaultRefine = [3]int{2, 2, 1}

// DefaultMaxCellsPerDim caps the number of cells on each axis.
const DefaultMaxCellsPerDim = grid.DefaultMaxCells

// config is the validated part of the run configuration.
type config struct {
	Workers        int            `validate:"gte=1"`
	Refine         [3]int         `validate:"dive,gte=1,lte=8"`
	MaxCellsPerDim int            `validate:"gte=1"`
	Box            [3]float64     `validate:"dive,finite,gte=0"`
	MemoryLimit    int64          `validate:"gte=0"`
	Weighting      weights.Scheme `validate:"lte=2"`
	Kernel         KernelMode     `validate:"gte=0,lte=2"`
	BitwiseOffset  int            `validate:"gte=0"`
	BitwiseDefault float64        `validate:"finite"`
}

type options struct {
	config

	periodic    bool
	savg        bool
	accelerator bool
	device      executor.Device
	pairTable   *weights.PairTable
	resources   *resource.Controller

	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a pair-counting run.
type Option func(*options)

// WithPeriodic enables the minimum-image wrap in a cubic box of side box.
// A box of 0 auto-detects the extent of the input points on every axis.
func WithPeriodic(box float64) Option {
	return WithPeriodicBox(box, box, box)
}

// WithPeriodicBox enables the minimum-image wrap with per-axis box lengths.
// A length of 0 auto-detects the extent of the input points on that axis.
func WithPeriodicBox(lx, ly, lz float64) Option {
	return func(o *options) {
		o.periodic = true
		o.Box = [3]float64{lx, ly, lz}
	}
}

// WithWorkers sets the number of CPU workers (default GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.Workers = n
	}
}

// WithAccelerator offloads counting to dev. Pass nil to run on the CPU pool.
func WithAccelerator(dev executor.Device) Option {
	return func(o *options) {
		o.device = dev
		o.accelerator = dev != nil
	}
}

// WithAcceleratorEnabled toggles offload to the built-in host-emulated
// device grid (executor.HostGrid) unless a device was set explicitly.
func WithAcceleratorEnabled(enabled bool) Option {
	return func(o *options) {
		o.accelerator = enabled
	}
}

// WithRefine sets the number of cells spanning rmax on each axis.
func WithRefine(x, y, z int) Option {
	return func(o *options) {
		o.Refine = [3]int{x, y, z}
	}
}

// WithMaxCellsPerDim caps the number of cells on each axis.
func WithMaxCellsPerDim(n int) Option {
	return func(o *options) {
		o.MaxCellsPerDim = n
	}
}

// WithSeparationAverage accumulates the mean separation of every bin.
func WithSeparationAverage() Option {
	return func(o *options) {
		o.savg = true
	}
}

// WithWeighting sets the pair-weighting scheme (default weights.None).
func WithWeighting(scheme weights.Scheme) Option {
	return func(o *options) {
		o.Weighting = scheme
	}
}

// WithPairWeights scales every inverse_bitwise pair weight by the table
// interpolated at the pair's angular cosine.
func WithPairWeights(table *weights.PairTable) Option {
	return func(o *options) {
		o.pairTable = table
	}
}

// WithBitwiseOffset sets the inverse_bitwise correction to
// (width+offset)/(popcount+offset) and the weight of pairs whose
// denominator is zero.
func WithBitwiseOffset(offset int, defaultValue float64) Option {
	return func(o *options) {
		o.BitwiseOffset = offset
		o.BitwiseDefault = defaultValue
	}
}

// WithKernel selects the inner loop implementation.
func WithKernel(mode KernelMode) Option {
	return func(o *options) {
		o.Kernel = mode
	}
}

// WithMemoryLimit fails a run whose cell grids and histograms would need
// more than bytes. 0 disables the limit. Ignored with WithResourceController.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.MemoryLimit = bytes
	}
}

// WithResourceController shares memory accounting and worker slots across
// concurrent runs.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &corrfunc.BasicMetricsCollector{}
//	res, _ := corrfunc.Auto(ctx, pts, radial, mu, corrfunc.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.CountRuns, stats.CountAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		config: config{
			Workers:        runtime.GOMAXPROCS(0),
			Refine:         DefaultRefine,
			MaxCellsPerDim: DefaultMaxCellsPerDim,
		},
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

// configValidate is the validator instance for run configurations.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("finite", validateFinite)
}

// validateFinite rejects NaN and infinite floats.
func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// validate checks every option before any indexing happens.
func (o *options) validate() error {
	if err := configValidate.Struct(o.config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigError{
				Field:  fe.Field(),
				Reason: fmt.Sprintf("value %v fails %q", fe.Value(), validationRule(fe)),
			}
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if o.pairTable != nil && o.Weighting != weights.InverseBitwise {
		return fmt.Errorf("%w: %w: pair weights are only accepted with %s, got %s",
			ErrInvalidWeights, ErrInvalidConfig, weights.InverseBitwise, o.Weighting)
	}
	return nil
}

func validationRule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
