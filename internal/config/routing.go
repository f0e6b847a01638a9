package config

import (
	"errors"
	"fmt"
	"time"
)

// Routing holds the tuning knobs for distance acquisition and tour building.
// It is passed by value into the planner; nothing reads it from globals.
type Routing struct {
	// ChunkSize is the maximum number of origins per distance-matrix request.
	ChunkSize int
	// MaxAttempts counts the first try, so 3 means two retries.
	MaxAttempts int
	// BackoffBase is the delay before the second attempt; it doubles afterwards.
	BackoffBase time.Duration
	// Tortuosity scales straight-line distance into an approximate road distance.
	Tortuosity float64
	CostPerKm  float64
	// RequestTimeout bounds every single provider call.
	RequestTimeout time.Duration
	// MatrixConcurrency is the number of chunks fetched in parallel.
	MatrixConcurrency int
	// RequestsPerSecond caps outgoing provider calls per client.
	RequestsPerSecond float64
	IncludePath       bool
}

func DefaultRouting() Routing {
	return Routing{
		ChunkSize:         25,
		MaxAttempts:       3,
		BackoffBase:       500 * time.Millisecond,
		Tortuosity:        1.4,
		CostPerKm:         5.5,
		RequestTimeout:    10 * time.Second,
		MatrixConcurrency: 1,
		RequestsPerSecond: 10,
		IncludePath:       true,
	}
}

// LoadRouting reads overrides from the environment on top of DefaultRouting.
func LoadRouting() (Routing, error) {
	d := DefaultRouting()
	r := Routing{
		ChunkSize:         GetInt("MATRIX_CHUNK_SIZE", d.ChunkSize),
		MaxAttempts:       GetInt("MATRIX_MAX_ATTEMPTS", d.MaxAttempts),
		BackoffBase:       GetDuration("MATRIX_BACKOFF_BASE", d.BackoffBase),
		Tortuosity:        GetFloat("TORTUOSITY_FACTOR", d.Tortuosity),
		CostPerKm:         GetFloat("COST_PER_KM", d.CostPerKm),
		RequestTimeout:    GetDuration("PROVIDER_TIMEOUT", d.RequestTimeout),
		MatrixConcurrency: GetInt("MATRIX_CONCURRENCY", d.MatrixConcurrency),
		RequestsPerSecond: GetFloat("PROVIDER_RPS", d.RequestsPerSecond),
		IncludePath:       GetBool("INCLUDE_PATH", d.IncludePath),
	}

	if err := r.Validate(); err != nil {
		return Routing{}, fmt.Errorf("load routing config: %w", err)
	}
	return r, nil
}

const (
	maxAttemptsLimit = 10
	// maxBackoff caps a single wait between attempts.
	maxBackoff = time.Minute
)

func (r Routing) Validate() error {
	var errs []error
	if r.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("chunk size must be positive, got %d", r.ChunkSize))
	}
	if r.MaxAttempts < 1 || r.MaxAttempts > maxAttemptsLimit {
		errs = append(errs, fmt.Errorf("max attempts must be between 1 and %d, got %d", maxAttemptsLimit, r.MaxAttempts))
	}
	if r.BackoffBase < 0 {
		errs = append(errs, fmt.Errorf("backoff base must not be negative, got %s", r.BackoffBase))
	}
	if r.Tortuosity <= 0 {
		errs = append(errs, fmt.Errorf("tortuosity must be positive, got %v", r.Tortuosity))
	}
	if r.CostPerKm < 0 {
		errs = append(errs, fmt.Errorf("cost per km must not be negative, got %v", r.CostPerKm))
	}
	if r.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", r.RequestTimeout))
	}
	if r.MatrixConcurrency < 1 {
		errs = append(errs, fmt.Errorf("matrix concurrency must be positive, got %d", r.MatrixConcurrency))
	}
	if r.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("requests per second must be positive, got %v", r.RequestsPerSecond))
	}
	return errors.Join(errs...)
}

// Backoff returns the delay to wait before the given attempt (1-based).
// The first attempt never waits and no wait exceeds one minute.
func (r Routing) Backoff(attempt int) time.Duration {
	if attempt <= 1 || r.BackoffBase <= 0 {
		return 0
	}

	d := min(r.BackoffBase, maxBackoff)
	for i := 2; i < attempt && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}
