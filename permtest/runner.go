// Package permtest builds null distributions by repeatedly resampling a
// popgen.MultiGContainer and recomputing a statistic on each copy.
package permtest

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/carbocation/popgen"
)

// Result is the outcome of one permutation test.
type Result struct {
	Observed float64
	Null     []float64 // in replicate order
	PValue   float64
	Mean     float64
	StdDev   float64
}

type runner struct {
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*runner)

func WithLogger(l *slog.Logger) Option {
	return func(r *runner) { r.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(r *runner) { r.metrics = m }
}

// ReplicateSeed is the seed of replicate i. Each replicate owns its
// generator, so results do not depend on the number of workers.
func ReplicateSeed(seed int64, i int) int64 {
	return seed + int64(i)
}

// Run computes stat on c, then on cfg.Replicates resampled copies of c. The
// p-value is (#{null >= observed} + 1) / (replicates + 1).
func Run(ctx context.Context, c *popgen.MultiGContainer, cfg Config, statistic Statistic, opts ...Option) (*Result, error) {
	rn := &runner{}
	for _, opt := range opts {
		opt(rn)
	}
	if rn.logger == nil {
		rn.logger = slog.Default()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	permute, err := cfg.Mode.Permuter(cfg.Groups)
	if err != nil {
		return nil, err
	}

	observed, err := statistic(c)
	if err != nil {
		return nil, fmt.Errorf("observed statistic: %w", err)
	}

	if rn.metrics != nil {
		rn.metrics.Runs.Inc()
	}
	rn.logger.Info("permutation test started",
		"mode", cfg.Mode, "replicates", cfg.Replicates, "workers", cfg.Workers,
		"individuals", c.Size(), "observed", observed)

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	null := make([]float64, cfg.Replicates)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < cfg.Replicates; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := rn.replicate(c, permute, statistic, ReplicateSeed(cfg.Seed, i))
			if err != nil {
				return fmt.Errorf("replicate %d: %w", i, err)
			}
			null[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := summarize(observed, null)
	rn.logger.Info("permutation test finished",
		"mode", cfg.Mode, "observed", res.Observed, "p_value", res.PValue,
		"null_mean", res.Mean, "null_sd", res.StdDev)

	return res, nil
}

func (rn *runner) replicate(c *popgen.MultiGContainer, permute Permuter, statistic Statistic, seed int64) (float64, error) {
	start := time.Now()
	r := rand.New(rand.NewSource(seed))

	v, err := statistic(permute(r, c))
	if rn.metrics != nil {
		rn.metrics.ReplicateSeconds.Observe(time.Since(start).Seconds())
		if err != nil {
			rn.metrics.ReplicateFailures.Inc()
		} else {
			rn.metrics.Replicates.Inc()
		}
	}
	rn.logger.Debug("replicate done", "seed", seed, "value", v, "err", err)

	return v, err
}

func summarize(observed float64, null []float64) *Result {
	res := &Result{
		Observed: observed,
		Null:     null,
	}

	extreme := 0
	for _, v := range null {
		if v >= observed {
			extreme++
		}
	}
	res.PValue = float64(extreme+1) / float64(len(null)+1)

	if len(null) > 0 {
		res.Mean = stat.Mean(null, nil)
	}
	if len(null) > 1 {
		res.StdDev = stat.StdDev(null, nil)
	}

	return res
}
