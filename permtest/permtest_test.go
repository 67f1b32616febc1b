package permtest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbocation/popgen"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// differentiated builds two groups fixed for different alleles at one
// diploid locus, plus a third group that mixes them.
func differentiated(t *testing.T, perGroup int) *popgen.MultiGContainer {
	t.Helper()

	c := popgen.NewMultiGContainer()
	add := func(group int, m popgen.MonolocusGenotype) {
		mg, err := popgen.NewMultilocusGenotype(1)
		require.NoError(t, err)
		require.NoError(t, mg.SetMonolocusGenotype(0, m))
		require.NoError(t, c.Add(mg, group))
	}
	for i := 0; i < perGroup; i++ {
		add(1, popgen.BiAllele(0, 0))
		add(2, popgen.BiAllele(1, 1))
		add(3, popgen.BiAllele(0, 1))
	}
	return c
}

func TestGST(t *testing.T) {
	c := differentiated(t, 5)

	// Groups 1 and 2 are fixed for different alleles.
	g, err := GST(popgen.ExtractGroups(c, []int{1, 2}))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, g, 1e-12)

	// Identical frequencies everywhere.
	same := popgen.ExtractGroups(c, []int{3})
	mg, err := same.MultilocusGenotype(0)
	require.NoError(t, err)
	require.NoError(t, same.Add(mg, 4))
	g, err = GST(same)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, g, 1e-12)

	_, err = GST(popgen.ExtractGroups(c, []int{1}))
	assert.True(t, errors.Is(err, popgen.ErrDimension))
}

func TestRunDetectsDifferentiation(t *testing.T) {
	c := differentiated(t, 10)
	cfg := Config{Replicates: 199, Seed: 3, Workers: 4, Mode: ModeMultiG}

	res, err := Run(context.Background(), c, cfg, GST, WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Len(t, res.Null, 199)
	assert.Less(t, res.PValue, 0.05)
	assert.Less(t, res.Mean, res.Observed)
	assert.Greater(t, res.StdDev, 0.0)
}

func TestRunIsIndependentOfWorkerCount(t *testing.T) {
	c := differentiated(t, 4)
	base := Config{Replicates: 50, Seed: 11, Mode: ModeAlleles, Groups: []int{1, 2, 3}}

	var results []*Result
	for _, workers := range []int{1, 3, 8} {
		cfg := base
		cfg.Workers = workers
		res, err := Run(context.Background(), c, cfg, GST, WithLogger(quietLogger()))
		require.NoError(t, err)
		results = append(results, res)
	}

	for _, res := range results[1:] {
		assert.Equal(t, results[0].Null, res.Null)
		assert.Equal(t, results[0].PValue, res.PValue)
	}
}

func TestRunStatisticError(t *testing.T) {
	c := differentiated(t, 2)
	cfg := Config{Replicates: 10, Seed: 1, Workers: 2, Mode: ModeMultiG}

	calls := 0
	failing := func(c *popgen.MultiGContainer) (float64, error) {
		calls++
		if calls > 1 {
			return 0, popgen.ErrDimension
		}
		return 0, nil
	}
	// One worker keeps the closure's counter race-free.
	cfg.Workers = 1
	_, err := Run(context.Background(), c, cfg, failing, WithLogger(quietLogger()))
	assert.ErrorIs(t, err, popgen.ErrDimension)
}

func TestRunCancelled(t *testing.T) {
	c := differentiated(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, c, Config{Replicates: 100, Seed: 1, Workers: 2, Mode: ModeMultiG}, GST, WithLogger(quietLogger()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	c := differentiated(t, 3)
	_, err = Run(context.Background(), c, Config{Replicates: 25, Seed: 1, Workers: 2, Mode: ModeMultiG}, GST,
		WithLogger(quietLogger()), WithMetrics(m))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.Replicates))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ReplicateFailures))

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
replicates: 500
seed: 42
workers: 4
mode: intragroup-alleles
groups: [1, 2]
`))
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Replicates)
	assert.Equal(t, ModeIntraGroupAlleles, cfg.Mode)
	assert.Equal(t, []int{1, 2}, cfg.Groups)

	cfg, err = ParseConfig([]byte(`seed: 9`))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Replicates, cfg.Replicates)
	assert.Equal(t, ModeMultiG, cfg.Mode)

	for _, bad := range []string{
		`replicates: 0`,
		`mode: shuffle`,
		`mode: monog`,
		`workers: -1`,
	} {
		_, err := ParseConfig([]byte(bad))
		assert.Error(t, err, bad)
	}
}

func TestModePermuter(t *testing.T) {
	for _, m := range []Mode{ModeMultiG, ModeMonoG, ModeIntraGroupMonoG, ModeAlleles, ModeIntraGroupAlleles} {
		p, err := m.Permuter([]int{1})
		require.NoError(t, err)
		assert.NotNil(t, p)
	}
	_, err := Mode("nope").Permuter(nil)
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	st, err := OpenStore(filepath.Join(t.TempDir(), "runs.sqlite"))
	require.NoError(t, err)
	defer st.Close()

	cfg := Config{Replicates: 20, Seed: 5, Workers: 2, Mode: ModeMultiG}
	res, err := Run(context.Background(), differentiated(t, 3), cfg, GST, WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx := context.Background()
	id, err := st.SaveRun(ctx, cfg, res)
	require.NoError(t, err)

	rec, err := st.Run(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ModeMultiG, rec.Mode)
	assert.Equal(t, int64(5), rec.Seed)
	assert.Equal(t, 20, rec.Replicates)
	assert.InDelta(t, res.PValue, rec.PValue, 1e-12)
	assert.False(t, rec.CreatedAt.Time().IsZero())

	null, err := st.NullDistribution(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, res.Null, null)

	runs, err := st.Runs(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	_, err = st.Run(ctx, "missing")
	assert.Error(t, err)

	assert.Contains(t, []string{"sqlite", "sqlite3"}, WhichSQLiteDriver())
}
