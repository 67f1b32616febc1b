package popgen

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Allele keys for the two-locus scenario.
const (
	a1 = iota
	a2
)

const (
	b1 = iota
	b2
)

// scenarioContainer builds group 1 with ind1 (A1/A2, B1/B1) and ind2
// (A1/A1, B1/B2) through a DataSet projection.
func scenarioContainer(t *testing.T) *MultiGContainer {
	t.Helper()

	ds := NewDataSet()
	require.NoError(t, ds.InitAnalyzedLoci(2))
	la := NewLocusInfo("A", Diploid)
	require.NoError(t, la.AddAlleleInfo(AlleleInfo{ID: "A1"}))
	require.NoError(t, la.AddAlleleInfo(AlleleInfo{ID: "A2"}))
	lb := NewLocusInfo("B", Diploid)
	require.NoError(t, lb.AddAlleleInfo(AlleleInfo{ID: "B1"}))
	require.NoError(t, lb.AddAlleleInfo(AlleleInfo{ID: "B2"}))
	require.NoError(t, ds.SetLocusInfo(0, la))
	require.NoError(t, ds.SetLocusInfo(1, lb))

	require.NoError(t, ds.AddEmptyGroup(1))
	require.NoError(t, ds.AddEmptyIndividualToGroup(0, "ind1"))
	require.NoError(t, ds.AddEmptyIndividualToGroup(0, "ind2"))
	for ip := 0; ip < 2; ip++ {
		require.NoError(t, ds.InitIndividualGenotypeInGroup(0, ip))
	}
	require.NoError(t, ds.SetIndividualMonolocusGenotypeByAlleleIDInGroup(0, 0, 0, []string{"A1", "A2"}))
	require.NoError(t, ds.SetIndividualMonolocusGenotypeByAlleleIDInGroup(0, 0, 1, []string{"B1", "B1"}))
	require.NoError(t, ds.SetIndividualMonolocusGenotypeByAlleleIDInGroup(0, 1, 0, []string{"A1", "A1"}))
	require.NoError(t, ds.SetIndividualMonolocusGenotypeByAlleleIDInGroup(0, 1, 1, []string{"B1", "B2"}))

	c, err := ds.MultiGContainer()
	require.NoError(t, err)
	return c
}

// mixedContainer has three groups; group 2 holds haploid data at locus 1
// and one missing genotype.
func mixedContainer(t *testing.T) *MultiGContainer {
	t.Helper()

	c := NewMultiGContainer()
	add := func(group int, l0, l1 MonolocusGenotype) {
		mg, err := NewMultilocusGenotype(2)
		require.NoError(t, err)
		require.NoError(t, mg.SetMonolocusGenotype(0, l0))
		require.NoError(t, mg.SetMonolocusGenotype(1, l1))
		require.NoError(t, c.Add(mg, group))
	}
	add(1, BiAllele(0, 1), BiAllele(2, 2))
	add(2, BiAllele(3, 3), MonoAllele(5))
	add(1, BiAllele(1, 1), MultiAllele())
	add(3, BiAllele(7, 8), BiAllele(9, 9))
	add(2, BiAllele(4, 0), MonoAllele(6))
	add(1, BiAllele(2, 0), BiAllele(2, 3))
	c.SetGroupName(1, "north")
	c.SetGroupName(2, "south")
	c.SetGroupName(3, "east")
	return c
}

func locusAlleles(t *testing.T, c *MultiGContainer, locus int, positions ...int) []int {
	t.Helper()
	var out []int
	for _, p := range positions {
		mg, err := c.MultilocusGenotype(p)
		require.NoError(t, err)
		m, err := mg.MonolocusGenotype(locus)
		require.NoError(t, err)
		out = append(out, m.AlleleIndex()...)
	}
	sort.Ints(out)
	return out
}

func allPositions(c *MultiGContainer) []int {
	out := make([]int, c.Size())
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPermuteAllelesScenario(t *testing.T) {
	c := scenarioContainer(t)
	r := rand.New(rand.NewSource(1))

	for trial := 0; trial < 200; trial++ {
		p := PermuteAlleles(r, c, []int{1})
		require.Equal(t, 2, p.Size())

		for i := 0; i < 2; i++ {
			mg, err := p.MultilocusGenotype(i)
			require.NoError(t, err)
			for locus := 0; locus < 2; locus++ {
				m, err := mg.MonolocusGenotype(locus)
				require.NoError(t, err)
				assert.Equal(t, 2, m.Ploidy())
			}
		}

		assert.Equal(t, []int{a1, a1, a1, a2}, locusAlleles(t, p, 0, 0, 1))
		assert.Equal(t, []int{b1, b1, b1, b2}, locusAlleles(t, p, 1, 0, 1))
	}

	// The input is untouched.
	assert.Equal(t, "0/1 0/0", c.entries[0].genotype.String())
	assert.Equal(t, "0/0 0/1", c.entries[1].genotype.String())
}

func TestPermuteAllelesPreservesCardinalityAndMissing(t *testing.T) {
	c := mixedContainer(t)
	r := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		for _, p := range []*MultiGContainer{
			PermuteAlleles(r, c, []int{1, 2}),
			PermuteIntraGroupAlleles(r, c, []int{1, 2}),
		} {
			require.Equal(t, c.Size(), p.Size())
			for i := 0; i < c.Size(); i++ {
				before, _ := c.MultilocusGenotype(i)
				after, _ := p.MultilocusGenotype(i)
				for locus := 0; locus < 2; locus++ {
					mb, _ := before.MonolocusGenotype(locus)
					ma, _ := after.MonolocusGenotype(locus)
					assert.Equal(t, mb.Ploidy(), ma.Ploidy())
					assert.Equal(t, mb.IsMissing(), ma.IsMissing())
				}
				gb, _ := c.GroupID(i)
				ga, _ := p.GroupID(i)
				assert.Equal(t, gb, ga)
			}

			// Pool conservation over the targeted individuals.
			for locus := 0; locus < 2; locus++ {
				assert.Equal(t, locusAlleles(t, c, locus, 0, 1, 2, 4, 5), locusAlleles(t, p, locus, 0, 1, 2, 4, 5))
			}
			// Group 3 passes through.
			assert.True(t, c.entries[3].genotype.Equal(p.entries[3].genotype))
		}
	}
}

func TestPermuteIntraGroupAllelesStaysWithinGroup(t *testing.T) {
	c := mixedContainer(t)
	r := rand.New(rand.NewSource(3))

	for trial := 0; trial < 100; trial++ {
		p := PermuteIntraGroupAlleles(r, c, []int{1, 2, 3})
		for locus := 0; locus < 2; locus++ {
			assert.Equal(t, locusAlleles(t, c, locus, 0, 2, 5), locusAlleles(t, p, locus, 0, 2, 5))
			assert.Equal(t, locusAlleles(t, c, locus, 1, 4), locusAlleles(t, p, locus, 1, 4))
			assert.Equal(t, locusAlleles(t, c, locus, 3), locusAlleles(t, p, locus, 3))
		}
	}
}

func TestPermuteMonoG(t *testing.T) {
	c := mixedContainer(t)
	r := rand.New(rand.NewSource(11))

	seen := make(map[string]bool)
	for trial := 0; trial < 200; trial++ {
		p := PermuteMonoG(r, c, []int{1})

		// Each locus of group 1 is a rearrangement of the original slots.
		for locus := 0; locus < 2; locus++ {
			var want, got []string
			for _, i := range []int{0, 2, 5} {
				mb, _ := c.entries[i].genotype.MonolocusGenotype(locus)
				ma, _ := p.entries[i].genotype.MonolocusGenotype(locus)
				want = append(want, mb.String())
				got = append(got, ma.String())
			}
			assert.ElementsMatch(t, want, got)
		}
		for _, i := range []int{1, 3, 4} {
			assert.True(t, c.entries[i].genotype.Equal(p.entries[i].genotype))
		}
		seen[p.entries[0].genotype.String()] = true
	}
	// Loci are shuffled independently, so new combinations appear.
	assert.Greater(t, len(seen), 3)
}

func TestPermuteIntraGroupMonoG(t *testing.T) {
	c := mixedContainer(t)
	r := rand.New(rand.NewSource(5))

	for trial := 0; trial < 100; trial++ {
		p := PermuteIntraGroupMonoG(r, c, []int{1, 2})
		for locus := 0; locus < 2; locus++ {
			for _, members := range [][]int{{0, 2, 5}, {1, 4}} {
				var want, got []string
				for _, i := range members {
					mb, _ := c.entries[i].genotype.MonolocusGenotype(locus)
					ma, _ := p.entries[i].genotype.MonolocusGenotype(locus)
					want = append(want, mb.String())
					got = append(got, ma.String())
				}
				assert.ElementsMatch(t, want, got)
			}
		}
		assert.True(t, c.entries[3].genotype.Equal(p.entries[3].genotype))
	}
}

func TestPermuteMultiGPreservesGroupSizes(t *testing.T) {
	c := mixedContainer(t)
	r := rand.New(rand.NewSource(42))

	const trials = 3000
	moved := 0
	for trial := 0; trial < trials; trial++ {
		p := PermuteMultiG(r, c)
		for _, g := range c.GroupIDs() {
			assert.Equal(t, c.GroupSize(g), p.GroupSize(g))
			assert.Equal(t, c.GroupName(g), p.GroupName(g))
		}
		// Genotypes stay in place; only labels move.
		for i := range c.entries {
			assert.True(t, c.entries[i].genotype.Equal(p.entries[i].genotype))
		}
		if gid, _ := p.GroupID(3); gid != 3 {
			moved++
		}
	}

	// Position 3 keeps label 3 with probability 1/6.
	frac := float64(moved) / trials
	assert.InDelta(t, 5.0/6.0, frac, 0.05)
}

func TestPermuteIsReproducible(t *testing.T) {
	c := mixedContainer(t)

	p1 := PermuteAlleles(rand.New(rand.NewSource(99)), c, []int{1, 2})
	p2 := PermuteAlleles(rand.New(rand.NewSource(99)), c, []int{1, 2})
	for i := range p1.entries {
		assert.True(t, p1.entries[i].genotype.Equal(p2.entries[i].genotype))
	}
}

func TestExtractGroups(t *testing.T) {
	c := mixedContainer(t)

	e := ExtractGroups(c, []int{2})
	require.Equal(t, 2, e.Size())
	for i, src := range []int{1, 4} {
		gid, err := e.GroupID(i)
		require.NoError(t, err)
		assert.Equal(t, 2, gid)
		assert.True(t, c.entries[src].genotype.Equal(e.entries[i].genotype))
	}
	assert.Equal(t, "south", e.GroupName(2))
	assert.False(t, e.HasGroupName(1))

	assert.Equal(t, 0, ExtractGroups(c, []int{8}).Size())
}

func TestMultiGContainerAdd(t *testing.T) {
	c := mixedContainer(t)

	mg, err := NewMultilocusGenotype(3)
	require.NoError(t, err)
	assert.ErrorIs(t, c.Add(mg, 1), ErrDimension)

	assert.Equal(t, []int{1, 2, 3}, c.GroupIDs())
	n, err := c.LocusGroupSize(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = c.GroupID(6)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
