package popgen

import (
	"math/rand"
	"sort"
)

// Resampling operations over a MultiGContainer. Each returns a new container
// and leaves its input untouched. Randomness comes only from r, so a fixed
// seed reproduces a permutation exactly; callers running replicates in
// parallel give each replicate its own *rand.Rand.
//
// Individuals outside the target groups keep their position, genotype and
// group id. Targeted individuals also keep their position and group id; only
// their genotype content changes.

func shuffle[T any](r *rand.Rand, s []T) {
	r.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// PermuteMultiG shuffles group labels across all individuals. Group sizes are
// preserved exactly.
func PermuteMultiG(r *rand.Rand, c *MultiGContainer) *MultiGContainer {
	out := c.Clone()
	labels := make([]int, len(out.entries))
	for i, e := range out.entries {
		labels[i] = e.groupID
	}
	shuffle(r, labels)
	for i := range out.entries {
		out.entries[i].groupID = labels[i]
	}
	return out
}

// PermuteMonoG pools, locus by locus, the genotypes of every individual in
// groups and deals each shuffled pool back to those individuals in order.
func PermuteMonoG(r *rand.Rand, c *MultiGContainer, groups []int) *MultiGContainer {
	out := c.Clone()
	permuteGenotypes(r, out, targets(out, groups))
	return out
}

// PermuteIntraGroupMonoG is PermuteMonoG run separately within each group.
func PermuteIntraGroupMonoG(r *rand.Rand, c *MultiGContainer, groups []int) *MultiGContainer {
	out := c.Clone()
	for _, t := range targetsByGroup(out, groups) {
		permuteGenotypes(r, out, t)
	}
	return out
}

// PermuteAlleles pools, locus by locus, the alleles carried by individuals in
// groups and rebuilds each non-missing genotype by drawing as many alleles as
// it held. Missing genotypes stay missing and contribute nothing.
func PermuteAlleles(r *rand.Rand, c *MultiGContainer, groups []int) *MultiGContainer {
	out := c.Clone()
	permuteAlleles(r, out, targets(out, groups))
	return out
}

// PermuteIntraGroupAlleles is PermuteAlleles run separately within each
// group.
func PermuteIntraGroupAlleles(r *rand.Rand, c *MultiGContainer, groups []int) *MultiGContainer {
	out := c.Clone()
	for _, t := range targetsByGroup(out, groups) {
		permuteAlleles(r, out, t)
	}
	return out
}

// ExtractGroups keeps the individuals whose group id is in groups, in source
// order, along with the names of the kept groups.
func ExtractGroups(c *MultiGContainer, groups []int) *MultiGContainer {
	keep := groupSet(groups)
	out := NewMultiGContainer()
	for _, e := range c.entries {
		if _, ok := keep[e.groupID]; ok {
			out.entries = append(out.entries, multiGEntry{genotype: e.genotype.Clone(), groupID: e.groupID})
		}
	}
	for id, name := range c.groupNames {
		if _, ok := keep[id]; ok {
			out.groupNames[id] = name
		}
	}
	return out
}

func groupSet(groups []int) map[int]struct{} {
	set := make(map[int]struct{}, len(groups))
	for _, g := range groups {
		set[g] = struct{}{}
	}
	return set
}

// targets lists the positions of individuals whose group is in groups.
func targets(c *MultiGContainer, groups []int) []int {
	set := groupSet(groups)
	var out []int
	for i, e := range c.entries {
		if _, ok := set[e.groupID]; ok {
			out = append(out, i)
		}
	}
	return out
}

// targetsByGroup splits targets by group, in ascending group id order.
func targetsByGroup(c *MultiGContainer, groups []int) [][]int {
	set := groupSet(groups)
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([][]int, 0, len(ids))
	for _, id := range ids {
		var t []int
		for i, e := range c.entries {
			if e.groupID == id {
				t = append(t, i)
			}
		}
		if len(t) > 0 {
			out = append(out, t)
		}
	}
	return out
}

func permuteGenotypes(r *rand.Rand, c *MultiGContainer, positions []int) {
	if len(positions) < 2 {
		return
	}
	pool := make([]MonolocusGenotype, len(positions))
	for locus := 0; locus < c.NumberOfLoci(); locus++ {
		for i, p := range positions {
			pool[i] = c.entries[p].genotype.loci[locus]
		}
		shuffle(r, pool)
		for i, p := range positions {
			c.entries[p].genotype.loci[locus] = pool[i]
		}
	}
}

func permuteAlleles(r *rand.Rand, c *MultiGContainer, positions []int) {
	if len(positions) == 0 {
		return
	}
	var pool []int
	for locus := 0; locus < c.NumberOfLoci(); locus++ {
		pool = pool[:0]
		for _, p := range positions {
			pool = append(pool, c.entries[p].genotype.loci[locus].alleles...)
		}
		shuffle(r, pool)

		next := 0
		for _, p := range positions {
			m := &c.entries[p].genotype.loci[locus]
			if m.IsMissing() {
				continue
			}
			n := len(m.alleles)
			m.alleles = append([]int(nil), pool[next:next+n]...)
			next += n
		}
	}
}
