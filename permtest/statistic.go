package permtest

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/carbocation/popgen"
)

// Statistic summarizes a container as one number. Larger values are taken as
// more extreme when computing p-values.
type Statistic func(c *popgen.MultiGContainer) (float64, error)

// GST is Nei's G_ST over all loci: (H_T - H_S) / H_T, where H_S is the mean
// within-group gene diversity and H_T the diversity of the pooled mean
// allele frequencies, each summed over loci. Only groups with at least one
// allele at a locus contribute to that locus.
func GST(c *popgen.MultiGContainer) (float64, error) {
	if n := c.NumberOfGroups(); n < 2 {
		return 0, fmt.Errorf("G_ST needs at least 2 groups, got %d: %w", n, popgen.ErrDimension)
	}

	// counts[locus][group][allele key]
	counts := make([]map[int]map[int]float64, c.NumberOfLoci())
	for l := range counts {
		counts[l] = make(map[int]map[int]float64)
	}

	for i := 0; i < c.Size(); i++ {
		mg, err := c.MultilocusGenotype(i)
		if err != nil {
			return 0, err
		}
		group, err := c.GroupID(i)
		if err != nil {
			return 0, err
		}
		for l := range counts {
			m, err := mg.MonolocusGenotype(l)
			if err != nil {
				return 0, err
			}
			for _, a := range m.AlleleIndex() {
				if counts[l][group] == nil {
					counts[l][group] = make(map[int]float64)
				}
				counts[l][group][a]++
			}
		}
	}

	var sumHT, sumHS float64
	for _, byGroup := range counts {
		if len(byGroup) < 2 {
			continue
		}
		ht, hs := diversity(byGroup)
		sumHT += ht
		sumHS += hs
	}

	if sumHT == 0 {
		return 0, nil
	}
	return (sumHT - sumHS) / sumHT, nil
}

// diversity returns H_T and H_S for one locus.
func diversity(byGroup map[int]map[int]float64) (ht, hs float64) {
	within := make([]float64, 0, len(byGroup))
	pooled := make(map[int]float64)

	for _, alleles := range byGroup {
		var total float64
		for _, n := range alleles {
			total += n
		}
		h := 1.0
		for a, n := range alleles {
			p := n / total
			h -= p * p
			pooled[a] += p
		}
		within = append(within, h)
	}

	groups := float64(len(byGroup))
	ht = 1.0
	for _, sum := range pooled {
		p := sum / groups
		ht -= p * p
	}
	return ht, stat.Mean(within, nil)
}
