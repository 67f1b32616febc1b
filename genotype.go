package popgen

import (
	"fmt"
	"strings"
)

// MonolocusGenotype is the genotype of one individual at one locus: an
// ordered list of allele keys whose length is the ploidy. The zero value is
// the missing genotype.
type MonolocusGenotype struct {
	alleles []int
}

// MonoAllele returns a haploid genotype.
func MonoAllele(key int) MonolocusGenotype {
	return MonolocusGenotype{alleles: []int{key}}
}

// BiAllele returns a diploid genotype.
func BiAllele(first, second int) MonolocusGenotype {
	return MonolocusGenotype{alleles: []int{first, second}}
}

// MultiAllele returns a genotype carrying len(keys) alleles. With no keys it
// returns the missing genotype.
func MultiAllele(keys ...int) MonolocusGenotype {
	if len(keys) == 0 {
		return MonolocusGenotype{}
	}
	return MonolocusGenotype{alleles: append([]int(nil), keys...)}
}

func (m MonolocusGenotype) IsMissing() bool {
	return len(m.alleles) == 0
}

// Ploidy is the number of alleles carried; zero when missing.
func (m MonolocusGenotype) Ploidy() int {
	return len(m.alleles)
}

// AlleleIndex returns a copy of the allele keys.
func (m MonolocusGenotype) AlleleIndex() []int {
	return append([]int(nil), m.alleles...)
}

func (m MonolocusGenotype) Equal(o MonolocusGenotype) bool {
	if len(m.alleles) != len(o.alleles) {
		return false
	}
	for i := range m.alleles {
		if m.alleles[i] != o.alleles[i] {
			return false
		}
	}
	return true
}

func (m MonolocusGenotype) String() string {
	if m.IsMissing() {
		return "NA"
	}
	parts := make([]string, len(m.alleles))
	for i, a := range m.alleles {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, "/")
}

// MultilocusGenotype is a fixed-size ordered list of per-locus genotypes for
// one individual. Its size matches the number of analyzed loci.
type MultilocusGenotype struct {
	loci []MonolocusGenotype
}

func NewMultilocusGenotype(numberOfLoci int) (*MultilocusGenotype, error) {
	if numberOfLoci < 1 {
		return nil, precondition("NewMultilocusGenotype", "number of loci must be > 0, got %d", numberOfLoci)
	}
	return &MultilocusGenotype{loci: make([]MonolocusGenotype, numberOfLoci)}, nil
}

func (mg *MultilocusGenotype) NumberOfLoci() int {
	return len(mg.loci)
}

func (mg *MultilocusGenotype) checkLocus(op string, position int) error {
	if position < 0 || position >= len(mg.loci) {
		return outOfRange(op, "locus_position", position, len(mg.loci))
	}
	return nil
}

func (mg *MultilocusGenotype) SetMonolocusGenotype(position int, m MonolocusGenotype) error {
	if err := mg.checkLocus("MultilocusGenotype.SetMonolocusGenotype", position); err != nil {
		return err
	}
	mg.loci[position] = MultiAllele(m.alleles...)
	return nil
}

// SetMonolocusGenotypeByAlleleKey sets the locus from allele keys. At least
// one key is required.
func (mg *MultilocusGenotype) SetMonolocusGenotypeByAlleleKey(position int, keys []int) error {
	const op = "MultilocusGenotype.SetMonolocusGenotypeByAlleleKey"
	if err := mg.checkLocus(op, position); err != nil {
		return err
	}
	if len(keys) == 0 {
		return precondition(op, "no key in allele_keys")
	}
	mg.loci[position] = MultiAllele(keys...)
	return nil
}

// SetMonolocusGenotypeByAlleleID resolves allele ids to keys through locus.
func (mg *MultilocusGenotype) SetMonolocusGenotypeByAlleleID(position int, ids []string, locus *LocusInfo) error {
	const op = "MultilocusGenotype.SetMonolocusGenotypeByAlleleID"
	if err := mg.checkLocus(op, position); err != nil {
		return err
	}
	if len(ids) == 0 {
		return precondition(op, "no id in allele_ids")
	}
	keys := make([]int, 0, len(ids))
	for _, id := range ids {
		key, err := locus.AlleleInfoKey(id)
		if err != nil {
			return rescope(err, op, "")
		}
		keys = append(keys, key)
	}
	mg.loci[position] = MultiAllele(keys...)
	return nil
}

func (mg *MultilocusGenotype) SetMonolocusGenotypeAsMissing(position int) error {
	if err := mg.checkLocus("MultilocusGenotype.SetMonolocusGenotypeAsMissing", position); err != nil {
		return err
	}
	mg.loci[position] = MonolocusGenotype{}
	return nil
}

func (mg *MultilocusGenotype) IsMonolocusGenotypeMissing(position int) (bool, error) {
	if err := mg.checkLocus("MultilocusGenotype.IsMonolocusGenotypeMissing", position); err != nil {
		return false, err
	}
	return mg.loci[position].IsMissing(), nil
}

func (mg *MultilocusGenotype) MonolocusGenotype(position int) (MonolocusGenotype, error) {
	if err := mg.checkLocus("MultilocusGenotype.MonolocusGenotype", position); err != nil {
		return MonolocusGenotype{}, err
	}
	return MultiAllele(mg.loci[position].alleles...), nil
}

// NumberOfNonMissing counts loci carrying data.
func (mg *MultilocusGenotype) NumberOfNonMissing() int {
	n := 0
	for _, m := range mg.loci {
		if !m.IsMissing() {
			n++
		}
	}
	return n
}

func (mg *MultilocusGenotype) Equal(o *MultilocusGenotype) bool {
	if mg == nil || o == nil {
		return mg == o
	}
	if len(mg.loci) != len(o.loci) {
		return false
	}
	for i := range mg.loci {
		if !mg.loci[i].Equal(o.loci[i]) {
			return false
		}
	}
	return true
}

func (mg *MultilocusGenotype) Clone() *MultilocusGenotype {
	if mg == nil {
		return nil
	}
	out := &MultilocusGenotype{loci: make([]MonolocusGenotype, len(mg.loci))}
	for i, m := range mg.loci {
		out.loci[i] = MultiAllele(m.alleles...)
	}
	return out
}

func (mg *MultilocusGenotype) String() string {
	parts := make([]string, len(mg.loci))
	for i, m := range mg.loci {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
