package popgen

import (
	"strconv"
)

func (ds *DataSet) HasAllelicData() bool {
	return ds.analyzedLoci != nil
}

func (ds *DataSet) loci(op string) (*AnalyzedLoci, error) {
	if ds.analyzedLoci == nil {
		return nil, precondition(op, "no analyzed loci")
	}
	return ds.analyzedLoci, nil
}

func (ds *DataSet) anyGenotype() bool {
	for _, g := range ds.groups.items {
		if g.HasGenotypes() {
			return true
		}
	}
	return false
}

// SetAnalyzedLoci replaces the analyzed loci with a copy of al. It fails
// while any individual holds a genotype.
func (ds *DataSet) SetAnalyzedLoci(al *AnalyzedLoci) error {
	const op = "DataSet.SetAnalyzedLoci"
	if al == nil {
		return precondition(op, "nil analyzed loci")
	}
	if ds.analyzedLoci != nil {
		if err := ds.DeleteAnalyzedLoci(); err != nil {
			return rescope(err, op, "")
		}
	}
	ds.analyzedLoci = al.Clone()
	return nil
}

// InitAnalyzedLoci creates numberOfLoci undefined locus slots.
func (ds *DataSet) InitAnalyzedLoci(numberOfLoci int) error {
	const op = "DataSet.InitAnalyzedLoci"
	if ds.analyzedLoci != nil {
		return precondition(op, "analyzed loci already initialized")
	}
	al, err := NewAnalyzedLoci(numberOfLoci)
	if err != nil {
		return rescope(err, op, "")
	}
	ds.analyzedLoci = al
	return nil
}

// AnalyzedLoci returns a copy of the analyzed loci.
func (ds *DataSet) AnalyzedLoci() (*AnalyzedLoci, error) {
	al, err := ds.loci("DataSet.AnalyzedLoci")
	if err != nil {
		return nil, err
	}
	return al.Clone(), nil
}

func (ds *DataSet) DeleteAnalyzedLoci() error {
	const op = "DataSet.DeleteAnalyzedLoci"
	if ds.anyGenotype() {
		return precondition(op, "individuals still hold genotypes")
	}
	ds.analyzedLoci = nil
	return nil
}

// SetLocusInfo defines the locus at position. Redefining a locus with a
// different ploidy fails if stored genotypes disagree with it.
func (ds *DataSet) SetLocusInfo(position int, locus *LocusInfo) error {
	const op = "DataSet.SetLocusInfo"
	al, err := ds.loci(op)
	if err != nil {
		return err
	}
	if position >= 0 && position < al.NumberOfLoci() && locus != nil {
		for gp, g := range ds.groups.items {
			for ip, ind := range g.individuals.items {
				if ind.genotype == nil {
					continue
				}
				m := ind.genotype.loci[position]
				if !m.IsMissing() && m.Ploidy() != locus.ploidy {
					e := precondition(op, "stored genotype has %d alleles, locus %q has ploidy %d", m.Ploidy(), locus.name, locus.ploidy)
					e.Path = []string{groupPath(gp), individualPath(ip)}
					return e
				}
			}
		}
	}
	return rescope(al.SetLocusInfo(position, locus), op, "")
}

func (ds *DataSet) LocusInfoByName(name string) (*LocusInfo, error) {
	const op = "DataSet.LocusInfoByName"
	al, err := ds.loci(op)
	if err != nil {
		return nil, err
	}
	l, err := al.LocusInfoByName(name)
	return l, rescope(err, op, "")
}

func (ds *DataSet) LocusInfoAtPosition(position int) (*LocusInfo, error) {
	const op = "DataSet.LocusInfoAtPosition"
	al, err := ds.loci(op)
	if err != nil {
		return nil, err
	}
	l, err := al.LocusInfoAtPosition(position)
	return l, rescope(err, op, "")
}

func (ds *DataSet) AddAlleleInfoByLocusName(name string, a AlleleInfo) error {
	const op = "DataSet.AddAlleleInfoByLocusName"
	al, err := ds.loci(op)
	if err != nil {
		return err
	}
	return rescope(al.AddAlleleInfoByLocusName(name, a), op, "")
}

func (ds *DataSet) AddAlleleInfoByLocusPosition(position int, a AlleleInfo) error {
	const op = "DataSet.AddAlleleInfoByLocusPosition"
	al, err := ds.loci(op)
	if err != nil {
		return err
	}
	return rescope(al.AddAlleleInfoByLocusPosition(position, a), op, "")
}

func (ds *DataSet) NumberOfLoci() (int, error) {
	al, err := ds.loci("DataSet.NumberOfLoci")
	if err != nil {
		return 0, err
	}
	return al.NumberOfLoci(), nil
}

func (ds *DataSet) PloidyByLocusName(name string) (int, error) {
	const op = "DataSet.PloidyByLocusName"
	al, err := ds.loci(op)
	if err != nil {
		return 0, err
	}
	p, err := al.PloidyByLocusName(name)
	return p, rescope(err, op, "")
}

func (ds *DataSet) PloidyByLocusPosition(position int) (int, error) {
	const op = "DataSet.PloidyByLocusPosition"
	al, err := ds.loci(op)
	if err != nil {
		return 0, err
	}
	p, err := al.PloidyByLocusPosition(position)
	return p, rescope(err, op, "")
}

// checkGenotype enforces the loci-count contract and, for every defined
// locus, that non-missing genotypes carry exactly ploidy alleles.
func (ds *DataSet) checkGenotype(op string, mg *MultilocusGenotype) error {
	al, err := ds.loci(op)
	if err != nil {
		return err
	}
	if mg.NumberOfLoci() != al.NumberOfLoci() {
		return precondition(op, "genotype has %d loci, analyzed loci has %d", mg.NumberOfLoci(), al.NumberOfLoci())
	}
	for i, m := range mg.loci {
		if err := ds.checkPloidy(op, i, m); err != nil {
			return err
		}
	}
	return nil
}

func (ds *DataSet) checkPloidy(op string, locus int, m MonolocusGenotype) error {
	if m.IsMissing() || ds.analyzedLoci == nil {
		return nil
	}
	if locus < 0 || locus >= len(ds.analyzedLoci.loci) {
		return nil
	}
	l := ds.analyzedLoci.loci[locus]
	if l == nil || l.ploidy == m.Ploidy() {
		return nil
	}
	e := precondition(op, "got %d alleles, locus %q has ploidy %d", m.Ploidy(), l.name, l.ploidy)
	e.Field = "locus_position"
	e.Index = locus
	e.ID = strconv.Itoa(locus)
	return e
}
