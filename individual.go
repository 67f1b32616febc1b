package popgen

import (
	"time"
)

// Point2D is a planar coordinate (e.g. longitude/latitude).
type Point2D struct {
	X, Y float64
}

// Locality is a named geographic reference point. Names are unique within a
// DataSet; individuals refer to localities by name.
type Locality struct {
	Name  string
	Coord Point2D
}

// Sex codes, following the usual pedigree convention.
const (
	SexUnknown uint16 = 0
	SexMale    uint16 = 1
	SexFemale  uint16 = 2
)

// Individual is one sampled organism. Every attribute other than its id is
// optional.
type Individual struct {
	id        string
	sex       uint16
	date      *time.Time
	coord     *Point2D
	locality  string
	sequences *sequenceSet
	genotype  *MultilocusGenotype
}

func NewIndividual(id string) *Individual {
	return &Individual{id: id}
}

func (ind *Individual) ID() string { return ind.id }

func (ind *Individual) Sex() uint16       { return ind.sex }
func (ind *Individual) SetSex(sex uint16) { ind.sex = sex }

func (ind *Individual) SetDate(d time.Time) {
	ind.date = &d
}

func (ind *Individual) HasDate() bool { return ind.date != nil }

func (ind *Individual) Date() (time.Time, error) {
	if ind.date == nil {
		return time.Time{}, precondition("Individual.Date", "individual has no date")
	}
	return *ind.date, nil
}

func (ind *Individual) SetCoord(c Point2D) {
	ind.coord = &c
}

func (ind *Individual) HasCoord() bool { return ind.coord != nil }

func (ind *Individual) Coord() (Point2D, error) {
	if ind.coord == nil {
		return Point2D{}, precondition("Individual.Coord", "individual has no coordinate")
	}
	return *ind.coord, nil
}

// SetLocality records the name of the individual's locality. The DataSet
// checks the name resolves before calling this.
func (ind *Individual) SetLocality(name string) { ind.locality = name }

func (ind *Individual) HasLocality() bool { return ind.locality != "" }

// Locality returns the locality name, resolved against a DataSet by the
// caller.
func (ind *Individual) Locality() (string, error) {
	if ind.locality == "" {
		return "", precondition("Individual.Locality", "individual has no locality")
	}
	return ind.locality, nil
}

// Sequences

func (ind *Individual) HasSequences() bool {
	return ind.sequences != nil && ind.sequences.Len() > 0
}

// SequenceAlphabet reports the alphabet of the individual's sequences, if
// it has any.
func (ind *Individual) SequenceAlphabet() (Alphabet, bool) {
	if !ind.HasSequences() {
		return "", false
	}
	return ind.sequences.alphabet, true
}

func (ind *Individual) AddSequence(position int, seq Sequence) error {
	if ind.sequences == nil {
		ind.sequences = newSequenceSet()
	}
	return ind.sequences.add("Individual.AddSequence", position, seq)
}

func (ind *Individual) noSequences(op string) error {
	if !ind.HasSequences() {
		return precondition(op, "individual has no sequences")
	}
	return nil
}

func (ind *Individual) HasSequenceAtPosition(position int) bool {
	if !ind.HasSequences() {
		return false
	}
	_, ok := ind.sequences.byPos[position]
	return ok
}

func (ind *Individual) SequenceAtPosition(position int) (Sequence, error) {
	const op = "Individual.SequenceAtPosition"
	if err := ind.noSequences(op); err != nil {
		return Sequence{}, err
	}
	return ind.sequences.at(op, position)
}

func (ind *Individual) SequenceByName(name string) (Sequence, error) {
	const op = "Individual.SequenceByName"
	if err := ind.noSequences(op); err != nil {
		return Sequence{}, err
	}
	pos, err := ind.sequences.position(op, name)
	if err != nil {
		return Sequence{}, err
	}
	return ind.sequences.byPos[pos], nil
}

func (ind *Individual) SequencePosition(name string) (int, error) {
	const op = "Individual.SequencePosition"
	if err := ind.noSequences(op); err != nil {
		return 0, err
	}
	return ind.sequences.position(op, name)
}

func (ind *Individual) DeleteSequenceAtPosition(position int) error {
	const op = "Individual.DeleteSequenceAtPosition"
	if err := ind.noSequences(op); err != nil {
		return err
	}
	return ind.sequences.remove(op, position)
}

func (ind *Individual) DeleteSequenceByName(name string) error {
	const op = "Individual.DeleteSequenceByName"
	if err := ind.noSequences(op); err != nil {
		return err
	}
	pos, err := ind.sequences.position(op, name)
	if err != nil {
		return err
	}
	return ind.sequences.remove(op, pos)
}

func (ind *Individual) SequencesNames() ([]string, error) {
	if err := ind.noSequences("Individual.SequencesNames"); err != nil {
		return nil, err
	}
	return ind.sequences.names(), nil
}

func (ind *Individual) NumberOfSequences() (int, error) {
	if err := ind.noSequences("Individual.NumberOfSequences"); err != nil {
		return 0, err
	}
	return ind.sequences.Len(), nil
}

// Genotype

func (ind *Individual) HasGenotype() bool { return ind.genotype != nil }

// SetGenotype stores a copy of mg, replacing any existing genotype.
func (ind *Individual) SetGenotype(mg *MultilocusGenotype) {
	ind.genotype = mg.Clone()
}

// InitGenotype creates an all-missing genotype over numberOfLoci loci.
func (ind *Individual) InitGenotype(numberOfLoci int) error {
	const op = "Individual.InitGenotype"
	if ind.genotype != nil {
		return precondition(op, "individual already has a genotype")
	}
	mg, err := NewMultilocusGenotype(numberOfLoci)
	if err != nil {
		return rescope(err, op, "")
	}
	ind.genotype = mg
	return nil
}

func (ind *Individual) DeleteGenotype() { ind.genotype = nil }

// Genotype returns a copy of the individual's genotype.
func (ind *Individual) Genotype() (*MultilocusGenotype, error) {
	if ind.genotype == nil {
		return nil, precondition("Individual.Genotype", "individual has no genotype")
	}
	return ind.genotype.Clone(), nil
}

func (ind *Individual) genotypeFor(op string) (*MultilocusGenotype, error) {
	if ind.genotype == nil {
		return nil, precondition(op, "individual has no genotype")
	}
	return ind.genotype, nil
}

func (ind *Individual) SetMonolocusGenotype(locus int, m MonolocusGenotype) error {
	const op = "Individual.SetMonolocusGenotype"
	mg, err := ind.genotypeFor(op)
	if err != nil {
		return err
	}
	return rescope(mg.SetMonolocusGenotype(locus, m), op, "")
}

func (ind *Individual) SetMonolocusGenotypeByAlleleKey(locus int, keys []int) error {
	const op = "Individual.SetMonolocusGenotypeByAlleleKey"
	mg, err := ind.genotypeFor(op)
	if err != nil {
		return err
	}
	return rescope(mg.SetMonolocusGenotypeByAlleleKey(locus, keys), op, "")
}

func (ind *Individual) SetMonolocusGenotypeByAlleleID(locus int, ids []string, info *LocusInfo) error {
	const op = "Individual.SetMonolocusGenotypeByAlleleID"
	mg, err := ind.genotypeFor(op)
	if err != nil {
		return err
	}
	return rescope(mg.SetMonolocusGenotypeByAlleleID(locus, ids, info), op, "")
}

func (ind *Individual) MonolocusGenotype(locus int) (MonolocusGenotype, error) {
	const op = "Individual.MonolocusGenotype"
	mg, err := ind.genotypeFor(op)
	if err != nil {
		return MonolocusGenotype{}, err
	}
	m, err := mg.MonolocusGenotype(locus)
	return m, rescope(err, op, "")
}

// Clone returns a deep copy of the individual.
func (ind *Individual) Clone() *Individual {
	if ind == nil {
		return nil
	}
	out := &Individual{
		id:        ind.id,
		sex:       ind.sex,
		locality:  ind.locality,
		sequences: ind.sequences.clone(),
		genotype:  ind.genotype.Clone(),
	}
	if ind.date != nil {
		d := *ind.date
		out.date = &d
	}
	if ind.coord != nil {
		c := *ind.coord
		out.coord = &c
	}
	return out
}
