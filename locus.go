package popgen

import (
	"strconv"
)

// AlleleInfo describes one known allele at a locus. Size is the fragment
// length for microsatellite calls and zero when the allele id is not numeric.
type AlleleInfo struct {
	ID   string
	Size float64
}

// NewAlleleInfo builds an AlleleInfo, deriving Size from id when id parses as
// a number (GeneMapper and most microsatellite callers emit sizes as ids).
func NewAlleleInfo(id string) AlleleInfo {
	a := AlleleInfo{ID: id}
	if size, err := strconv.ParseFloat(id, 64); err == nil {
		a.Size = size
	}
	return a
}

// LocusInfo holds the ploidy and the ordered alleles of one locus. An
// allele's key is its position in the allele list; MonolocusGenotype values
// refer to alleles by key.
type LocusInfo struct {
	name    string
	ploidy  int
	alleles registry[string, AlleleInfo]
}

// Common ploidies.
const (
	Haploid = 1
	Diploid = 2
)

func NewLocusInfo(name string, ploidy int) *LocusInfo {
	return &LocusInfo{
		name:    name,
		ploidy:  ploidy,
		alleles: newRegistry[string, AlleleInfo](func(a AlleleInfo) string { return a.ID }),
	}
}

func (l *LocusInfo) Name() string { return l.name }
func (l *LocusInfo) Ploidy() int  { return l.ploidy }

// AddAlleleInfo appends a new allele. Allele ids are unique within a locus.
func (l *LocusInfo) AddAlleleInfo(a AlleleInfo) error {
	if !l.alleles.add(a) {
		return duplicateID("LocusInfo.AddAlleleInfo", "allele", "allele_id", a.ID)
	}
	return nil
}

func (l *LocusInfo) NumberOfAlleles() int {
	return l.alleles.Len()
}

func (l *LocusInfo) AlleleInfoByID(id string) (AlleleInfo, error) {
	a, ok := l.alleles.get(id)
	if !ok {
		return AlleleInfo{}, notFound("LocusInfo.AlleleInfoByID", "allele", "allele_id", id)
	}
	return a, nil
}

func (l *LocusInfo) AlleleInfoByKey(key int) (AlleleInfo, error) {
	a, ok := l.alleles.at(key)
	if !ok {
		return AlleleInfo{}, outOfRange("LocusInfo.AlleleInfoByKey", "allele_key", key, l.alleles.Len())
	}
	return a, nil
}

// AlleleInfoKey returns the key (position) of the allele with the given id.
func (l *LocusInfo) AlleleInfoKey(id string) (int, error) {
	key, ok := l.alleles.position(id)
	if !ok {
		return 0, notFound("LocusInfo.AlleleInfoKey", "allele", "allele_id", id)
	}
	return key, nil
}

func (l *LocusInfo) AlleleIDs() []string {
	return l.alleles.keys()
}

func (l *LocusInfo) Clone() *LocusInfo {
	if l == nil {
		return nil
	}
	return &LocusInfo{
		name:    l.name,
		ploidy:  l.ploidy,
		alleles: l.alleles.clone(func(a AlleleInfo) AlleleInfo { return a }),
	}
}

// AnalyzedLoci is the fixed-size, ordered set of loci under study. Slots are
// undefined until SetLocusInfo fills them.
type AnalyzedLoci struct {
	loci []*LocusInfo
}

func NewAnalyzedLoci(numberOfLoci int) (*AnalyzedLoci, error) {
	if numberOfLoci < 1 {
		return nil, precondition("NewAnalyzedLoci", "number of loci must be > 0, got %d", numberOfLoci)
	}
	return &AnalyzedLoci{loci: make([]*LocusInfo, numberOfLoci)}, nil
}

func (al *AnalyzedLoci) NumberOfLoci() int {
	return len(al.loci)
}

// SetLocusInfo stores a copy of locus at position. Locus names must stay
// unique across the set.
func (al *AnalyzedLoci) SetLocusInfo(position int, locus *LocusInfo) error {
	const op = "AnalyzedLoci.SetLocusInfo"
	if position < 0 || position >= len(al.loci) {
		return outOfRange(op, "locus_position", position, len(al.loci))
	}
	if locus == nil {
		return precondition(op, "nil locus")
	}
	for i, l := range al.loci {
		if i != position && l != nil && l.name == locus.name {
			return duplicateID(op, "locus", "locus_name", locus.name)
		}
	}
	al.loci[position] = locus.Clone()
	return nil
}

func (al *AnalyzedLoci) locusAt(op string, position int) (*LocusInfo, error) {
	if position < 0 || position >= len(al.loci) {
		return nil, outOfRange(op, "locus_position", position, len(al.loci))
	}
	if al.loci[position] == nil {
		return nil, precondition(op, "no locus defined at position %d", position)
	}
	return al.loci[position], nil
}

func (al *AnalyzedLoci) LocusInfoPosition(name string) (int, error) {
	for i, l := range al.loci {
		if l != nil && l.name == name {
			return i, nil
		}
	}
	return 0, notFound("AnalyzedLoci.LocusInfoPosition", "locus", "locus_name", name)
}

// LocusInfoAtPosition returns a copy of the locus at position.
func (al *AnalyzedLoci) LocusInfoAtPosition(position int) (*LocusInfo, error) {
	l, err := al.locusAt("AnalyzedLoci.LocusInfoAtPosition", position)
	if err != nil {
		return nil, err
	}
	return l.Clone(), nil
}

func (al *AnalyzedLoci) LocusInfoByName(name string) (*LocusInfo, error) {
	pos, err := al.LocusInfoPosition(name)
	if err != nil {
		return nil, rescope(err, "AnalyzedLoci.LocusInfoByName", "")
	}
	return al.loci[pos].Clone(), nil
}

func (al *AnalyzedLoci) AddAlleleInfoByLocusPosition(position int, a AlleleInfo) error {
	const op = "AnalyzedLoci.AddAlleleInfoByLocusPosition"
	l, err := al.locusAt(op, position)
	if err != nil {
		return err
	}
	return rescope(l.AddAlleleInfo(a), op, "")
}

func (al *AnalyzedLoci) AddAlleleInfoByLocusName(name string, a AlleleInfo) error {
	const op = "AnalyzedLoci.AddAlleleInfoByLocusName"
	pos, err := al.LocusInfoPosition(name)
	if err != nil {
		return rescope(err, op, "")
	}
	return rescope(al.loci[pos].AddAlleleInfo(a), op, "")
}

func (al *AnalyzedLoci) PloidyByLocusPosition(position int) (int, error) {
	l, err := al.locusAt("AnalyzedLoci.PloidyByLocusPosition", position)
	if err != nil {
		return 0, err
	}
	return l.ploidy, nil
}

func (al *AnalyzedLoci) PloidyByLocusName(name string) (int, error) {
	pos, err := al.LocusInfoPosition(name)
	if err != nil {
		return 0, rescope(err, "AnalyzedLoci.PloidyByLocusName", "")
	}
	return al.loci[pos].ploidy, nil
}

func (al *AnalyzedLoci) Clone() *AnalyzedLoci {
	if al == nil {
		return nil
	}
	out := &AnalyzedLoci{loci: make([]*LocusInfo, len(al.loci))}
	for i, l := range al.loci {
		out.loci[i] = l.Clone()
	}
	return out
}
