package popgen

import (
	"time"
)

// Individual access paths address an individual by group position and
// individual position. Errors raised below the DataSet carry the path
// group[i] individual[j] and name the public operation.

func inIndividual(err error, op string, groupPos, indPos int) error {
	return rescope(rescope(err, op, individualPath(indPos)), op, groupPath(groupPos))
}

func (ds *DataSet) individualAt(op string, groupPos, indPos int) (*Individual, error) {
	g, err := ds.groupAt(op, groupPos)
	if err != nil {
		return nil, err
	}
	ind, err := g.individualAt(op, indPos)
	if err != nil {
		return nil, rescope(err, op, groupPath(groupPos))
	}
	return ind, nil
}

// AddIndividualToGroup stores a copy of ind in the group at groupPos.
func (ds *DataSet) AddIndividualToGroup(groupPos int, ind *Individual) error {
	const op = "DataSet.AddIndividualToGroup"
	g, err := ds.groupAt(op, groupPos)
	if err != nil {
		return err
	}
	a, err := ds.checkIndividual(op, ind)
	if err != nil {
		return rescope(err, op, groupPath(groupPos))
	}
	if err := g.AddIndividual(ind); err != nil {
		return rescope(err, op, groupPath(groupPos))
	}
	if ds.alphabet == "" {
		ds.alphabet = a
	}
	return nil
}

func (ds *DataSet) AddEmptyIndividualToGroup(groupPos int, id string) error {
	const op = "DataSet.AddEmptyIndividualToGroup"
	g, err := ds.groupAt(op, groupPos)
	if err != nil {
		return err
	}
	return rescope(g.AddEmptyIndividual(id), op, groupPath(groupPos))
}

func (ds *DataSet) NumberOfIndividualsInGroup(groupPos int) (int, error) {
	g, err := ds.groupAt("DataSet.NumberOfIndividualsInGroup", groupPos)
	if err != nil {
		return 0, err
	}
	return g.NumberOfIndividuals(), nil
}

func (ds *DataSet) IndividualPositionInGroup(groupPos int, id string) (int, error) {
	const op = "DataSet.IndividualPositionInGroup"
	g, err := ds.groupAt(op, groupPos)
	if err != nil {
		return 0, err
	}
	pos, err := g.IndividualPosition(id)
	return pos, rescope(err, op, groupPath(groupPos))
}

// IndividualAtPositionFromGroup returns a copy of the individual.
func (ds *DataSet) IndividualAtPositionFromGroup(groupPos, indPos int) (*Individual, error) {
	ind, err := ds.individualAt("DataSet.IndividualAtPositionFromGroup", groupPos, indPos)
	if err != nil {
		return nil, err
	}
	return ind.Clone(), nil
}

func (ds *DataSet) IndividualByIDFromGroup(groupPos int, id string) (*Individual, error) {
	const op = "DataSet.IndividualByIDFromGroup"
	g, err := ds.groupAt(op, groupPos)
	if err != nil {
		return nil, err
	}
	ind, err := g.IndividualByID(id)
	if err != nil {
		return nil, rescope(err, op, groupPath(groupPos))
	}
	return ind, nil
}

func (ds *DataSet) DeleteIndividualAtPositionFromGroup(groupPos, indPos int) error {
	const op = "DataSet.DeleteIndividualAtPositionFromGroup"
	g, err := ds.groupAt(op, groupPos)
	if err != nil {
		return err
	}
	return rescope(g.DeleteIndividualAtPosition(indPos), op, groupPath(groupPos))
}

func (ds *DataSet) DeleteIndividualByIDFromGroup(groupPos int, id string) error {
	const op = "DataSet.DeleteIndividualByIDFromGroup"
	g, err := ds.groupAt(op, groupPos)
	if err != nil {
		return err
	}
	return rescope(g.DeleteIndividualByID(id), op, groupPath(groupPos))
}

// Attributes

func (ds *DataSet) SetIndividualSexInGroup(groupPos, indPos int, sex uint16) error {
	ind, err := ds.individualAt("DataSet.SetIndividualSexInGroup", groupPos, indPos)
	if err != nil {
		return err
	}
	ind.SetSex(sex)
	return nil
}

func (ds *DataSet) IndividualSexInGroup(groupPos, indPos int) (uint16, error) {
	ind, err := ds.individualAt("DataSet.IndividualSexInGroup", groupPos, indPos)
	if err != nil {
		return 0, err
	}
	return ind.Sex(), nil
}

func (ds *DataSet) SetIndividualDateInGroup(groupPos, indPos int, d time.Time) error {
	ind, err := ds.individualAt("DataSet.SetIndividualDateInGroup", groupPos, indPos)
	if err != nil {
		return err
	}
	ind.SetDate(d)
	return nil
}

func (ds *DataSet) IndividualDateInGroup(groupPos, indPos int) (time.Time, error) {
	const op = "DataSet.IndividualDateInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return time.Time{}, err
	}
	d, err := ind.Date()
	return d, inIndividual(err, op, groupPos, indPos)
}

func (ds *DataSet) SetIndividualCoordInGroup(groupPos, indPos int, c Point2D) error {
	ind, err := ds.individualAt("DataSet.SetIndividualCoordInGroup", groupPos, indPos)
	if err != nil {
		return err
	}
	ind.SetCoord(c)
	return nil
}

func (ds *DataSet) IndividualCoordInGroup(groupPos, indPos int) (Point2D, error) {
	const op = "DataSet.IndividualCoordInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return Point2D{}, err
	}
	c, err := ind.Coord()
	return c, inIndividual(err, op, groupPos, indPos)
}

// SetIndividualLocalityInGroupByName points the individual at an existing
// locality.
func (ds *DataSet) SetIndividualLocalityInGroupByName(groupPos, indPos int, name string) error {
	const op = "DataSet.SetIndividualLocalityInGroupByName"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return err
	}
	if !ds.localities.has(name) {
		return notFound(op, "locality", "locality_name", name)
	}
	ind.SetLocality(name)
	return nil
}

// IndividualLocalityInGroup resolves the individual's locality.
func (ds *DataSet) IndividualLocalityInGroup(groupPos, indPos int) (Locality, error) {
	const op = "DataSet.IndividualLocalityInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return Locality{}, err
	}
	name, err := ind.Locality()
	if err != nil {
		return Locality{}, inIndividual(err, op, groupPos, indPos)
	}
	l, ok := ds.localities.get(name)
	if !ok {
		return Locality{}, notFound(op, "locality", "locality_name", name)
	}
	return l, nil
}

// Sequences

// AddIndividualSequenceInGroup adds seq at sequencePos. The first sequence
// added to the DataSet establishes its alphabet.
func (ds *DataSet) AddIndividualSequenceInGroup(groupPos, indPos, sequencePos int, seq Sequence) error {
	const op = "DataSet.AddIndividualSequenceInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return err
	}
	if ds.alphabet != "" && seq.Alphabet != ds.alphabet {
		return inIndividual(&Error{Kind: ErrAlphabetMismatch, Entity: "sequence", ID: seq.Name,
			Msg: "got " + string(seq.Alphabet) + ", want " + string(ds.alphabet)}, op, groupPos, indPos)
	}
	if err := ind.AddSequence(sequencePos, seq); err != nil {
		return inIndividual(err, op, groupPos, indPos)
	}
	ds.alphabet = seq.Alphabet
	return nil
}

func (ds *DataSet) IndividualSequenceByNameInGroup(groupPos, indPos int, name string) (Sequence, error) {
	const op = "DataSet.IndividualSequenceByNameInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return Sequence{}, err
	}
	s, err := ind.SequenceByName(name)
	return s, inIndividual(err, op, groupPos, indPos)
}

func (ds *DataSet) IndividualSequenceAtPositionInGroup(groupPos, indPos, sequencePos int) (Sequence, error) {
	const op = "DataSet.IndividualSequenceAtPositionInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return Sequence{}, err
	}
	s, err := ind.SequenceAtPosition(sequencePos)
	return s, inIndividual(err, op, groupPos, indPos)
}

func (ds *DataSet) DeleteIndividualSequenceByNameInGroup(groupPos, indPos int, name string) error {
	const op = "DataSet.DeleteIndividualSequenceByNameInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return err
	}
	return inIndividual(ind.DeleteSequenceByName(name), op, groupPos, indPos)
}

func (ds *DataSet) DeleteIndividualSequenceAtPositionInGroup(groupPos, indPos, sequencePos int) error {
	const op = "DataSet.DeleteIndividualSequenceAtPositionInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return err
	}
	return inIndividual(ind.DeleteSequenceAtPosition(sequencePos), op, groupPos, indPos)
}

func (ds *DataSet) IndividualSequencesNamesInGroup(groupPos, indPos int) ([]string, error) {
	const op = "DataSet.IndividualSequencesNamesInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return nil, err
	}
	names, err := ind.SequencesNames()
	return names, inIndividual(err, op, groupPos, indPos)
}

func (ds *DataSet) IndividualSequencePositionInGroup(groupPos, indPos int, name string) (int, error) {
	const op = "DataSet.IndividualSequencePositionInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return 0, err
	}
	p, err := ind.SequencePosition(name)
	return p, inIndividual(err, op, groupPos, indPos)
}

func (ds *DataSet) IndividualNumberOfSequencesInGroup(groupPos, indPos int) (int, error) {
	const op = "DataSet.IndividualNumberOfSequencesInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return 0, err
	}
	n, err := ind.NumberOfSequences()
	return n, inIndividual(err, op, groupPos, indPos)
}

// Genotypes

// SetIndividualGenotypeInGroup stores a copy of mg. The genotype must cover
// exactly the analyzed loci.
func (ds *DataSet) SetIndividualGenotypeInGroup(groupPos, indPos int, mg *MultilocusGenotype) error {
	const op = "DataSet.SetIndividualGenotypeInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return err
	}
	if mg == nil {
		return precondition(op, "nil genotype")
	}
	if err := ds.checkGenotype(op, mg); err != nil {
		return inIndividual(err, op, groupPos, indPos)
	}
	ind.SetGenotype(mg)
	return nil
}

// InitIndividualGenotypeInGroup gives the individual an all-missing genotype
// over the analyzed loci.
func (ds *DataSet) InitIndividualGenotypeInGroup(groupPos, indPos int) error {
	const op = "DataSet.InitIndividualGenotypeInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return err
	}
	al, err := ds.loci(op)
	if err != nil {
		return err
	}
	return inIndividual(ind.InitGenotype(al.NumberOfLoci()), op, groupPos, indPos)
}

func (ds *DataSet) DeleteIndividualGenotypeInGroup(groupPos, indPos int) error {
	ind, err := ds.individualAt("DataSet.DeleteIndividualGenotypeInGroup", groupPos, indPos)
	if err != nil {
		return err
	}
	ind.DeleteGenotype()
	return nil
}

func (ds *DataSet) SetIndividualMonolocusGenotypeInGroup(groupPos, indPos, locusPos int, m MonolocusGenotype) error {
	const op = "DataSet.SetIndividualMonolocusGenotypeInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return err
	}
	if err := ds.checkPloidy(op, locusPos, m); err != nil {
		return inIndividual(err, op, groupPos, indPos)
	}
	return inIndividual(ind.SetMonolocusGenotype(locusPos, m), op, groupPos, indPos)
}

func (ds *DataSet) SetIndividualMonolocusGenotypeByAlleleKeyInGroup(groupPos, indPos, locusPos int, keys []int) error {
	const op = "DataSet.SetIndividualMonolocusGenotypeByAlleleKeyInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return err
	}
	if err := ds.checkPloidy(op, locusPos, MultiAllele(keys...)); err != nil {
		return inIndividual(err, op, groupPos, indPos)
	}
	return inIndividual(ind.SetMonolocusGenotypeByAlleleKey(locusPos, keys), op, groupPos, indPos)
}

// SetIndividualMonolocusGenotypeByAlleleIDInGroup resolves allele ids against
// the locus defined at locusPos.
func (ds *DataSet) SetIndividualMonolocusGenotypeByAlleleIDInGroup(groupPos, indPos, locusPos int, ids []string) error {
	const op = "DataSet.SetIndividualMonolocusGenotypeByAlleleIDInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return err
	}
	al, err := ds.loci(op)
	if err != nil {
		return err
	}
	locus, err := al.locusAt(op, locusPos)
	if err != nil {
		return err
	}
	if len(ids) != 0 && len(ids) != locus.ploidy {
		return inIndividual(precondition(op, "got %d alleles, locus %q has ploidy %d", len(ids), locus.name, locus.ploidy),
			op, groupPos, indPos)
	}
	return inIndividual(ind.SetMonolocusGenotypeByAlleleID(locusPos, ids, locus), op, groupPos, indPos)
}

func (ds *DataSet) IndividualMonolocusGenotypeInGroup(groupPos, indPos, locusPos int) (MonolocusGenotype, error) {
	const op = "DataSet.IndividualMonolocusGenotypeInGroup"
	ind, err := ds.individualAt(op, groupPos, indPos)
	if err != nil {
		return MonolocusGenotype{}, err
	}
	m, err := ind.MonolocusGenotype(locusPos)
	return m, inIndividual(err, op, groupPos, indPos)
}
