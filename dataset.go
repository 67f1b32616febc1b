// Package popgen stores population-genetics samples (groups of individuals
// carrying multilocus genotypes and sequences) and resamples them for
// permutation tests.
package popgen

import (
	"sort"
	"strconv"
)

// DataSet is the authoritative store of a study: localities, groups of
// individuals, the analyzed loci and the sequence alphabet. Every mutation
// validates first and either succeeds fully or leaves the DataSet unchanged.
//
// A DataSet is not safe for concurrent use.
type DataSet struct {
	analyzedLoci *AnalyzedLoci
	alphabet     Alphabet

	localities registry[string, Locality]
	groups     registry[int, *Group]

	// maxGroupID is the largest group id ever present, deleted groups
	// included. SplitGroup allocates above it so ids are never reused.
	maxGroupID  int
	anyGroupYet bool
}

func NewDataSet() *DataSet {
	return &DataSet{
		localities: newRegistry[string, Locality](func(l Locality) string { return l.Name }),
		groups:     newRegistry[int, *Group](func(g *Group) int { return g.id }),
	}
}

// Clone returns a deep copy sharing nothing with ds.
func (ds *DataSet) Clone() *DataSet {
	return &DataSet{
		analyzedLoci: ds.analyzedLoci.Clone(),
		alphabet:     ds.alphabet,
		localities:   ds.localities.clone(func(l Locality) Locality { return l }),
		groups:       ds.groups.clone((*Group).Clone),
		maxGroupID:   ds.maxGroupID,
		anyGroupYet:  ds.anyGroupYet,
	}
}

// Localities

func (ds *DataSet) AddLocality(l Locality) error {
	if !ds.localities.add(l) {
		return duplicateID("DataSet.AddLocality", "locality", "locality_name", l.Name)
	}
	return nil
}

func (ds *DataSet) NumberOfLocalities() int {
	return ds.localities.Len()
}

func (ds *DataSet) LocalityPosition(name string) (int, error) {
	pos, ok := ds.localities.position(name)
	if !ok {
		return 0, notFound("DataSet.LocalityPosition", "locality", "locality_name", name)
	}
	return pos, nil
}

func (ds *DataSet) LocalityAtPosition(position int) (Locality, error) {
	l, ok := ds.localities.at(position)
	if !ok {
		return Locality{}, outOfRange("DataSet.LocalityAtPosition", "locality_position", position, ds.localities.Len())
	}
	return l, nil
}

func (ds *DataSet) LocalityByName(name string) (Locality, error) {
	l, ok := ds.localities.get(name)
	if !ok {
		return Locality{}, notFound("DataSet.LocalityByName", "locality", "locality_name", name)
	}
	return l, nil
}

func (ds *DataSet) DeleteLocalityAtPosition(position int) error {
	const op = "DataSet.DeleteLocalityAtPosition"
	l, ok := ds.localities.at(position)
	if !ok {
		return outOfRange(op, "locality_position", position, ds.localities.Len())
	}
	if err := ds.checkLocalityUnused(op, l.Name); err != nil {
		return err
	}
	ds.localities.removeAt(position)
	return nil
}

func (ds *DataSet) DeleteLocalityByName(name string) error {
	const op = "DataSet.DeleteLocalityByName"
	pos, ok := ds.localities.position(name)
	if !ok {
		return notFound(op, "locality", "locality_name", name)
	}
	if err := ds.checkLocalityUnused(op, name); err != nil {
		return err
	}
	ds.localities.removeAt(pos)
	return nil
}

// checkLocalityUnused refuses to drop a locality some individual still
// refers to.
func (ds *DataSet) checkLocalityUnused(op, name string) error {
	for gp, g := range ds.groups.items {
		for ip, ind := range g.individuals.items {
			if ind.locality == name {
				e := precondition(op, "locality %q is referenced by individual %q", name, ind.id)
				e.Path = []string{groupPath(gp), individualPath(ip)}
				return e
			}
		}
	}
	return nil
}

// Groups

// AddGroup stores a copy of g. Its individuals must satisfy the same
// constraints AddIndividualToGroup enforces.
func (ds *DataSet) AddGroup(g *Group) error {
	const op = "DataSet.AddGroup"
	if ds.groups.has(g.id) {
		return duplicateID(op, "group", "group_id", strconv.Itoa(g.id))
	}

	var alphabet Alphabet
	for ip, ind := range g.individuals.items {
		a, err := ds.checkIndividual(op, ind)
		if err != nil {
			return rescope(err, op, individualPath(ip))
		}
		if a != "" {
			if alphabet != "" && a != alphabet {
				return &Error{Op: op, Kind: ErrAlphabetMismatch, Entity: "sequence", Path: []string{individualPath(ip)},
					Msg: "got " + string(a) + ", want " + string(alphabet)}
			}
			alphabet = a
		}
	}

	ds.addGroup(g.Clone())
	if ds.alphabet == "" {
		ds.alphabet = alphabet
	}
	return nil
}

func (ds *DataSet) AddEmptyGroup(id int) error {
	if ds.groups.has(id) {
		return duplicateID("DataSet.AddEmptyGroup", "group", "group_id", strconv.Itoa(id))
	}
	ds.addGroup(NewGroup(id))
	return nil
}

func (ds *DataSet) addGroup(g *Group) {
	ds.groups.add(g)
	if !ds.anyGroupYet || g.id > ds.maxGroupID {
		ds.maxGroupID = g.id
		ds.anyGroupYet = true
	}
}

func (ds *DataSet) NumberOfGroups() int {
	return ds.groups.Len()
}

// GroupIDs lists group ids in DataSet order.
func (ds *DataSet) GroupIDs() []int {
	return ds.groups.keys()
}

func (ds *DataSet) groupByID(op string, id int) (*Group, int, error) {
	pos, ok := ds.groups.position(id)
	if !ok {
		return nil, 0, notFound(op, "group", "group_id", strconv.Itoa(id))
	}
	return ds.groups.items[pos], pos, nil
}

func (ds *DataSet) groupAt(op string, position int) (*Group, error) {
	g, ok := ds.groups.at(position)
	if !ok {
		return nil, outOfRange(op, "group_position", position, ds.groups.Len())
	}
	return g, nil
}

// GroupByID returns a copy of the group with the given id.
func (ds *DataSet) GroupByID(id int) (*Group, error) {
	g, _, err := ds.groupByID("DataSet.GroupByID", id)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

func (ds *DataSet) GroupName(id int) (string, error) {
	g, _, err := ds.groupByID("DataSet.GroupName", id)
	if err != nil {
		return "", err
	}
	return g.Name(), nil
}

func (ds *DataSet) SetGroupName(id int, name string) error {
	g, _, err := ds.groupByID("DataSet.SetGroupName", id)
	if err != nil {
		return err
	}
	g.SetName(name)
	return nil
}

func (ds *DataSet) GroupPosition(id int) (int, error) {
	_, pos, err := ds.groupByID("DataSet.GroupPosition", id)
	return pos, err
}

// GroupAtPosition returns a copy of the group at position.
func (ds *DataSet) GroupAtPosition(position int) (*Group, error) {
	g, err := ds.groupAt("DataSet.GroupAtPosition", position)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

func (ds *DataSet) DeleteGroupAtPosition(position int) error {
	if !ds.groups.inRange(position) {
		return outOfRange("DataSet.DeleteGroupAtPosition", "group_position", position, ds.groups.Len())
	}
	ds.groups.removeAt(position)
	return nil
}

func (ds *DataSet) DeleteGroupByID(id int) error {
	_, pos, err := ds.groupByID("DataSet.DeleteGroupByID", id)
	if err != nil {
		return err
	}
	ds.groups.removeAt(pos)
	return nil
}

// Merge and split

// MergeTwoGroups moves every individual of group source into group target,
// then deletes source. Individual ids must stay unique in target.
func (ds *DataSet) MergeTwoGroups(source, target int) error {
	const op = "DataSet.MergeTwoGroups"
	src, srcPos, err := ds.groupByID(op, source)
	if err != nil {
		return err
	}
	dst, _, err := ds.groupByID(op, target)
	if err != nil {
		return err
	}
	if source == target {
		return precondition(op, "cannot merge group %d into itself", source)
	}

	for _, ind := range src.individuals.items {
		if dst.individuals.has(ind.id) {
			return duplicateID(op, "individual", "individual_id", ind.id)
		}
	}

	for _, ind := range src.individuals.items {
		dst.individuals.add(ind)
	}
	ds.groups.removeAt(srcPos)
	return nil
}

// MergeGroups merges every listed group into the one with the lowest id.
func (ds *DataSet) MergeGroups(ids []int) error {
	const op = "DataSet.MergeGroups"
	if len(ids) == 0 {
		return precondition(op, "at least one group id is required")
	}

	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)

	seen := make(map[string]struct{})
	for i, id := range sorted {
		if i > 0 && id == sorted[i-1] {
			return precondition(op, "group id %d listed twice", id)
		}
		g, _, err := ds.groupByID(op, id)
		if err != nil {
			return err
		}
		for _, ind := range g.individuals.items {
			if _, clash := seen[ind.id]; clash {
				return duplicateID(op, "individual", "individual_id", ind.id)
			}
			seen[ind.id] = struct{}{}
		}
	}

	for _, id := range sorted[1:] {
		if err := ds.MergeTwoGroups(id, sorted[0]); err != nil {
			// Unreachable after the checks above.
			return rescope(err, op, "")
		}
	}
	return nil
}

// SplitGroup moves the individuals at positions (positions in the group as
// it is before the call) into a new group and returns the new group's id.
// The id is one above the largest group id the DataSet has ever held.
func (ds *DataSet) SplitGroup(id int, positions []int) (int, error) {
	const op = "DataSet.SplitGroup"
	src, srcPos, err := ds.groupByID(op, id)
	if err != nil {
		return 0, err
	}

	seen := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		if !src.individuals.inRange(p) {
			return 0, rescope(outOfRange(op, "individual_position", p, src.individuals.Len()), op, groupPath(srcPos))
		}
		if _, dup := seen[p]; dup {
			return 0, precondition(op, "individual position %d listed twice", p)
		}
		seen[p] = struct{}{}
	}

	newGroup := NewGroup(ds.maxGroupID + 1)
	for _, p := range positions {
		newGroup.individuals.add(src.individuals.items[p])
	}

	desc := append([]int(nil), positions...)
	sort.Sort(sort.Reverse(sort.IntSlice(desc)))
	for _, p := range desc {
		src.individuals.removeAt(p)
	}

	ds.addGroup(newGroup)
	return newGroup.id, nil
}

// Alphabet

// SetAlphabet fixes the alphabet every sequence in the DataSet must use.
// Changing it once sequences exist is an alphabet mismatch.
func (ds *DataSet) SetAlphabet(a Alphabet) error {
	if ds.alphabet != "" && ds.alphabet != a && ds.anySequences() {
		return &Error{Op: "DataSet.SetAlphabet", Kind: ErrAlphabetMismatch, Entity: "sequence",
			Msg: "got " + string(a) + ", want " + string(ds.alphabet)}
	}
	ds.alphabet = a
	return nil
}

func (ds *DataSet) Alphabet() (Alphabet, error) {
	if ds.alphabet == "" {
		return "", precondition("DataSet.Alphabet", "no sequence data")
	}
	return ds.alphabet, nil
}

func (ds *DataSet) HasSequenceData() bool {
	return ds.alphabet != ""
}

func (ds *DataSet) anySequences() bool {
	for _, g := range ds.groups.items {
		for _, ind := range g.individuals.items {
			if ind.HasSequences() {
				return true
			}
		}
	}
	return false
}

// checkIndividual validates an individual entering the DataSet. It returns
// the individual's sequence alphabet, if any, so the caller can establish
// the DataSet alphabet on success.
func (ds *DataSet) checkIndividual(op string, ind *Individual) (Alphabet, error) {
	if ind.locality != "" && !ds.localities.has(ind.locality) {
		return "", notFound(op, "locality", "locality_name", ind.locality)
	}
	if ind.genotype != nil {
		if err := ds.checkGenotype(op, ind.genotype); err != nil {
			return "", err
		}
	}
	a, ok := ind.SequenceAlphabet()
	if !ok {
		return "", nil
	}
	if ds.alphabet != "" && a != ds.alphabet {
		return "", &Error{Op: op, Kind: ErrAlphabetMismatch, Entity: "sequence",
			Msg: "got " + string(a) + ", want " + string(ds.alphabet)}
	}
	return a, nil
}
