package popgen

import (
	"sort"
)

// MultiGContainer projects every individual of every group.
func (ds *DataSet) MultiGContainer() (*MultiGContainer, error) {
	selection := make(map[int][]int, ds.groups.Len())
	for _, g := range ds.groups.items {
		positions := make([]int, g.individuals.Len())
		for i := range positions {
			positions[i] = i
		}
		selection[g.id] = positions
	}
	c, err := ds.MultiGContainerFor(selection)
	return c, rescope(err, "DataSet.MultiGContainer", "")
}

// MultiGContainerFor projects the selected individuals into a flat
// container. selection maps a group id to individual positions within that
// group. Groups are visited in ascending id order and positions in the
// order given. Individuals without a genotype are skipped.
func (ds *DataSet) MultiGContainerFor(selection map[int][]int) (*MultiGContainer, error) {
	const op = "DataSet.MultiGContainerFor"
	c := NewMultiGContainer()
	err := ds.eachSelected(op, selection, func(g *Group, ind *Individual) error {
		c.SetGroupName(g.id, g.Name())
		if ind.genotype == nil {
			return nil
		}
		return c.Add(ind.genotype, g.id)
	})
	if err != nil {
		return nil, rescope(err, op, "")
	}
	return c, nil
}

// SequenceContainerFor projects the sequences stored at sequencePos of the
// selected individuals. Individuals without a sequence there are skipped.
func (ds *DataSet) SequenceContainerFor(selection map[int][]int, sequencePos int) (*SequenceContainer, error) {
	const op = "DataSet.SequenceContainerFor"
	if ds.alphabet == "" {
		return nil, precondition(op, "no sequence data")
	}
	sc := NewSequenceContainer(ds.alphabet)
	err := ds.eachSelected(op, selection, func(g *Group, ind *Individual) error {
		if !ind.HasSequenceAtPosition(sequencePos) {
			return nil
		}
		return sc.Add(ind.sequences.byPos[sequencePos], g.id)
	})
	if err != nil {
		return nil, rescope(err, op, "")
	}
	return sc, nil
}

// eachSelected validates the whole selection, then calls fn for each selected
// individual.
func (ds *DataSet) eachSelected(op string, selection map[int][]int, fn func(*Group, *Individual) error) error {
	ids := make([]int, 0, len(selection))
	for id := range selection {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	groups := make([]*Group, len(ids))
	for i, id := range ids {
		g, gp, err := ds.groupByID(op, id)
		if err != nil {
			return err
		}
		for _, p := range selection[id] {
			if !g.individuals.inRange(p) {
				return rescope(outOfRange(op, "individual_position", p, g.individuals.Len()), op, groupPath(gp))
			}
		}
		groups[i] = g
	}

	for i, g := range groups {
		for _, p := range selection[ids[i]] {
			if err := fn(g, g.individuals.items[p]); err != nil {
				return err
			}
		}
	}
	return nil
}
