package popgen

import (
	"strconv"
)

// Group is a numerically identified collection of individuals, typically a
// population. Individual ids are unique within a group.
type Group struct {
	id          int
	name        string
	individuals registry[string, *Individual]
}

func NewGroup(id int) *Group {
	return &Group{
		id:          id,
		individuals: newRegistry[string, *Individual](func(ind *Individual) string { return ind.id }),
	}
}

func (g *Group) ID() int { return g.id }

// Name returns the display name, falling back to the id.
func (g *Group) Name() string {
	if g.name == "" {
		return strconv.Itoa(g.id)
	}
	return g.name
}

func (g *Group) SetName(name string) { g.name = name }

// AddIndividual stores a copy of ind.
func (g *Group) AddIndividual(ind *Individual) error {
	if g.individuals.has(ind.id) {
		return duplicateID("Group.AddIndividual", "individual", "individual_id", ind.id)
	}
	g.individuals.add(ind.Clone())
	return nil
}

func (g *Group) AddEmptyIndividual(id string) error {
	if !g.individuals.add(NewIndividual(id)) {
		return duplicateID("Group.AddEmptyIndividual", "individual", "individual_id", id)
	}
	return nil
}

func (g *Group) NumberOfIndividuals() int {
	return g.individuals.Len()
}

func (g *Group) IndividualPosition(id string) (int, error) {
	pos, ok := g.individuals.position(id)
	if !ok {
		return 0, notFound("Group.IndividualPosition", "individual", "individual_id", id)
	}
	return pos, nil
}

// individualAt returns the stored individual (not a copy) for in-package
// mutation paths.
func (g *Group) individualAt(op string, position int) (*Individual, error) {
	ind, ok := g.individuals.at(position)
	if !ok {
		return nil, outOfRange(op, "individual_position", position, g.individuals.Len())
	}
	return ind, nil
}

// IndividualAtPosition returns a copy of the individual at position.
func (g *Group) IndividualAtPosition(position int) (*Individual, error) {
	ind, err := g.individualAt("Group.IndividualAtPosition", position)
	if err != nil {
		return nil, err
	}
	return ind.Clone(), nil
}

func (g *Group) IndividualByID(id string) (*Individual, error) {
	ind, ok := g.individuals.get(id)
	if !ok {
		return nil, notFound("Group.IndividualByID", "individual", "individual_id", id)
	}
	return ind.Clone(), nil
}

func (g *Group) DeleteIndividualAtPosition(position int) error {
	if !g.individuals.inRange(position) {
		return outOfRange("Group.DeleteIndividualAtPosition", "individual_position", position, g.individuals.Len())
	}
	g.individuals.removeAt(position)
	return nil
}

func (g *Group) DeleteIndividualByID(id string) error {
	pos, ok := g.individuals.position(id)
	if !ok {
		return notFound("Group.DeleteIndividualByID", "individual", "individual_id", id)
	}
	g.individuals.removeAt(pos)
	return nil
}

// IndividualIDs lists individual ids in group order.
func (g *Group) IndividualIDs() []string {
	return g.individuals.keys()
}

// HasGenotypes reports whether any member carries a genotype.
func (g *Group) HasGenotypes() bool {
	for _, ind := range g.individuals.items {
		if ind.HasGenotype() {
			return true
		}
	}
	return false
}

func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	return &Group{
		id:          g.id,
		name:        g.name,
		individuals: g.individuals.clone((*Individual).Clone),
	}
}
