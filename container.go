package popgen

import (
	"sort"
	"strconv"
)

type multiGEntry struct {
	genotype *MultilocusGenotype
	groupID  int
}

// MultiGContainer is the flat, analysis-ready projection of a DataSet: an
// ordered list of (multilocus genotype, group id) pairs plus group display
// names. Group ids need not be contiguous or match DataSet positions.
type MultiGContainer struct {
	entries    []multiGEntry
	groupNames map[int]string
}

func NewMultiGContainer() *MultiGContainer {
	return &MultiGContainer{groupNames: make(map[int]string)}
}

// Add appends a copy of mg tagged with groupID. Every genotype in a
// container covers the same number of loci.
func (c *MultiGContainer) Add(mg *MultilocusGenotype, groupID int) error {
	const op = "MultiGContainer.Add"
	if mg == nil {
		return precondition(op, "nil genotype")
	}
	if len(c.entries) > 0 && mg.NumberOfLoci() != c.entries[0].genotype.NumberOfLoci() {
		return &Error{Op: op, Kind: ErrDimension, Field: "genotype",
			Msg: "got " + strconv.Itoa(mg.NumberOfLoci()) + " loci, want " + strconv.Itoa(c.entries[0].genotype.NumberOfLoci())}
	}
	c.entries = append(c.entries, multiGEntry{genotype: mg.Clone(), groupID: groupID})
	return nil
}

func (c *MultiGContainer) Size() int {
	return len(c.entries)
}

// NumberOfLoci is zero for an empty container.
func (c *MultiGContainer) NumberOfLoci() int {
	if len(c.entries) == 0 {
		return 0
	}
	return c.entries[0].genotype.NumberOfLoci()
}

func (c *MultiGContainer) check(op string, position int) error {
	if position < 0 || position >= len(c.entries) {
		return outOfRange(op, "position", position, len(c.entries))
	}
	return nil
}

// MultilocusGenotype returns a copy of the genotype at position.
func (c *MultiGContainer) MultilocusGenotype(position int) (*MultilocusGenotype, error) {
	if err := c.check("MultiGContainer.MultilocusGenotype", position); err != nil {
		return nil, err
	}
	return c.entries[position].genotype.Clone(), nil
}

func (c *MultiGContainer) Remove(position int) error {
	if err := c.check("MultiGContainer.Remove", position); err != nil {
		return err
	}
	c.entries = append(c.entries[:position], c.entries[position+1:]...)
	return nil
}

func (c *MultiGContainer) GroupID(position int) (int, error) {
	if err := c.check("MultiGContainer.GroupID", position); err != nil {
		return 0, err
	}
	return c.entries[position].groupID, nil
}

func (c *MultiGContainer) SetGroupID(position, groupID int) error {
	if err := c.check("MultiGContainer.SetGroupID", position); err != nil {
		return err
	}
	c.entries[position].groupID = groupID
	return nil
}

// GroupIDs returns the distinct group ids in ascending order.
func (c *MultiGContainer) GroupIDs() []int {
	seen := make(map[int]struct{})
	var out []int
	for _, e := range c.entries {
		if _, ok := seen[e.groupID]; !ok {
			seen[e.groupID] = struct{}{}
			out = append(out, e.groupID)
		}
	}
	sort.Ints(out)
	return out
}

func (c *MultiGContainer) NumberOfGroups() int {
	return len(c.GroupIDs())
}

// GroupName falls back to the stringified id when no name is recorded.
func (c *MultiGContainer) GroupName(groupID int) string {
	if name, ok := c.groupNames[groupID]; ok {
		return name
	}
	return strconv.Itoa(groupID)
}

func (c *MultiGContainer) SetGroupName(groupID int, name string) {
	c.groupNames[groupID] = name
}

func (c *MultiGContainer) HasGroupName(groupID int) bool {
	_, ok := c.groupNames[groupID]
	return ok
}

func (c *MultiGContainer) GroupSize(groupID int) int {
	n := 0
	for _, e := range c.entries {
		if e.groupID == groupID {
			n++
		}
	}
	return n
}

// LocusGroupSize counts members of the group with data at locus.
func (c *MultiGContainer) LocusGroupSize(groupID, locus int) (int, error) {
	if locus < 0 || locus >= c.NumberOfLoci() {
		return 0, outOfRange("MultiGContainer.LocusGroupSize", "locus_position", locus, c.NumberOfLoci())
	}
	n := 0
	for _, e := range c.entries {
		if e.groupID == groupID && !e.genotype.loci[locus].IsMissing() {
			n++
		}
	}
	return n, nil
}

func (c *MultiGContainer) Clone() *MultiGContainer {
	out := &MultiGContainer{
		entries:    make([]multiGEntry, len(c.entries)),
		groupNames: make(map[int]string, len(c.groupNames)),
	}
	for i, e := range c.entries {
		out.entries[i] = multiGEntry{genotype: e.genotype.Clone(), groupID: e.groupID}
	}
	for k, v := range c.groupNames {
		out.groupNames[k] = v
	}
	return out
}

// cloneNames returns an empty container carrying c's group names.
func (c *MultiGContainer) cloneNames() *MultiGContainer {
	out := NewMultiGContainer()
	for k, v := range c.groupNames {
		out.groupNames[k] = v
	}
	return out
}
