package popgen

import (
	"sort"
	"strconv"
)

// Alphabet names the residue alphabet shared by every sequence of a DataSet.
// Validating residues against it is left to the readers.
type Alphabet string

const (
	DNA     Alphabet = "DNA"
	RNA     Alphabet = "RNA"
	Protein Alphabet = "Protein"
)

// Sequence is one named sequence of an individual.
type Sequence struct {
	Name     string
	Alphabet Alphabet
	Content  string
}

// sequenceSet holds an individual's sequences keyed by sequence position.
// All sequences share one alphabet.
type sequenceSet struct {
	alphabet  Alphabet
	byPos     map[int]Sequence
	positions []int // sorted
}

func newSequenceSet() *sequenceSet {
	return &sequenceSet{byPos: make(map[int]Sequence)}
}

func (s *sequenceSet) Len() int {
	return len(s.positions)
}

func (s *sequenceSet) add(op string, position int, seq Sequence) error {
	if s.Len() > 0 && seq.Alphabet != s.alphabet {
		return &Error{Op: op, Kind: ErrAlphabetMismatch, Entity: "sequence", ID: seq.Name,
			Msg: "got " + string(seq.Alphabet) + ", want " + string(s.alphabet)}
	}
	if _, exists := s.byPos[position]; exists {
		return duplicateID(op, "sequence", "sequence_position", strconv.Itoa(position))
	}
	if _, err := s.position(op, seq.Name); err == nil {
		return duplicateID(op, "sequence", "sequence_name", seq.Name)
	}

	s.alphabet = seq.Alphabet
	s.byPos[position] = seq
	i := sort.SearchInts(s.positions, position)
	s.positions = append(s.positions, 0)
	copy(s.positions[i+1:], s.positions[i:])
	s.positions[i] = position
	return nil
}

func (s *sequenceSet) position(op, name string) (int, error) {
	for _, p := range s.positions {
		if s.byPos[p].Name == name {
			return p, nil
		}
	}
	return 0, notFound(op, "sequence", "sequence_name", name)
}

func (s *sequenceSet) at(op string, position int) (Sequence, error) {
	seq, ok := s.byPos[position]
	if !ok {
		return Sequence{}, s.missingPosition(op, position)
	}
	return seq, nil
}

func (s *sequenceSet) remove(op string, position int) error {
	if _, ok := s.byPos[position]; !ok {
		return s.missingPosition(op, position)
	}
	delete(s.byPos, position)
	i := sort.SearchInts(s.positions, position)
	s.positions = append(s.positions[:i], s.positions[i+1:]...)
	return nil
}

// missingPosition reports an unused sequence position as a bound violation
// over the positions currently in use.
func (s *sequenceSet) missingPosition(op string, position int) error {
	upper := 0
	if n := len(s.positions); n > 0 {
		upper = s.positions[n-1] + 1
	}
	e := outOfRange(op, "sequence_position", position, upper)
	e.Msg = "no sequence at this position"
	return e
}

func (s *sequenceSet) names() []string {
	out := make([]string, 0, len(s.positions))
	for _, p := range s.positions {
		out = append(out, s.byPos[p].Name)
	}
	return out
}

func (s *sequenceSet) clone() *sequenceSet {
	if s == nil {
		return nil
	}
	out := &sequenceSet{
		alphabet:  s.alphabet,
		byPos:     make(map[int]Sequence, len(s.byPos)),
		positions: append([]int(nil), s.positions...),
	}
	for k, v := range s.byPos {
		out.byPos[k] = v
	}
	return out
}

// SequenceContainer is the flat, alphabet-tagged projection of selected
// individuals' sequences at one sequence position, each tagged with the id of
// the group it came from. It is what sequence statistics consume.
type SequenceContainer struct {
	alphabet Alphabet
	seqs     registry[string, Sequence]
	groupIDs []int
}

func NewSequenceContainer(alphabet Alphabet) *SequenceContainer {
	return &SequenceContainer{
		alphabet: alphabet,
		seqs:     newRegistry[string, Sequence](func(s Sequence) string { return s.Name }),
	}
}

func (sc *SequenceContainer) Alphabet() Alphabet { return sc.alphabet }
func (sc *SequenceContainer) Size() int          { return sc.seqs.Len() }

func (sc *SequenceContainer) Add(seq Sequence, groupID int) error {
	const op = "SequenceContainer.Add"
	if seq.Alphabet != sc.alphabet {
		return &Error{Op: op, Kind: ErrAlphabetMismatch, Entity: "sequence", ID: seq.Name,
			Msg: "got " + string(seq.Alphabet) + ", want " + string(sc.alphabet)}
	}
	if !sc.seqs.add(seq) {
		return duplicateID(op, "sequence", "sequence_name", seq.Name)
	}
	sc.groupIDs = append(sc.groupIDs, groupID)
	return nil
}

func (sc *SequenceContainer) Sequence(i int) (Sequence, error) {
	s, ok := sc.seqs.at(i)
	if !ok {
		return Sequence{}, outOfRange("SequenceContainer.Sequence", "position", i, sc.seqs.Len())
	}
	return s, nil
}

func (sc *SequenceContainer) GroupID(i int) (int, error) {
	if !sc.seqs.inRange(i) {
		return 0, outOfRange("SequenceContainer.GroupID", "position", i, sc.seqs.Len())
	}
	return sc.groupIDs[i], nil
}

func (sc *SequenceContainer) GroupIDByName(name string) (int, error) {
	pos, ok := sc.seqs.position(name)
	if !ok {
		return 0, notFound("SequenceContainer.GroupIDByName", "sequence", "sequence_name", name)
	}
	return sc.groupIDs[pos], nil
}

func (sc *SequenceContainer) Names() []string {
	return sc.seqs.keys()
}
