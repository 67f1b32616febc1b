package popgen

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every *Error unwraps to exactly one of these, so callers can
// test with errors.Is.
var (
	ErrDuplicateID      = errors.New("duplicate identifier")
	ErrNotFound         = errors.New("not found")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrPrecondition     = errors.New("precondition violation")
	ErrAlphabetMismatch = errors.New("alphabet mismatch")
	ErrDimension        = errors.New("dimension error")
)

// Error describes a failed operation on a DataSet, Group, Individual,
// AnalyzedLoci or container. Op always names the public entry point that was
// called, never an internal helper.
type Error struct {
	Op     string   // e.g. "DataSet.IndividualAtPositionFromGroup"
	Kind   error    // one of the Err* sentinels
	Entity string   // locality, group, individual, locus, allele, sequence, genotype
	Field  string   // offending parameter, e.g. "individual_position"
	Path   []string // entity path from the outermost container inward
	ID     string   // offending identifier, for DuplicateID and NotFound
	Index  int      // offending position, for IndexOutOfRange
	Lower  int
	Upper  int
	Msg    string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if len(e.Path) > 0 {
		b.WriteString(strings.Join(e.Path, " "))
		b.WriteString(": ")
	}

	switch e.Kind {
	case ErrIndexOutOfRange:
		fmt.Fprintf(&b, "%s %d out of range [%d, %d)", e.field(), e.Index, e.Lower, e.Upper)
	case ErrDuplicateID:
		fmt.Fprintf(&b, "%s %q already in use", e.field(), e.ID)
	case ErrNotFound:
		fmt.Fprintf(&b, "%s %q not found", e.field(), e.ID)
	default:
		if e.Kind != nil {
			b.WriteString(e.Kind.Error())
		}
	}

	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func (e *Error) field() string {
	if e.Field != "" {
		return e.Field
	}
	if e.Entity != "" {
		return e.Entity
	}
	return "value"
}

func outOfRange(op, field string, index, upper int) *Error {
	return &Error{Op: op, Kind: ErrIndexOutOfRange, Field: field, Index: index, Lower: 0, Upper: upper}
}

func duplicateID(op, entity, field, id string) *Error {
	return &Error{Op: op, Kind: ErrDuplicateID, Entity: entity, Field: field, ID: id}
}

func notFound(op, entity, field, id string) *Error {
	return &Error{Op: op, Kind: ErrNotFound, Entity: entity, Field: field, ID: id}
}

func precondition(op, format string, args ...interface{}) *Error {
	return &Error{Op: op, Kind: ErrPrecondition, Msg: fmt.Sprintf(format, args...)}
}

// rescope re-attributes an error raised by a nested entity to the public
// operation op, prepending the path element that identifies where the nested
// entity lives. Errors that are not *Error pass through untouched.
func rescope(err error, op string, path string) error {
	if err == nil {
		return nil
	}

	var e *Error
	if !errors.As(err, &e) {
		return err
	}

	out := *e
	out.Op = op
	if path != "" {
		out.Path = append([]string{path}, e.Path...)
	}

	return &out
}

func groupPath(position int) string {
	return fmt.Sprintf("group[%d]", position)
}

func individualPath(position int) string {
	return fmt.Sprintf("individual[%d]", position)
}
