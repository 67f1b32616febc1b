// Package genemapper reads tab-delimited genotype tables exported from
// GeneMapper (Applied Biosystems) into a popgen.DataSet.
package genemapper

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/popgen"
)

const (
	ColumnSample     = "Sample Name"
	ColumnMarker     = "Marker"
	ColumnPopulation = "Population"
)

var alleleColumn = regexp.MustCompile(`^Allele (\d+)$`)

// Options controls how an export is turned into loci.
type Options struct {
	// IndependentAlleles makes every allele column of a marker its own
	// haploid locus, named <marker>_<k>.
	IndependentAlleles bool
}

type header struct {
	sample     int
	marker     int
	population int   // -1 when absent
	alleles    []int // column indexes, ordered by allele number
}

func parseHeader(fields []string) (header, error) {
	h := header{sample: -1, marker: -1, population: -1}

	type numbered struct{ n, col int }
	var alleles []numbered
	for i, f := range fields {
		f = strings.TrimSpace(f)
		switch f {
		case ColumnSample:
			h.sample = i
		case ColumnMarker:
			h.marker = i
		case ColumnPopulation:
			h.population = i
		default:
			if m := alleleColumn.FindStringSubmatch(f); m != nil {
				n, _ := strconv.Atoi(m[1])
				alleles = append(alleles, numbered{n: n, col: i})
			}
		}
	}

	if h.sample < 0 {
		return h, fmt.Errorf("missing %q column", ColumnSample)
	}
	if h.marker < 0 {
		return h, fmt.Errorf("missing %q column", ColumnMarker)
	}
	if len(alleles) == 0 {
		return h, errors.New(`no "Allele N" column`)
	}

	sort.Slice(alleles, func(i, j int) bool { return alleles[i].n < alleles[j].n })
	for _, a := range alleles {
		h.alleles = append(h.alleles, a.col)
	}
	return h, nil
}

type sample struct {
	id    string
	group int
	calls map[string][]string // marker -> allele ids, nil when missing
}

type table struct {
	markers     []string
	groupLabels []string
	samples     []*sample
	ploidy      int
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// call reads one marker's allele columns. Empty columns after a called
// allele repeat it, which is how homozygotes are exported. A call with no
// alleles at all is missing.
func call(rec []string, cols []int) []string {
	vals := make([]string, len(cols))
	first := ""
	for i, c := range cols {
		vals[i] = field(rec, c)
		if first == "" {
			first = vals[i]
		}
	}
	if first == "" {
		return nil
	}
	for i := range vals {
		if vals[i] == "" {
			vals[i] = first
		}
	}
	return vals
}

func readTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	rec, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty export")
	} else if err != nil {
		return nil, err
	}
	h, err := parseHeader(rec)
	if err != nil {
		return nil, err
	}

	t := &table{ploidy: len(h.alleles)}
	seenMarker := make(map[string]struct{})
	groupByLabel := make(map[string]int)
	samples := make(map[string]*sample)

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		id := field(rec, h.sample)
		marker := field(rec, h.marker)
		if id == "" && marker == "" {
			continue
		}
		if id == "" || marker == "" {
			return nil, fmt.Errorf("line %d: sample name and marker are both required", line)
		}

		label := field(rec, h.population)
		group, ok := groupByLabel[label]
		if !ok {
			group = len(t.groupLabels)
			groupByLabel[label] = group
			t.groupLabels = append(t.groupLabels, label)
		}

		if _, ok := seenMarker[marker]; !ok {
			seenMarker[marker] = struct{}{}
			t.markers = append(t.markers, marker)
		}

		s, ok := samples[id]
		if !ok {
			s = &sample{id: id, group: group, calls: make(map[string][]string)}
			samples[id] = s
			t.samples = append(t.samples, s)
		} else if s.group != group {
			return nil, fmt.Errorf("line %d: sample %q listed under populations %q and %q: %w",
				line, id, t.groupLabels[s.group], label, popgen.ErrDuplicateID)
		}

		if _, dup := s.calls[marker]; dup {
			return nil, fmt.Errorf("line %d: sample %q has marker %q twice: %w", line, id, marker, popgen.ErrDuplicateID)
		}
		s.calls[marker] = call(rec, h.alleles)
	}

	if len(t.markers) == 0 {
		return nil, errors.New("export has no genotype rows")
	}
	return t, nil
}

// locus is one analyzed locus derived from a marker.
type locus struct {
	name   string
	marker string
	column int // allele column for independent alleles, -1 otherwise
	ploidy int
}

func (t *table) loci(opts Options) []locus {
	var out []locus
	for _, m := range t.markers {
		if !opts.IndependentAlleles {
			out = append(out, locus{name: m, marker: m, column: -1, ploidy: t.ploidy})
			continue
		}
		for k := 0; k < t.ploidy; k++ {
			out = append(out, locus{name: m + "_" + strconv.Itoa(k+1), marker: m, column: k, ploidy: popgen.Haploid})
		}
	}
	return out
}

func (l locus) alleles(s *sample) []string {
	c := s.calls[l.marker]
	if c == nil {
		return nil
	}
	if l.column < 0 {
		return c
	}
	return c[l.column : l.column+1]
}

// Read parses a GeneMapper export. Each distinct Population value becomes a
// group (ids 0, 1, ... in first-seen order, named after the value); without
// that column every sample lands in group 0.
func Read(r io.Reader, opts Options) (*popgen.DataSet, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	loci := t.loci(opts)
	ds := popgen.NewDataSet()
	if err := ds.InitAnalyzedLoci(len(loci)); err != nil {
		return nil, err
	}

	for i, l := range loci {
		info := popgen.NewLocusInfo(l.name, l.ploidy)
		seen := make(map[string]struct{})
		for _, s := range t.samples {
			for _, a := range l.alleles(s) {
				if _, ok := seen[a]; ok {
					continue
				}
				seen[a] = struct{}{}
				if err := info.AddAlleleInfo(popgen.NewAlleleInfo(a)); err != nil {
					return nil, err
				}
			}
		}
		if err := ds.SetLocusInfo(i, info); err != nil {
			return nil, err
		}
	}

	for id, label := range t.groupLabels {
		if err := ds.AddEmptyGroup(id); err != nil {
			return nil, err
		}
		if label != "" {
			if err := ds.SetGroupName(id, label); err != nil {
				return nil, err
			}
		}
	}

	for _, s := range t.samples {
		// Group ids equal group positions here.
		gp := s.group
		if err := ds.AddEmptyIndividualToGroup(gp, s.id); err != nil {
			return nil, err
		}
		ip, err := ds.IndividualPositionInGroup(gp, s.id)
		if err != nil {
			return nil, err
		}
		if err := ds.InitIndividualGenotypeInGroup(gp, ip); err != nil {
			return nil, err
		}
		for li, l := range loci {
			ids := l.alleles(s)
			if ids == nil {
				continue
			}
			if err := ds.SetIndividualMonolocusGenotypeByAlleleIDInGroup(gp, ip, li, ids); err != nil {
				return nil, err
			}
		}
	}

	return ds, nil
}

// ReadPath opens path (see Open) and reads it.
func ReadPath(ctx context.Context, path string, opts Options) (*popgen.DataSet, error) {
	rc, err := Open(ctx, path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	ds, err := Read(rc, opts)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	return ds, nil
}
