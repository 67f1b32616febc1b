package genemapper

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbocation/popgen"
)

const export = "Sample Name\tPanel\tMarker\tAllele 1\tAllele 2\tPopulation\n" +
	"s1\tP1\tD2\t120\t124\tnorth\n" +
	"s1\tP1\tD7\t88\t\tnorth\n" +
	"s2\tP1\tD2\t124\t124\tnorth\n" +
	"s2\tP1\tD7\t\t\tnorth\n" +
	"s3\tP1\tD2\t128\t120\tsouth\n" +
	"s3\tP1\tD7\t90\t88\tsouth\n"

func allelesAt(t *testing.T, ds *popgen.DataSet, gp, ip, locus int) []string {
	t.Helper()
	m, err := ds.IndividualMonolocusGenotypeInGroup(gp, ip, locus)
	require.NoError(t, err)
	info, err := ds.LocusInfoAtPosition(locus)
	require.NoError(t, err)

	var out []string
	for _, k := range m.AlleleIndex() {
		a, err := info.AlleleInfoByKey(k)
		require.NoError(t, err)
		out = append(out, a.ID)
	}
	return out
}

func TestRead(t *testing.T) {
	ds, err := Read(strings.NewReader(export), Options{})
	require.NoError(t, err)

	n, err := ds.NumberOfLoci()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p, err := ds.PloidyByLocusName("D7")
	require.NoError(t, err)
	assert.Equal(t, popgen.Diploid, p)

	assert.Equal(t, []int{0, 1}, ds.GroupIDs())
	name, err := ds.GroupName(1)
	require.NoError(t, err)
	assert.Equal(t, "south", name)

	g, err := ds.GroupByID(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, g.IndividualIDs())

	assert.Equal(t, []string{"120", "124"}, allelesAt(t, ds, 0, 0, 0))
	// Homozygote exported with a single allele.
	assert.Equal(t, []string{"88", "88"}, allelesAt(t, ds, 0, 0, 1))
	assert.Empty(t, allelesAt(t, ds, 0, 1, 1))
	assert.Equal(t, []string{"90", "88"}, allelesAt(t, ds, 1, 0, 1))

	info, err := ds.LocusInfoByName("D2")
	require.NoError(t, err)
	assert.Equal(t, []string{"120", "124", "128"}, info.AlleleIDs())
	a, err := info.AlleleInfoByID("128")
	require.NoError(t, err)
	assert.Equal(t, 128.0, a.Size)

	c, err := ds.MultiGContainer()
	require.NoError(t, err)
	assert.Equal(t, 3, c.Size())
	assert.Equal(t, "north", c.GroupName(0))
}

func TestReadIndependentAlleles(t *testing.T) {
	ds, err := Read(strings.NewReader(export), Options{IndependentAlleles: true})
	require.NoError(t, err)

	n, err := ds.NumberOfLoci()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	for i, name := range []string{"D2_1", "D2_2", "D7_1", "D7_2"} {
		info, err := ds.LocusInfoAtPosition(i)
		require.NoError(t, err)
		assert.Equal(t, name, info.Name())
		assert.Equal(t, popgen.Haploid, info.Ploidy())
	}

	assert.Equal(t, []string{"128"}, allelesAt(t, ds, 1, 0, 0))
	assert.Equal(t, []string{"120"}, allelesAt(t, ds, 1, 0, 1))
}

func TestReadWithoutPopulation(t *testing.T) {
	in := "Sample Name\tMarker\tAllele 1\n" +
		"a\tmt1\tA\n" +
		"b\tmt1\tB\n"
	ds, err := Read(strings.NewReader(in), Options{})
	require.NoError(t, err)

	assert.Equal(t, []int{0}, ds.GroupIDs())
	name, err := ds.GroupName(0)
	require.NoError(t, err)
	assert.Equal(t, "0", name)

	p, err := ds.PloidyByLocusPosition(0)
	require.NoError(t, err)
	assert.Equal(t, popgen.Haploid, p)
}

func TestReadErrors(t *testing.T) {
	cases := map[string]string{
		"no header":      "",
		"no sample":      "Marker\tAllele 1\nm\t1\n",
		"no allele":      "Sample Name\tMarker\na\tm\n",
		"no rows":        "Sample Name\tMarker\tAllele 1\n",
		"missing marker": "Sample Name\tMarker\tAllele 1\na\t\t1\n",
	}
	for name, in := range cases {
		_, err := Read(strings.NewReader(in), Options{})
		assert.Error(t, err, name)
	}

	twoPops := "Sample Name\tMarker\tAllele 1\tPopulation\n" +
		"a\tm1\t1\tx\n" +
		"a\tm2\t1\ty\n"
	_, err := Read(strings.NewReader(twoPops), Options{})
	assert.ErrorIs(t, err, popgen.ErrDuplicateID)

	twice := "Sample Name\tMarker\tAllele 1\n" +
		"a\tm1\t1\n" +
		"a\tm1\t2\n"
	_, err = Read(strings.NewReader(twice), Options{})
	assert.ErrorIs(t, err, popgen.ErrDuplicateID)
}

func TestCompressionFromPath(t *testing.T) {
	assert.Equal(t, CompressionGzip, CompressionFromPath("x.txt.gz"))
	assert.Equal(t, CompressionZStandard, CompressionFromPath("x.txt.zst"))
	assert.Equal(t, CompressionDisabled, CompressionFromPath("x.txt"))
	assert.Equal(t, "zstd", CompressionZStandard.String())
}

func TestReadPathCompressed(t *testing.T) {
	dir := t.TempDir()

	gzPath := filepath.Join(dir, "export.txt.gz")
	f, err := os.Create(gzPath)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(export))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	zstPath := filepath.Join(dir, "export.txt.zst")
	f, err = os.Create(zstPath)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write([]byte(export))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	plainPath := filepath.Join(dir, "export.txt")
	require.NoError(t, os.WriteFile(plainPath, []byte(export), 0o644))

	for _, path := range []string{gzPath, zstPath, plainPath} {
		ds, err := ReadPath(context.Background(), path, Options{})
		require.NoError(t, err, path)
		assert.Equal(t, 2, ds.NumberOfGroups(), path)
	}

	_, err = ReadPath(context.Background(), filepath.Join(dir, "absent.txt"), Options{})
	assert.Error(t, err)
}

func TestSplitGCSPath(t *testing.T) {
	bucket, object, err := splitGCSPath("gs://my-bucket/runs/export.txt.gz")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "runs/export.txt.gz", object)

	_, _, err = splitGCSPath("gs://only-bucket")
	assert.Error(t, err)
}
