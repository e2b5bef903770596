package loaderService

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pe "hfgwas/api/models/pipeline-errors"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gwasCsv = `variant_id,chromosome,base_pair_location,p_value,beta
rs1,1,1000,1e-9,0.1
rs2,chr1,600000,1e-7,0.2
rs3,23,1200000.0,0.5,-0.3
`

const gwasTsv = "Chromosome\tBase_Pair_Location\tP_Value\tVariant_Id\n" +
	"2\t50\t5e-8\trs4\n" +
	"X\t60\t1\t\n"

func writeFile(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadVariants(t *testing.T) {
	t.Run("comma separated", func(t *testing.T) {
		variants, err := LoadVariants(writeFile(t, "gwas.csv", gwasCsv))
		require.NoError(t, err)
		require.Len(t, variants, 3)

		assert.Equal(t, "rs1", variants[0].VariantId)
		assert.Equal(t, "1", variants[0].Chromosome)
		assert.Equal(t, 1000, variants[0].BasePairLocation)
		assert.Equal(t, 1e-9, variants[0].PValue)
		assert.Equal(t, 1, variants[0].Row)

		assert.Equal(t, "1", variants[1].Chromosome)
		assert.Equal(t, "X", variants[2].Chromosome)
		assert.Equal(t, 1200000, variants[2].BasePairLocation)
		assert.Equal(t, 3, variants[2].Row)
	})

	t.Run("tab separated with mixed-case headers", func(t *testing.T) {
		variants, err := LoadVariants(writeFile(t, "gwas.tsv", gwasTsv))
		require.NoError(t, err)
		require.Len(t, variants, 2)

		assert.Equal(t, "2", variants[0].Chromosome)
		assert.Equal(t, 5e-8, variants[0].PValue)
		assert.Equal(t, "", variants[1].VariantId)
	})

	t.Run("gzip compressed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gwas.csv.gz")
		f, err := os.Create(path)
		require.NoError(t, err)
		gw := pgzip.NewWriter(f)
		_, err = gw.Write([]byte(gwasCsv))
		require.NoError(t, err)
		require.NoError(t, gw.Close())
		require.NoError(t, f.Close())

		variants, err := LoadVariants(path)
		require.NoError(t, err)
		assert.Len(t, variants, 3)
	})

	t.Run("header only", func(t *testing.T) {
		variants, err := LoadVariants(writeFile(t, "empty.csv", "chromosome,base_pair_location,p_value,variant_id\n"))
		require.NoError(t, err)
		assert.NotNil(t, variants)
		assert.Empty(t, variants)
	})

	t.Run("header only loads the same way every time", func(t *testing.T) {
		path := writeFile(t, "header.csv", "variant_id,chromosome,base_pair_location,p_value,beta\n")
		for i := 0; i < 100; i++ {
			variants, err := LoadVariants(path)
			require.NoError(t, err, "attempt %d", i)
			require.Empty(t, variants, "attempt %d", i)
		}
	})

	t.Run("missing p_value column", func(t *testing.T) {
		_, err := ReadVariants(strings.NewReader("chromosome,base_pair_location,variant_id\n1,10,rs1\n"), "no-p.csv")

		var schemaErr *pe.SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "p_value", schemaErr.Column)
		assert.Contains(t, err.Error(), "missing required column")
	})

	t.Run("malformed values name the row", func(t *testing.T) {
		cases := map[string]string{
			"bad p":        "chromosome,base_pair_location,p_value,variant_id\n1,10,1e-9,rs1\n1,20,abc,rs2\n",
			"p above one":  "chromosome,base_pair_location,p_value,variant_id\n1,10,1e-9,rs1\n1,20,1.5,rs2\n",
			"bad position": "chromosome,base_pair_location,p_value,variant_id\n1,10,1e-9,rs1\n1,20.5,0.1,rs2\n",
			"missing p":    "chromosome,base_pair_location,p_value,variant_id\n1,10,1e-9,rs1\n1,20,NA,rs2\n",
		}
		for name, content := range cases {
			_, err := ReadVariants(strings.NewReader(content), name)

			var parseErr *pe.ParseError
			require.True(t, errors.As(err, &parseErr), name)
			assert.Equal(t, 2, parseErr.Row, name)
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := LoadVariants(filepath.Join(t.TempDir(), "does-not-exist.csv"))

		var parseErr *pe.ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := ReadVariants(strings.NewReader(""), "blank.csv")

		var parseErr *pe.ParseError
		assert.True(t, errors.As(err, &parseErr))
	})
}

func TestLoadExpression(t *testing.T) {
	content := "geneid,padjpef,padjref,l2fcpef,l2fcref\n" +
		"ensg00000000001,0.01,0.2,1.5,-0.5\n" +
		"ENSG00000000002,NA,0,-1,2\n" +
		"ENSG00000000003,not-a-number,,0,\n" +
		",0.01,0.01,1,1\n"

	records, err := LoadExpression(writeFile(t, "hopkins.csv", content))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "ENSG00000000001", records[0].GeneId)
	assert.Equal(t, 0.01, records[0].PadjPef.Float64)
	assert.True(t, records[0].PadjPef.Valid)

	assert.False(t, records[1].PadjPef.Valid)
	assert.True(t, records[1].PadjRef.Valid)
	assert.Equal(t, 0.0, records[1].PadjRef.Float64)

	assert.False(t, records[2].PadjPef.Valid)
	assert.False(t, records[2].PadjRef.Valid)
	assert.True(t, records[2].L2fcPef.Valid)
	assert.False(t, records[2].L2fcRef.Valid)

	t.Run("missing column", func(t *testing.T) {
		_, err := ReadExpression(strings.NewReader("geneid,padjpef,l2fcpef,l2fcref\nA,1,1,1\n"), "x.csv")

		var schemaErr *pe.SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "padjref", schemaErr.Column)
	})
}

func TestDetermineDelimiter(t *testing.T) {
	assert.Equal(t, ',', DetermineDelimiter([]byte(gwasCsv)))
	assert.Equal(t, '\t', DetermineDelimiter([]byte(gwasTsv)))

	t.Run("single header line", func(t *testing.T) {
		headers := map[string]rune{
			"variant_id,chromosome,base_pair_location,p_value,beta\n": ',',
			"variant_id\tchromosome\tbase_pair_location\tp_value\n":  '\t',
			"variant_id;chromosome;base_pair_location;p_value\n":     ';',
			"variant_id|chromosome|base_pair_location|p_value\n":     '|',
			"p_value\n": ',',
		}
		for header, expected := range headers {
			for i := 0; i < 50; i++ {
				require.Equal(t, expected, DetermineDelimiter([]byte(header)), header)
			}
		}
	})
}
