package loaderService

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"hfgwas/api/models/constants/chromosome"
	pe "hfgwas/api/models/pipeline-errors"
	"hfgwas/api/models/indexes"

	"github.com/csimplestring/go-csv/detector"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
	"gopkg.in/guregu/null.v3"
)

const (
	VariantsDataset   = "variants"
	ExpressionDataset = "expression"
)

var missingValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "."}

// table is a string-typed dataframe plus a case-insensitive column index
type table struct {
	name    string
	df      dataframe.DataFrame
	columns map[string]string
	empty   bool
}

// Open opens a tabular file, transparently decompressing '.gz' files.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &pe.ParseError{Path: path, Err: err}
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}

	gr, err := pgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, &pe.ParseError{Path: path, Err: errors.Wrap(err, "gzip")}
	}
	return &gzipFile{Reader: gr, file: f}, nil
}

type gzipFile struct {
	*pgzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	g.Reader.Close()
	return g.file.Close()
}

// knownDelimiters in order of preference
var knownDelimiters = []rune{'\t', ',', ';', '|'}

// DetermineDelimiter returns the most likely delimiter of a CSV-like sample.
// The detector reports its candidates in no particular order, so only known
// delimiters are accepted and ties resolve by preference.
func DetermineDelimiter(sample []byte) rune {
	d := detector.New()
	candidates := map[rune]bool{}
	for _, delimiter := range d.DetectDelimiter(bytes.NewReader(sample), '"') {
		if len(delimiter) == 1 {
			candidates[rune(delimiter[0])] = true
		}
	}

	for _, delimiter := range knownDelimiters {
		if candidates[delimiter] {
			return delimiter
		}
	}

	// a single-line sample gives the detector nothing to compare against
	header := firstLine(sample)
	best, bestCount := ',', 0
	for _, delimiter := range knownDelimiters {
		if count := bytes.Count(header, []byte(string(delimiter))); count > bestCount {
			best, bestCount = delimiter, count
		}
	}
	return best
}

func firstLine(b []byte) []byte {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i]
	}
	return b
}

func readTable(r io.Reader, name string, dataset string, required []string) (*table, error) {
	content, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, &pe.ParseError{Path: name, Err: err}
	}
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, &pe.ParseError{Path: name, Err: errors.New("file is empty")}
	}

	sample := content
	if len(sample) > 64*1024 {
		sample = sample[:64*1024]
	}
	delimiter := DetermineDelimiter(sample)

	// validate the header before handing the body over to gota
	hr := csv.NewReader(bytes.NewReader(content))
	hr.Comma = delimiter
	hr.FieldsPerRecord = -1
	header, err := hr.Read()
	if err != nil {
		return nil, &pe.ParseError{Path: name, Err: errors.Wrap(err, "header")}
	}

	t := &table{name: name, columns: map[string]string{}}
	for _, h := range header {
		t.columns[strings.ToLower(strings.TrimSpace(h))] = h
	}
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, &pe.SchemaError{Dataset: dataset, Column: col}
		}
	}

	if _, err := hr.Read(); err == io.EOF {
		t.empty = true
		return t, nil
	}

	t.df = dataframe.ReadCSV(bytes.NewReader(content),
		dataframe.WithDelimiter(delimiter),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingValues))
	if t.df.Err != nil {
		return nil, &pe.ParseError{Path: name, Err: t.df.Err}
	}

	return t, nil
}

func (t *table) nrow() int {
	if t.empty {
		return 0
	}
	return t.df.Nrow()
}

func (t *table) col(name string) series.Series {
	return t.df.Col(t.columns[name])
}

// LoadVariants reads a GWAS summary-statistics table from disk.
func LoadVariants(path string) ([]indexes.Variant, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadVariants(f, path)
}

// ReadVariants parses a GWAS table with at least the columns chromosome,
// base_pair_location, p_value and variant_id. Malformed values are
// rejected with a ParseError naming the offending row.
func ReadVariants(r io.Reader, name string) ([]indexes.Variant, error) {
	t, err := readTable(r, name, VariantsDataset, indexes.VariantColumns)
	if err != nil {
		return nil, err
	}

	variants := make([]indexes.Variant, 0, t.nrow())
	if t.empty {
		return variants, nil
	}

	var (
		chroms    = t.col("chromosome")
		positions = t.col("base_pair_location")
		pValues   = t.col("p_value")
		ids       = t.col("variant_id")
	)

	for i := 0; i < t.nrow(); i++ {
		row := i + 1

		if chroms.Elem(i).IsNA() {
			return nil, &pe.ParseError{Path: name, Row: row, Err: errors.New("missing chromosome")}
		}
		if positions.Elem(i).IsNA() {
			return nil, &pe.ParseError{Path: name, Row: row, Err: errors.New("missing base_pair_location")}
		}
		if pValues.Elem(i).IsNA() {
			return nil, &pe.ParseError{Path: name, Row: row, Err: errors.New("missing p_value")}
		}

		pos, err := parsePosition(positions.Elem(i).String())
		if err != nil {
			return nil, &pe.ParseError{Path: name, Row: row, Err: err}
		}
		p, err := parsePValue(pValues.Elem(i).String())
		if err != nil {
			return nil, &pe.ParseError{Path: name, Row: row, Err: err}
		}

		variantId := ""
		if !ids.Elem(i).IsNA() {
			variantId = strings.TrimSpace(ids.Elem(i).String())
		}

		variants = append(variants, indexes.Variant{
			Chromosome:       chromosome.Normalize(chroms.Elem(i).String()),
			BasePairLocation: pos,
			PValue:           p,
			VariantId:        variantId,
			Row:              row,
		})
	}

	return variants, nil
}

func parsePosition(text string) (int, error) {
	text = strings.TrimSpace(text)
	if pos, err := strconv.Atoi(text); err == nil {
		if pos < 0 {
			return 0, errors.Errorf("negative base_pair_location %d", pos)
		}
		return pos, nil
	}

	// integer columns exported as floats, e.g. "1000.0"
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || f < 0 {
		return 0, errors.Errorf("invalid base_pair_location '%s'", text)
	}
	return int(f), nil
}

func parsePValue(text string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(p) {
		return 0, errors.Errorf("invalid p_value '%s'", text)
	}
	if p < 0 || p > 1 {
		return 0, errors.Errorf("p_value %g out of range", p)
	}
	return p, nil
}

// LoadExpression reads the HFpEF/HFrEF differential-expression table.
func LoadExpression(path string) ([]indexes.ExpressionRecord, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadExpression(f, path)
}

// ReadExpression parses the expression table. Gene ids are upper-cased;
// numeric columns that do not parse are kept as missing values.
func ReadExpression(r io.Reader, name string) ([]indexes.ExpressionRecord, error) {
	t, err := readTable(r, name, ExpressionDataset, indexes.ExpressionColumns)
	if err != nil {
		return nil, err
	}

	records := make([]indexes.ExpressionRecord, 0, t.nrow())
	if t.empty {
		return records, nil
	}

	var (
		geneIds = t.col("geneid")
		padjPef = t.col("padjpef")
		padjRef = t.col("padjref")
		l2fcPef = t.col("l2fcpef")
		l2fcRef = t.col("l2fcref")
	)

	for i := 0; i < t.nrow(); i++ {
		if geneIds.Elem(i).IsNA() {
			continue
		}
		geneId := strings.ToUpper(strings.TrimSpace(geneIds.Elem(i).String()))
		if geneId == "" {
			continue
		}

		records = append(records, indexes.ExpressionRecord{
			GeneId:  geneId,
			PadjPef: coerceFloat(padjPef.Elem(i)),
			PadjRef: coerceFloat(padjRef.Elem(i)),
			L2fcPef: coerceFloat(l2fcPef.Elem(i)),
			L2fcRef: coerceFloat(l2fcRef.Elem(i)),
		})
	}

	return records, nil
}

func coerceFloat(e series.Element) null.Float {
	if e.IsNA() {
		return null.Float{}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(e.String()), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Float{}
	}
	return null.FloatFrom(f)
}
