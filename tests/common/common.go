package common

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"hfgwas/api/models"
	"hfgwas/api/models/indexes"
	pe "hfgwas/api/models/pipeline-errors"

	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"
)

// GWAS table with three genome-wide significant variants on chromosome 1,
// two of which fall within one window, and one significant variant on 2.
const GwasFixture = `variant_id,chromosome,base_pair_location,p_value
rs1,1,1000,1e-9
rs2,1,300000,1e-8
rs3,1,2000000,1e-10
rs4,1,2100000,0.01
rs5,2,5000,3e-8
`

// Expression table keyed on the genes FakeLookup places under the loci above.
const ExpressionFixture = `geneid,padjpef,padjref,l2fcpef,l2fcref
ENSG00000000003,0.01,0.2,1.2,0.4
ensg00000000001,0.001,0.03,-0.5,0.8
ENSG00000000005,NA,0.0,1,-2
ENSG00000099999,0.0001,0.0001,3,3
`

// InitConfig reads test.config.yml next to this file.
func InitConfig() *models.Config {
	var cfg models.Config

	// get this file's path
	_, filename, _, _ := runtime.Caller(0)
	folderpath := path.Dir(filename)

	f, err := os.Open(fmt.Sprintf("%s/test.config.yml", folderpath))
	if err != nil {
		processError(err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err = decoder.Decode(&cfg); err != nil {
		processError(err)
	}

	return &cfg
}

func processError(err error) {
	fmt.Println(err)
	os.Exit(2)
}

func WriteFixture(t *testing.T, name string, content string) string {
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

// FakeLookup resolves "<chromosome>:<position>" keys to genes.
// A "*" entry in Fail makes every lookup fail.
type FakeLookup struct {
	Genes map[string]indexes.GeneHit
	Fail  map[string]bool
	Calls int32
}

func NewFakeLookup() *FakeLookup {
	return &FakeLookup{
		Genes: map[string]indexes.GeneHit{
			"1:1000":    {GeneId: "ENSG00000000001", GeneName: "GENE1"},
			"1:2000000": {GeneId: "ENSG00000000003", GeneName: "GENE3"},
			"2:5000":    {GeneId: "ENSG00000000005"},
		},
		Fail: map[string]bool{},
	}
}

func (f *FakeLookup) LocationToGene(ctx context.Context, chrom string, position int) (indexes.GeneHit, bool, error) {
	atomic.AddInt32(&f.Calls, 1)

	key := fmt.Sprintf("%s:%d", chrom, position)
	if f.Fail[key] || f.Fail["*"] {
		return indexes.GeneHit{}, false, &pe.ExternalServiceError{Service: "ensembl", StatusCode: 503}
	}
	hit, ok := f.Genes[key]
	return hit, ok, nil
}

// FakeLocator resolves gene symbols or stable ids, case-insensitively.
type FakeLocator struct {
	Locations map[string]indexes.GeneLocation
	Err       error
}

func NewFakeLocator() *FakeLocator {
	return &FakeLocator{
		Locations: map[string]indexes.GeneLocation{
			"GENE1":           {GeneId: "ENSG00000000001", Chromosome: "1", Start: 1500},
			"ENSG00000000001": {GeneId: "ENSG00000000001", Chromosome: "1", Start: 1500},
			"GENE3":           {GeneId: "ENSG00000000003", Chromosome: "1", Start: 2050000},
		},
	}
}

func (f *FakeLocator) LocateGene(ctx context.Context, gene string) (indexes.GeneLocation, error) {
	if f.Err != nil {
		return indexes.GeneLocation{}, f.Err
	}
	location, ok := f.Locations[strings.ToUpper(gene)]
	if !ok {
		return indexes.GeneLocation{}, &pe.GeneNotFoundError{Gene: gene}
	}
	location.Query = gene
	return location, nil
}

// MemoryStore is an in-memory variant store.
type MemoryStore struct {
	Variants []indexes.Variant
	SaveErr  error
	Saves    int
}

func (m *MemoryStore) Save(ctx context.Context, variants []indexes.Variant) error {
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Variants = append([]indexes.Variant{}, variants...)
	return nil
}

func (m *MemoryStore) Window(ctx context.Context, chrom string, position int, windowSize int, threshold float64) ([]indexes.Variant, error) {
	hits := []indexes.Variant{}
	for _, v := range m.Variants {
		if v.Chromosome == chrom && v.PValue <= threshold &&
			v.BasePairLocation >= position-windowSize && v.BasePairLocation <= position+windowSize {
			hits = append(hits, v)
		}
	}
	return hits, nil
}

func (m *MemoryStore) Overview(ctx context.Context) ([]indexes.ChromosomeCount, error) {
	counts := []indexes.ChromosomeCount{}
	index := map[string]int{}
	for _, v := range m.Variants {
		if i, ok := index[v.Chromosome]; ok {
			counts[i].Count++
			continue
		}
		index[v.Chromosome] = len(counts)
		counts = append(counts, indexes.ChromosomeCount{Chromosome: v.Chromosome, Count: 1})
	}
	return counts, nil
}
