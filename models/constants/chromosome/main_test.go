package chromosome

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"1":     "1",
		"chr1":  "1",
		"CHR01": "1",
		"1.0":   "1",
		"x":     "X",
		"chrY":  "Y",
		"23":    "X",
		"24":    "Y",
		"M":     "MT",
		"chrMT": "MT",
		" 7 ":   "7",
	}
	for in, expected := range cases {
		assert.Equal(t, expected, Normalize(in), in)
	}
}

func TestIsValidHumanChromosome(t *testing.T) {
	for _, c := range ValidListOfHumanChromosomes() {
		assert.True(t, IsValidHumanChromosome(c), c)
	}
	assert.True(t, IsValidHumanChromosome("chr22"))
	assert.False(t, IsValidHumanChromosome("0"))
	assert.False(t, IsValidHumanChromosome("GL000192.1"))
	assert.False(t, IsValidHumanChromosome(""))
}

func TestLessOrdersNumericallyThenSexChromosomes(t *testing.T) {
	chroms := []string{"X", "10", "2", "MT", "1", "Y", "chr3", "GL000192.1"}
	sort.SliceStable(chroms, func(i, j int) bool { return Less(chroms[i], chroms[j]) })

	assert.Equal(t, []string{"1", "2", "chr3", "10", "X", "Y", "MT", "GL000192.1"}, chroms)
}
