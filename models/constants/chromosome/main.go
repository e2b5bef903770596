package chromosome

import (
	"fmt"
	"strconv"
	"strings"
)

const unrankedChromosome = 1000

// MaxPosition is the length of chromosome 1 in GRCh38, the longest human chromosome
const MaxPosition = 248_956_422

func ValidListOfHumanChromosomes() []string {
	var humChroms []string
	for i := 1; i < 23; i++ {
		humChroms = append(humChroms, fmt.Sprint(i))
	}
	humChroms = append(humChroms, "X")
	humChroms = append(humChroms, "Y")
	humChroms = append(humChroms, "MT")
	return humChroms
}

// Normalize strips a leading 'chr', upper-cases letters and drops leading
// zeros, so that "chr01", "1" and "1.0" all compare equal. Plink numbering
// (23 = X, 24 = Y, 26 = MT) is folded into letters.
func Normalize(text string) string {
	clean := strings.TrimSpace(text)
	if len(clean) >= 3 && strings.EqualFold(clean[:3], "chr") {
		clean = clean[3:]
	}
	clean = strings.ToUpper(clean)

	// some exporters write integer columns as floats
	clean = strings.TrimSuffix(clean, ".0")

	if n, err := strconv.Atoi(clean); err == nil {
		switch n {
		case 23:
			return "X"
		case 24:
			return "Y"
		case 26:
			return "MT"
		}
		return strconv.Itoa(n)
	}

	if clean == "M" {
		return "MT"
	}
	return clean
}

func IsValidHumanChromosome(text string) bool {
	normalized := Normalize(text)

	// Check if number can be represented as an int as is non-zero
	chromNumber, _ := strconv.Atoi(normalized)
	if chromNumber > 0 {
		// It can..
		// Check if it in range 1-22
		return chromNumber < 23
	}

	// No it can't..
	// Check if it is an X, Y or MT
	switch normalized {
	case "X", "Y", "MT":
		return true
	}

	return false
}

// Rank orders chromosomes numerically, then X, Y and MT, then anything else.
func Rank(text string) int {
	normalized := Normalize(text)
	if n, err := strconv.Atoi(normalized); err == nil && n > 0 {
		return n
	}

	switch normalized {
	case "X":
		return 23
	case "Y":
		return 24
	case "MT":
		return 25
	}
	return unrankedChromosome
}

// Less reports whether chromosome a sorts before chromosome b.
func Less(a, b string) bool {
	ra, rb := Rank(a), Rank(b)
	if ra != rb {
		return ra < rb
	}
	if ra == unrankedChromosome {
		return Normalize(a) < Normalize(b)
	}
	return false
}
