// Package names generates readable "adjective-noun" labels such as
// "probable-sieve" or "twin-residue". The coordinator uses them to label
// sessions whose client did not report a host name.
package names

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"abundant", "additive", "algebraic", "aliquot", "amicable", "balanced",
	"binary", "carmichael", "chebyshev", "composite", "congruent", "coprime",
	"cubic", "cyclic", "deficient", "diophantine", "discrete", "euclidean",
	"eulerian", "fermat", "finite", "gaussian", "generalized", "harmonic",
	"integral", "lucky", "mersenne", "modular", "multiplicative", "natural",
	"odd", "palindromic", "perfect", "pseudo", "probable", "proth",
	"quadratic", "rational", "reduced", "regular", "residual", "safe",
	"sexy", "sophie", "square", "strong", "triangular", "twin", "unitary",
	"wieferich", "wilson",
}

var nouns = []string{
	"base", "carry", "coset", "cycle", "digit", "divisor", "exponent",
	"factor", "field", "form", "gap", "generator", "group", "ideal", "index",
	"kernel", "lattice", "lemma", "limb", "modulus", "norm", "order",
	"period", "power", "prime", "quotient", "radix", "remainder", "residue",
	"ring", "root", "sieve", "square", "sum", "tower", "transform", "unit",
	"witness",
}

// Generate returns a random "adjective-noun" name.
func Generate() string {
	adjective := adjectives[randomIndex(len(adjectives))]
	noun := nouns[randomIndex(len(nouns))]
	return fmt.Sprintf("%s-%s", adjective, noun)
}

// randomIndex picks in [0, max) with crypto/rand, falling back to 0.
func randomIndex(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}
