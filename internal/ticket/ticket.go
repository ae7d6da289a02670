// Package ticket issues human-readable ticket identifiers of the form
// PREFIX-YYYY-NNNNN, e.g. TZ-2026-48213.
//
// The five-digit suffix is random, so identifiers can collide. Callers must
// persist them under a unique constraint and ask for another one on conflict.
package ticket

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

const (
	DefaultPrefix = "TZ"

	minSuffix = 10000
	maxSuffix = 99999
)

// Pattern matches identifiers produced with DefaultPrefix.
var Pattern = PatternFor(DefaultPrefix)

// PatternFor matches identifiers produced with prefix.
func PatternFor(prefix string) *regexp.Regexp {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-\d{4}-\d{5}$`)
}

type Generator struct {
	prefix string
	now    func() time.Time
	intN   func(n int) int
}

func NewGenerator(prefix string) *Generator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Generator{
		prefix: prefix,
		now:    time.Now,
		intN:   rand.IntN,
	}
}

// WithSource replaces the clock and the random source, for tests.
func (g *Generator) WithSource(now func() time.Time, intN func(n int) int) *Generator {
	return &Generator{prefix: g.prefix, now: now, intN: intN}
}

// Next returns a fresh identifier. It is safe for concurrent use.
func (g *Generator) Next() string {
	suffix := minSuffix + g.intN(maxSuffix-minSuffix+1)
	return fmt.Sprintf("%s-%04d-%05d", g.prefix, g.now().Year(), suffix)
}
