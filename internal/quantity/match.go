package quantity

import (
	"math/big"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Format records the literal shape a quantity was written in, so a scaled
// value can be rendered back in the same shape.
type Format int

const (
	Decimal  Format = iota // "2", "1.5"
	Fraction               // "1/2"
	Mixed                  // "1 1/2"
)

func (f Format) String() string {
	switch f {
	case Fraction:
		return "fraction"
	case Mixed:
		return "mixed"
	default:
		return "decimal"
	}
}

// Match is a quantity expression located in a run of text.
type Match struct {
	Value   *big.Rat
	Format  Format
	Raw     string // Numeric literal as written, e.g. "1 1/2".
	UnitSep string // Whitespace between the literal and the unit.
	Unit    string // Unit as written; empty when none.
	Index   int    // Byte offset into the scanned text.
	Length  int    // Byte length of the whole match, unit included.
}

// unitNames is the recognized unit vocabulary. Matching is case-insensitive.
var unitNames = []string{
	// volume
	"cups", "cup", "c",
	"tablespoons", "tablespoon", "tbsp", "tbs", "tbl",
	"teaspoons", "teaspoon", "tsp",
	"milliliters", "milliliter", "millilitres", "millilitre", "ml",
	"centiliters", "centilitres", "cl",
	"deciliters", "decilitres", "dl",
	"liters", "liter", "litres", "litre", "l",
	"fluid ounces", "fluid ounce", "fl oz",
	"quarts", "quart", "qt",
	"pints", "pint", "pt",
	"gallons", "gallon", "gal",
	// mass
	"ounces", "ounce", "oz",
	"pounds", "pound", "lbs", "lb",
	"kilograms", "kilogram", "kg",
	"milligrams", "milligram", "mg",
	"grams", "gram", "g",
	// count
	"pinches", "pinch",
	"dashes", "dash",
	"cloves", "clove",
	"cans", "can",
	"pieces", "piece", "pcs", "pc",
	"slices", "slice",
	"sticks", "stick",
	"sprigs", "sprig",
	"bunches", "bunch",
	"handfuls", "handful",
	"packages", "package", "pkg",
	"dozen",
}

// Groups: 1-3 mixed, 4-5 fraction, 6 decimal, 7 unit separator, 8 unit.
var pattern = buildPattern()

func buildPattern() *regexp.Regexp {
	units := append([]string(nil), unitNames...)
	// Longest first so "tbsp" is tried before "t..." prefixes and "fl oz" before "fl".
	sort.SliceStable(units, func(i, j int) bool { return len(units[i]) > len(units[j]) })
	for i, u := range units {
		units[i] = strings.ReplaceAll(regexp.QuoteMeta(u), " ", `[ \t]+`)
	}

	number := `(\d+)[ \t]+(\d+)/(\d+)|(\d+)/(\d+)|(\d+(?:\.\d+)?)`
	unit := `([ \t]*)(?i:(` + strings.Join(units, "|") + `))\b`
	return regexp.MustCompile(`\b(?:` + number + `)(?:` + unit + `|\b)`)
}

// Matches returns the quantity expressions in text, ordered by Index and
// never overlapping. It never fails: text with no quantities yields nil.
func Matches(text string) []Match {
	var out []Match
	for _, loc := range pattern.FindAllStringSubmatchIndex(text, -1) {
		if glued(text, loc[0], loc[1]) {
			continue
		}
		m, ok := build(text, loc)
		if !ok {
			continue
		}
		out = append(out, m)
	}
	return out
}

func build(text string, loc []int) (Match, bool) {
	group := func(n int) string {
		if loc[2*n] < 0 {
			return ""
		}
		return text[loc[2*n]:loc[2*n+1]]
	}

	m := Match{
		Index:  loc[0],
		Length: loc[1] - loc[0],
		Unit:   group(8),
	}
	if m.Unit != "" {
		m.UnitSep = group(7)
	}

	var ok bool
	switch {
	case loc[2] >= 0:
		m.Format = Mixed
		m.Raw = text[loc[2]:loc[7]]
		var whole, frac *big.Rat
		whole, ok = new(big.Rat).SetString(group(1))
		if !ok {
			return Match{}, false
		}
		frac, ok = new(big.Rat).SetString(group(2) + "/" + group(3))
		if ok {
			m.Value = whole.Add(whole, frac)
		}
	case loc[8] >= 0:
		m.Format = Fraction
		m.Raw = text[loc[8]:loc[11]]
		m.Value, ok = new(big.Rat).SetString(m.Raw)
	default:
		m.Format = Decimal
		m.Raw = group(6)
		m.Value, ok = new(big.Rat).SetString(m.Raw)
	}
	if !ok {
		// "1/0" and friends.
		return Match{}, false
	}
	return m, true
}

// glued reports whether the candidate is part of a time, date, version,
// temperature, percentage or a longer number such as "1.5x" or "1,000"
// rather than a standalone quantity.
func glued(text string, start, end int) bool {
	if start > 0 {
		before := text[:start]
		r, size := utf8.DecodeLastRuneInString(before)
		switch r {
		case ':', '/', '.':
			return true
		case ',':
			if p, _ := utf8.DecodeLastRuneInString(before[:len(before)-size]); isDigit(p) {
				return true
			}
		}
	}
	if end < len(text) {
		after := text[end:]
		r, size := utf8.DecodeRuneInString(after)
		switch r {
		case ':', '/', '°', '%':
			return true
		case '.', ',':
			if n, _ := utf8.DecodeRuneInString(after[size:]); isDigit(n) {
				return true
			}
		}
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
