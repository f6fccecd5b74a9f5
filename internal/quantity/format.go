package quantity

import (
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// decimalDigits bounds the fractional digits of a decimal rendering.
const decimalDigits = 2

// Denominators a cook would recognise. Anything else renders as a decimal.
var fractionDenominators = map[int64]bool{
	2: true, 3: true, 4: true, 5: true, 6: true, 8: true, 10: true, 12: true, 16: true,
}

// Render formats v in the shape f. Fractions and mixed numbers stay
// fractional when the reduced denominator is a familiar one and fall back to
// a decimal otherwise.
func Render(v *big.Rat, f Format) string {
	if f != Decimal {
		if s, ok := renderFraction(v); ok {
			return s
		}
	}
	return renderDecimal(v)
}

func renderFraction(v *big.Rat) (string, bool) {
	if v.IsInt() {
		return v.Num().String(), true
	}
	den := v.Denom()
	if !den.IsInt64() || !fractionDenominators[den.Int64()] {
		return "", false
	}
	whole, rem := new(big.Int).QuoRem(v.Num(), den, new(big.Int))
	if whole.Sign() == 0 {
		return fmt.Sprintf("%s/%s", rem, den), true
	}
	return fmt.Sprintf("%s %s/%s", whole, rem.Abs(rem), den), true
}

func renderDecimal(v *big.Rat) string {
	if v.IsInt() {
		return v.Num().String()
	}
	s := v.FloatString(decimalDigits)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// Display renders the match scaled by s, unit included. At scale 1 the
// literal is reproduced exactly as written.
func (m Match) Display(s *big.Rat) string {
	num := m.Raw
	if s != nil && s.Cmp(big.NewRat(1, 1)) != 0 {
		num = Render(new(big.Rat).Mul(m.Value, s), m.Format)
	}
	if m.Unit == "" {
		return num
	}
	return num + m.UnitSep + m.Unit
}

// Normalize prepares text for Matches: a vulgar fraction glyph directly
// after a digit is separated by a space, the text is decomposed (NFKD) and
// the fraction slash U+2044 becomes an ordinary slash.
func Normalize(s string) string {
	s = separateGlyphs(s)
	s = norm.NFKD.String(s)
	return strings.ReplaceAll(s, "\u2044", "/")
}

func separateGlyphs(s string) string {
	if !strings.ContainsFunc(s, isVulgarFraction) {
		return s
	}
	var b strings.Builder
	var prev rune
	for _, r := range s {
		if isVulgarFraction(r) && prev >= '0' && prev <= '9' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// isVulgarFraction reports whether r is a precomposed fraction such as ½.
func isVulgarFraction(r rune) bool {
	return (r >= '¼' && r <= '¾') || (r >= '⅐' && r <= '⅞')
}
