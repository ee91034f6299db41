package jobparse

import (
	"regexp"
	"strconv"
	"strings"

	"jobmate/match-service/internal/model"
)

// amountPattern is either a number with thousands separators (120,000 |
// 45 000 | 90.000) or a plain number with an optional decimal part (45.5).
// A separator must be followed by exactly three digits, so the match never
// runs into an unrelated number further along the text.
const amountPattern = `(\d{1,3}(?:[ ,.]\d{3})+|\d+(?:\.\d+)?)`

const currencyCodes = `(?:usd|eur|gbp|chf|cad)`

var (
	// $120,000 - $150,000 | $120k-150k | €55k to €45k | 120,000 - 150,000 USD
	reRange = regexp.MustCompile(`(?i)([$€£])?\s?` + amountPattern + `(?:\s?(k))?\s*(?:-|–|to)\s*([$€£])?\s?` +
		amountPattern + `(?:\s?(k)\b)?(?:\s*(` + currencyCodes + `)\b)?`)
	// $120,000 | €55k | £45.5k | $ 90000
	reSymbolAmount = regexp.MustCompile(`(?i)[$€£]\s?` + amountPattern + `(?:\s?(k)\b)?`)
	// 120,000 USD | 55k EUR
	reCodeAmount = regexp.MustCompile(`(?i)\b` + amountPattern + `(?:\s?(k))?\s*` + currencyCodes + `\b`)

	reThousands = regexp.MustCompile(`^\d{1,3}([ ,.]\d{3})+$`)
)

// minYearlyAmount filters out hourly or daily rates that share the
// currency notation.
const minYearlyAmount = 1000

// ExtractSalary finds a yearly salary in free text. An explicit range
// ("$120k-150k", "120,000 - 150,000 USD") gives both bounds; otherwise the
// first currency amount sets the minimum only. Text without a currency
// amount returns nil.
func ExtractSalary(text string) *model.SalaryRange {
	if r := findRange(text); r != nil {
		return r
	}
	for _, re := range []*regexp.Regexp{reSymbolAmount, reCodeAmount} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if v, ok := parseAmount(m[1], m[2] != ""); ok {
				return &model.SalaryRange{Min: &v}
			}
		}
	}
	return nil
}

// findRange returns the first range that carries a currency on either side.
// A "k" written only after the upper amount applies to both ("$120-150k").
func findRange(text string) *model.SalaryRange {
	for _, m := range reRange.FindAllStringSubmatch(text, -1) {
		symLo, rawLo, kLo, symHi, rawHi, kHi, code := m[1], m[2], m[3], m[4], m[5], m[6], m[7]
		if symLo == "" && symHi == "" && code == "" {
			continue
		}
		hi, ok := parseAmount(rawHi, kHi != "")
		if !ok {
			continue
		}
		loThousands := kLo != ""
		if !loThousands && kHi != "" {
			if n, err := parseNumber(rawLo); err == nil && n < minYearlyAmount {
				loThousands = true
			}
		}
		lo, ok := parseAmount(rawLo, loThousands)
		if !ok {
			continue
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return model.NewSalaryRange(lo, hi)
	}
	return nil
}

func parseAmount(raw string, thousands bool) (float64, bool) {
	v, err := parseNumber(raw)
	if err != nil {
		return 0, false
	}
	if thousands {
		v *= 1000
	}
	if v < minYearlyAmount {
		return 0, false
	}
	return v, true
}

func parseNumber(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if reThousands.MatchString(raw) {
		raw = strings.NewReplacer(",", "", ".", "", " ", "").Replace(raw)
	}
	return strconv.ParseFloat(raw, 64)
}
