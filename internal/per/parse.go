package per

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ParseAmount reads a form value such as "1 234,56 €" or "350". Anything
// that does not parse to a non-negative finite number is 0.
func ParseAmount(s string) float64 {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r), r == '€':
			return -1
		case r == ',':
			return '.'
		}
		return r
	}, s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return clamp(v)
}

// ParseAge truncates a decimal age and coerces garbage to 0, which the
// simulator then raises to MinAge.
func ParseAge(s string) int {
	return int(math.Trunc(ParseAmount(s)))
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// ParseStatus accepts "Salarié", "salarie", "INDEPENDANT"... and falls back
// to Salarié.
func ParseStatus(s string) ProfessionalStatus {
	switch fold(s) {
	case "independant", "tns", "freelance":
		return StatusIndependant
	default:
		return StatusSalarie
	}
}

func ParseProfile(s string) InvestorProfile {
	switch fold(s) {
	case "prudent":
		return ProfilePrudent
	case "dynamique":
		return ProfileDynamique
	default:
		return ProfileEquilibre
	}
}

// Amount decodes a JSON number or string and never fails, so a half-typed
// field cannot reject a whole simulation request.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Amount(clamp(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(ParseAmount(s))
		return nil
	}
	*a = 0
	return nil
}
