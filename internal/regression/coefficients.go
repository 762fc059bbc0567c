package regression

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"strconv"

	"github.com/KaramelBytes/spreaddash-cli/internal/csvload"
	"github.com/KaramelBytes/spreaddash-cli/internal/group"
)

// DefaultSEType is the standard-error type used when a lookup does not name one.
const DefaultSEType = "cluster-robust"

// ErrNoCoefficients is returned when a table is requested from an empty set.
var ErrNoCoefficients = errors.New("no regression coefficients")

// Coefficient is one line of regression output.
type Coefficient struct {
	Variable string
	Estimate float64
	StdError float64
	CILower  float64
	CIUpper  float64
	PValue   float64
	Model    string
	SEType   string
}

// ParseCoefficients maps parsed CSV rows to coefficients. Numeric fields that are
// missing or not numeric become NaN; missing text fields become "undefined".
func ParseCoefficients(rows []csvload.Record) []Coefficient {
	out := make([]Coefficient, 0, len(rows))
	for _, r := range rows {
		out = append(out, Coefficient{
			Variable: text(r, "variable"),
			Estimate: num(r, "estimate"),
			StdError: num(r, "std_error"),
			CILower:  num(r, "ci_lower"),
			CIUpper:  num(r, "ci_upper"),
			PValue:   num(r, "p_value"),
			Model:    text(r, "model"),
			SEType:   text(r, "se_type"),
		})
	}
	return out
}

// num reads a numeric column. Empty cells are NaN rather than 0 so a blank
// estimate or p-value never renders as a significant zero.
func num(r csvload.Record, col string) float64 {
	v, ok := r.Get(col)
	if !ok {
		return math.NaN()
	}
	return v.Float()
}

func text(r csvload.Record, col string) string {
	v, ok := r.Get(col)
	if !ok {
		return group.Undefined
	}
	return v.String()
}

// GetCoef returns the first coefficient for (variable, model) with the default
// standard-error type.
func GetCoef(cs []Coefficient, variable, model string) (Coefficient, bool) {
	return Lookup(cs, variable, model, DefaultSEType)
}

// Lookup returns the first coefficient matching (variable, model, seType).
func Lookup(cs []Coefficient, variable, model, seType string) (Coefficient, bool) {
	for _, c := range cs {
		if c.Variable == variable && c.Model == model && c.SEType == seType {
			return c, true
		}
	}
	return Coefficient{}, false
}

// FmtCoef formats v with two decimals.
func FmtCoef(v float64) string { return FmtCoefN(v, 2) }

// FmtCoefN formats v with a fixed number of decimals.
func FmtCoefN(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return csvload.FormatNumber(v)
	}
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	if isHalfway(v, decimals) {
		// ties round away from zero
		v = math.Nextafter(v, math.Copysign(math.Inf(1), v))
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// isHalfway reports whether v lies exactly between two values with the given
// number of decimals.
func isHalfway(v float64, decimals int) bool {
	r := new(big.Rat).SetFloat64(v)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))
	return r.Denom().Cmp(big.NewInt(2)) == 0
}

// SigStars annotates a p-value. Non-significant results get " ns"; the leading
// space keeps columns aligned with the starred cells.
func SigStars(p float64) string {
	switch {
	case p < 0.001:
		return "***"
	case p < 0.01:
		return "**"
	case p < 0.05:
		return "*"
	default:
		return " ns"
	}
}

// Models lists distinct model identifiers in first-seen order.
func Models(cs []Coefficient) []string {
	return group.By(cs, func(c Coefficient) any { return c.Model }).Keys()
}

// Variables lists distinct variable names in first-seen order.
func Variables(cs []Coefficient) []string {
	return group.By(cs, func(c Coefficient) any { return c.Variable }).Keys()
}

// MarshalJSON writes non-finite numbers as null.
func (c Coefficient) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"variable":  c.Variable,
		"estimate":  finite(c.Estimate),
		"std_error": finite(c.StdError),
		"ci_lower":  finite(c.CILower),
		"ci_upper":  finite(c.CIUpper),
		"p_value":   finite(c.PValue),
		"model":     c.Model,
		"se_type":   c.SEType,
	})
}

func finite(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}
