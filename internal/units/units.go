// Package units converts ingredient quantities between measurement units.
//
// Mass units normalize to grams and volume units to millilitres. Count units
// (piece, clove, leaf, sachet, bunch, slice) normalize to themselves, except
// that pieces of an ingredient with a known per-piece weight become grams.
// Unknown units pass through in canonical spelling and are only comparable to
// themselves.
package units

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	Gram       = "g"
	Millilitre = "ml"
	Piece      = "piece"
	Clove      = "clove"
	Leaf       = "leaf"
	Sachet     = "sachet"
	Bunch      = "bunch"
	Slice      = "slice"
)

// Weighted is implemented by items that may carry a per-piece weight.
type Weighted interface {
	PieceWeightGrams() (decimal.Decimal, bool)
}

type family struct {
	base   string
	factor decimal.Decimal
}

var scaled = map[string]family{
	"mg": {Gram, decimal.RequireFromString("0.001")},
	"g":  {Gram, decimal.NewFromInt(1)},
	"kg": {Gram, decimal.NewFromInt(1000)},
	"ml": {Millilitre, decimal.NewFromInt(1)},
	"cl": {Millilitre, decimal.NewFromInt(10)},
	"dl": {Millilitre, decimal.NewFromInt(100)},
	"l":  {Millilitre, decimal.NewFromInt(1000)},
}

var countUnits = map[string]struct{}{
	Piece:  {},
	Clove:  {},
	Leaf:   {},
	Sachet: {},
	Bunch:  {},
	Slice:  {},
}

var aliases = map[string]string{
	"gr":          "g",
	"gramme":      "g",
	"grammes":     "g",
	"gram":        "g",
	"grams":       "g",
	"kilo":        "kg",
	"kilos":       "kg",
	"kilogramme":  "kg",
	"kilogrammes": "kg",
	"milligramme": "mg",
	"litre":       "l",
	"litres":      "l",
	"liter":       "l",
	"liters":      "l",
	"millilitre":  "ml",
	"millilitres": "ml",
	"centilitre":  "cl",
	"centilitres": "cl",
	"decilitre":   "dl",
	"decilitres":  "dl",
	"piece":       Piece,
	"pieces":      Piece,
	"pc":          Piece,
	"pcs":         Piece,
	"unite":       Piece,
	"unites":      Piece,
	"gousse":      Clove,
	"gousses":     Clove,
	"cloves":      Clove,
	"feuille":     Leaf,
	"feuilles":    Leaf,
	"leaves":      Leaf,
	"sachets":     Sachet,
	"botte":       Bunch,
	"bottes":      Bunch,
	"bouquet":     Bunch,
	"bouquets":    Bunch,
	"bunches":     Bunch,
	"tranche":     Slice,
	"tranches":    Slice,
	"slices":      Slice,
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Canonical folds case, accents and known spellings so "Pièces" and "piece"
// compare equal. Unknown spellings come back lowercased and trimmed.
func Canonical(unit string) string {
	trimmed := strings.TrimSpace(unit)
	if trimmed == "" {
		return ""
	}
	folded, _, err := transform.String(stripMarks, strings.ToLower(trimmed))
	if err != nil {
		folded = strings.ToLower(trimmed)
	}
	folded = strings.TrimSuffix(folded, ".")
	if alias, ok := aliases[folded]; ok {
		return alias
	}
	return folded
}

// Normalize converts q into its family's base unit. Unrecognized units keep
// their quantity and come back in canonical spelling with ok=false.
func Normalize(q decimal.Decimal, unit string, item Weighted) (decimal.Decimal, string, bool) {
	c := Canonical(unit)
	if f, ok := scaled[c]; ok {
		return q.Mul(f.factor), f.base, true
	}
	if _, ok := countUnits[c]; ok {
		if c == Piece {
			if w, ok := pieceWeight(item); ok {
				return q.Mul(w), Gram, true
			}
		}
		return q, c, true
	}
	return q, c, false
}

// DenormalizeForDisplay undoes the piece to gram conversion for items with a
// known piece weight, returning the gram amount as detail. Every other
// quantity is returned as given with a nil detail.
func DenormalizeForDisplay(q decimal.Decimal, baseUnit string, item Weighted) (decimal.Decimal, string, *decimal.Decimal) {
	if Canonical(baseUnit) == Gram {
		if w, ok := pieceWeight(item); ok {
			grams := q
			return q.Div(w), Piece, &grams
		}
	}
	return q, baseUnit, nil
}

// Comparable reports whether both units normalize to the same base unit.
// Two empty units are comparable; an empty and a non-empty one are not.
func Comparable(u1, u2 string, item Weighted) bool {
	e1, e2 := strings.TrimSpace(u1) == "", strings.TrimSpace(u2) == ""
	if e1 || e2 {
		return e1 && e2
	}
	return normalizedBase(u1, item) == normalizedBase(u2, item)
}

// Convert expresses q (in from) in the to unit. It reports false when the
// units are not comparable.
func Convert(q decimal.Decimal, from, to string, item Weighted) (decimal.Decimal, bool) {
	if !Comparable(from, to, item) {
		return decimal.Zero, false
	}
	if strings.TrimSpace(from) == "" {
		return q, true
	}
	qBase, _, _ := Normalize(q, from, item)
	oneTo, _, _ := Normalize(decimal.NewFromInt(1), to, item)
	if oneTo.IsZero() {
		return decimal.Zero, false
	}
	return qBase.Div(oneTo), true
}

func normalizedBase(unit string, item Weighted) string {
	_, base, _ := Normalize(decimal.Zero, unit, item)
	return base
}

func pieceWeight(item Weighted) (decimal.Decimal, bool) {
	if item == nil {
		return decimal.Zero, false
	}
	w, ok := item.PieceWeightGrams()
	if !ok || !w.IsPositive() {
		return decimal.Zero, false
	}
	return w, true
}
