// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reviews

import (
	"math"
	"strconv"
	"strings"

	"github.com/danielhkuo/crocante/catalog"
)

// Rating is a review score rendered as a five-star row
type Rating struct {
	Full  int    `json:"cheias"`
	Half  bool   `json:"meia"`
	Empty int    `json:"vazias"`
	Label string `json:"nota"`
}

// Stars renders nota as full stars, at most one half star for any fractional
// part, and empty stars up to catalog.MaxRating. Scores outside the scale are
// clamped; NaN renders as zero.
func Stars(nota float64) Rating {
	switch {
	case math.IsNaN(nota) || nota < 0:
		nota = 0
	case nota > catalog.MaxRating:
		nota = catalog.MaxRating
	}

	full := int(math.Floor(nota))
	half := nota != math.Floor(nota)
	empty := catalog.MaxRating - full
	if half {
		empty--
	}
	return Rating{
		Full:  full,
		Half:  half,
		Empty: empty,
		Label: strconv.FormatFloat(nota, 'f', 1, 64),
	}
}

// String draws the row in text, e.g. "★★★★½ 4.5"
func (r Rating) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("★", r.Full))
	if r.Half {
		b.WriteString("½")
	}
	b.WriteString(strings.Repeat("☆", r.Empty))
	b.WriteString(" ")
	b.WriteString(r.Label)
	return b.String()
}

// Card is a review ready for display
type Card struct {
	Index    int            `json:"index"`
	Review   catalog.Review `json:"avaliacao"`
	Estrelas Rating         `json:"estrelas"`
}

// Cards renders every review in order
func Cards(rs []catalog.Review) []Card {
	out := make([]Card, len(rs))
	for i, r := range rs {
		out[i] = Card{Index: i, Review: r, Estrelas: Stars(r.Nota)}
	}
	return out
}
