// Package table orders, pages and exports record lists for display.
package table

import (
	"slices"
	"strings"
	"time"

	"github.com/smartworkmark/seo-content-portal/internal/dates"
	"github.com/smartworkmark/seo-content-portal/internal/model"
)

// Direction is a sort order.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection reads "asc" or "desc". Anything else is Desc.
func ParseDirection(s string) Direction {
	if Direction(strings.ToLower(s)) == Asc {
		return Asc
	}
	return Desc
}

// Sort returns a copy of rows ordered by the field named key. Equal values
// keep their relative order. Two date strings compare as dates, other
// strings lexicographically, numbers numerically; any other pair is equal.
func Sort[T model.Record](rows []T, key string, dir Direction, loc *time.Location) []T {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b T) int {
		c := compare(a.Field(key), b.Field(key), loc)
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}

func compare(a, b any, loc *time.Location) int {
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		if as == bs {
			return 0
		}
		ta, okA := dates.Parse(as, loc)
		tb, okB := dates.Parse(bs, loc)
		if okA && okB {
			return ta.Compare(tb)
		}
		return strings.Compare(as, bs)
	}

	an, aok := number(a)
	bn, bok := number(b)
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
	}
	return 0
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
