package docquery

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson"
)

// Direction is a sort direction, encoded the way the server expects.
type Direction int

const (
	Asc  Direction = 1
	Desc Direction = -1
)

// SortKey orders by one field.
type SortKey struct {
	Field string
	Dir   Direction
}

// Sort is an ordered list of sort keys; earlier keys take precedence.
type Sort []SortKey

// By starts a sort on field.
func By(field string, dir Direction) Sort { return Sort{{Field: field, Dir: dir}} }

// Then appends a tie-breaking key.
func (s Sort) Then(field string, dir Direction) Sort {
	out := make(Sort, len(s), len(s)+1)
	copy(out, s)
	return append(out, SortKey{Field: field, Dir: dir})
}

// BSON renders the sort specification for options.Find().SetSort.
func (s Sort) BSON() bson.D {
	d := make(bson.D, 0, len(s))
	for _, k := range s {
		d = append(d, bson.E{Key: k.Field, Value: int(k.Dir)})
	}
	return d
}

// Less reports whether a sorts before b. Missing fields sort as null,
// which comes before every other type.
func (s Sort) Less(a, b Fields) bool {
	for _, k := range s {
		c, _ := compare(a[k.Field], b[k.Field])
		if c == 0 {
			continue
		}
		if k.Dir == Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

// Apply stably sorts docs in place.
func (s Sort) Apply(docs []Fields) {
	sort.SliceStable(docs, func(i, j int) bool { return s.Less(docs[i], docs[j]) })
}
