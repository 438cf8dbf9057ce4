// Package docquery expresses the small subset of MongoDB's query language the
// stores need (equality, range, existence, and/or) as composable values.
//
// A Filter renders itself as a BSON document for the driver and can also be
// evaluated against a decoded document. Evaluation follows MongoDB's rules:
// range operators only match values of the same BSON type class, Eq(field, nil)
// matches both null and missing fields, and Exists(field, false) matches only
// missing fields.
package docquery

import (
	"bytes"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fields is a decoded document, keyed by top-level field name.
type Fields map[string]any

// FieldsOf encodes v with its bson tags and decodes the result into Fields,
// so a struct can be evaluated exactly as the server would see it.
func FieldsOf(v any) (Fields, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return Fields(m), nil
}

// Filter is a query predicate.
type Filter interface {
	BSON() bson.D
	Match(doc Fields) bool
}

/* -------------------------------------------------------------------------- */
/* Field predicates                                                           */
/* -------------------------------------------------------------------------- */

type eqFilter struct {
	field string
	value any
}

// Eq matches documents whose field equals value. A nil value matches
// documents where the field is null or missing.
func Eq(field string, value any) Filter { return eqFilter{field: field, value: value} }

func (f eqFilter) BSON() bson.D { return bson.D{{Key: f.field, Value: f.value}} }

func (f eqFilter) Match(doc Fields) bool {
	v, ok := doc[f.field]
	if f.value == nil {
		return !ok || v == nil
	}
	if !ok {
		return false
	}
	c, same := compare(v, f.value)
	return same && c == 0
}

type rangeFilter struct {
	field string
	op    string
	value any
}

// Gte matches documents whose field is >= value and of the same type class.
func Gte(field string, value any) Filter { return rangeFilter{field: field, op: "$gte", value: value} }

// Lte matches documents whose field is <= value and of the same type class.
func Lte(field string, value any) Filter { return rangeFilter{field: field, op: "$lte", value: value} }

func (f rangeFilter) BSON() bson.D {
	return bson.D{{Key: f.field, Value: bson.D{{Key: f.op, Value: f.value}}}}
}

func (f rangeFilter) Match(doc Fields) bool {
	v, ok := doc[f.field]
	if !ok || v == nil || f.value == nil {
		return false
	}
	c, same := compare(v, f.value)
	if !same {
		return false
	}
	switch f.op {
	case "$gte":
		return c >= 0
	case "$lte":
		return c <= 0
	}
	return false
}

type existsFilter struct {
	field  string
	exists bool
}

// Exists matches documents that have (or, with false, lack) the field.
// A field holding null still exists.
func Exists(field string, exists bool) Filter { return existsFilter{field: field, exists: exists} }

func (f existsFilter) BSON() bson.D {
	return bson.D{{Key: f.field, Value: bson.D{{Key: "$exists", Value: f.exists}}}}
}

func (f existsFilter) Match(doc Fields) bool {
	_, ok := doc[f.field]
	return ok == f.exists
}

/* -------------------------------------------------------------------------- */
/* Combinators                                                                */
/* -------------------------------------------------------------------------- */

type andFilter []Filter

// And matches documents satisfying every filter. And() matches everything.
func And(filters ...Filter) Filter { return andFilter(filters) }

// All matches every document.
func All() Filter { return andFilter(nil) }

func (f andFilter) BSON() bson.D {
	switch len(f) {
	case 0:
		return bson.D{}
	case 1:
		return f[0].BSON()
	}
	parts := make(bson.A, 0, len(f))
	for _, sub := range f {
		parts = append(parts, sub.BSON())
	}
	return bson.D{{Key: "$and", Value: parts}}
}

func (f andFilter) Match(doc Fields) bool {
	for _, sub := range f {
		if !sub.Match(doc) {
			return false
		}
	}
	return true
}

type orFilter []Filter

// Or matches documents satisfying at least one filter.
// The server rejects an empty $or, so Or needs at least one filter.
func Or(filters ...Filter) Filter { return orFilter(filters) }

func (f orFilter) BSON() bson.D {
	parts := make(bson.A, 0, len(f))
	for _, sub := range f {
		parts = append(parts, sub.BSON())
	}
	return bson.D{{Key: "$or", Value: parts}}
}

func (f orFilter) Match(doc Fields) bool {
	for _, sub := range f {
		if sub.Match(doc) {
			return true
		}
	}
	return false
}

/* -------------------------------------------------------------------------- */
/* Value comparison                                                           */
/* -------------------------------------------------------------------------- */

// Type classes in MongoDB's cross-type sort order.
const (
	classNull = iota
	classNumber
	classString
	classObjectID
	classBool
	classDate
	classOther
)

type normalized struct {
	class int
	num   float64
	str   string
	oid   primitive.ObjectID
	b     bool
	ms    int64
}

func normalize(v any) normalized {
	switch x := v.(type) {
	case nil:
		return normalized{class: classNull}
	case primitive.Null:
		return normalized{class: classNull}
	case int:
		return normalized{class: classNumber, num: float64(x)}
	case int32:
		return normalized{class: classNumber, num: float64(x)}
	case int64:
		return normalized{class: classNumber, num: float64(x)}
	case float64:
		return normalized{class: classNumber, num: x}
	case string:
		return normalized{class: classString, str: x}
	case *string:
		if x == nil {
			return normalized{class: classNull}
		}
		return normalized{class: classString, str: *x}
	case primitive.ObjectID:
		return normalized{class: classObjectID, oid: x}
	case bool:
		return normalized{class: classBool, b: x}
	case time.Time:
		return normalized{class: classDate, ms: x.UnixMilli()}
	case primitive.DateTime:
		return normalized{class: classDate, ms: int64(x)}
	}
	return normalized{class: classOther}
}

// compare orders a and b. same reports whether both belong to the same type
// class; when they don't, the result follows the cross-type order.
func compare(a, b any) (c int, same bool) {
	na, nb := normalize(a), normalize(b)
	if na.class != nb.class {
		if na.class < nb.class {
			return -1, false
		}
		return 1, false
	}
	switch na.class {
	case classNull:
		return 0, true
	case classNumber:
		return cmpOrdered(na.num, nb.num), true
	case classString:
		return cmpOrdered(na.str, nb.str), true
	case classObjectID:
		return bytes.Compare(na.oid[:], nb.oid[:]), true
	case classBool:
		switch {
		case na.b == nb.b:
			return 0, true
		case !na.b:
			return -1, true
		}
		return 1, true
	case classDate:
		return cmpOrdered(na.ms, nb.ms), true
	}
	return 0, false
}

func cmpOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
