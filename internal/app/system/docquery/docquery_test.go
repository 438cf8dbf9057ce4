package docquery

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilter_BSON(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		want bson.D
	}{
		{"eq", Eq("title", "Exam"), bson.D{{Key: "title", Value: "Exam"}}},
		{"gte", Gte("end_date", "2024-05-10"), bson.D{{Key: "end_date", Value: bson.D{{Key: "$gte", Value: "2024-05-10"}}}}},
		{"lte", Lte("start_date", "2024-05-10"), bson.D{{Key: "start_date", Value: bson.D{{Key: "$lte", Value: "2024-05-10"}}}}},
		{"exists", Exists("start_date", false), bson.D{{Key: "start_date", Value: bson.D{{Key: "$exists", Value: false}}}}},
		{"all", All(), bson.D{}},
		{"single and", And(Eq("a", 1)), bson.D{{Key: "a", Value: 1}}},
		{
			"and",
			And(Eq("a", 1), Eq("b", 2)),
			bson.D{{Key: "$and", Value: bson.A{bson.D{{Key: "a", Value: 1}}, bson.D{{Key: "b", Value: 2}}}}},
		},
		{
			"or",
			Or(Eq("a", nil), Eq("a", "")),
			bson.D{{Key: "$or", Value: bson.A{bson.D{{Key: "a", Value: nil}}, bson.D{{Key: "a", Value: ""}}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.f.BSON()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BSON() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFilter_Match(t *testing.T) {
	doc := Fields{
		"title":      "Exam",
		"start_date": nil,
		"end_date":   "2024-05-10",
		"count":      int32(3),
	}

	tests := []struct {
		name string
		f    Filter
		want bool
	}{
		{"eq string", Eq("title", "Exam"), true},
		{"eq string mismatch", Eq("title", "Quiz"), false},
		{"eq nil on null", Eq("start_date", nil), true},
		{"eq nil on missing", Eq("missing", nil), true},
		{"eq nil on value", Eq("title", nil), false},
		{"eq empty on null", Eq("start_date", ""), false},
		{"gte equal", Gte("end_date", "2024-05-10"), true},
		{"gte before", Gte("end_date", "2024-05-09"), true},
		{"gte after", Gte("end_date", "2024-05-11"), false},
		{"lte on null never matches", Lte("start_date", "2099-01-01"), false},
		{"lte on missing never matches", Lte("missing", "2099-01-01"), false},
		{"gte cross type", Gte("count", "1"), false},
		{"gte number", Gte("count", int64(3)), true},
		{"lte number below", Lte("count", 2), false},
		{"gte float", Gte("count", 2.5), true},
		{"exists on null", Exists("start_date", true), true},
		{"not exists on null", Exists("start_date", false), false},
		{"not exists on missing", Exists("missing", false), true},
		{"and all true", And(Eq("title", "Exam"), Gte("end_date", "2024-01-01")), true},
		{"and one false", And(Eq("title", "Exam"), Gte("end_date", "2025-01-01")), false},
		{"empty and", All(), true},
		{"or one true", Or(Eq("title", "Quiz"), Eq("start_date", nil)), true},
		{"or none true", Or(Eq("title", "Quiz"), Exists("start_date", false)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Match(doc); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFieldsOf(t *testing.T) {
	type rec struct {
		ID        primitive.ObjectID `bson:"_id"`
		StartDate *string            `bson:"start_date"`
		EndDate   string             `bson:"end_date"`
		CreatedAt time.Time          `bson:"created_at"`
		Skipped   string             `bson:"skipped,omitempty"`
	}

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f, err := FieldsOf(rec{ID: primitive.NewObjectID(), EndDate: "2024-05-10", CreatedAt: created})
	if err != nil {
		t.Fatalf("FieldsOf failed: %v", err)
	}

	if v, ok := f["start_date"]; !ok || v != nil {
		t.Errorf("start_date: got %#v (present=%v), want nil present", v, ok)
	}
	if _, ok := f["skipped"]; ok {
		t.Error("omitempty field should be missing")
	}
	if !Gte("created_at", created).Match(f) {
		t.Error("created_at should compare equal to the original time")
	}
	if !Eq("end_date", "2024-05-10").Match(f) {
		t.Error("end_date should match")
	}
}

func TestSort(t *testing.T) {
	s := By("start_date", Asc).Then("created_at", Desc)

	want := bson.D{{Key: "start_date", Value: 1}, {Key: "created_at", Value: -1}}
	if got := s.BSON(); !reflect.DeepEqual(got, want) {
		t.Errorf("BSON() = %#v, want %#v", got, want)
	}

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	docs := []Fields{
		{"id": "b", "start_date": "2024-05-02", "created_at": t1},
		{"id": "c", "start_date": nil, "created_at": t1},
		{"id": "a", "start_date": "2024-05-01", "created_at": t1},
		{"id": "d", "created_at": t2},
		{"id": "e", "start_date": "2024-05-02", "created_at": t2},
	}
	s.Apply(docs)

	var order []string
	for _, d := range docs {
		order = append(order, d["id"].(string))
	}
	// null and missing tie on start_date, so created_at desc decides.
	wantOrder := []string{"d", "c", "a", "e", "b"}
	if !reflect.DeepEqual(order, wantOrder) {
		t.Errorf("order = %v, want %v", order, wantOrder)
	}
}

func TestSort_Then_DoesNotAlias(t *testing.T) {
	base := By("end_date", Desc)
	a := base.Then("start_date", Desc)
	b := base.Then("created_at", Asc)
	if a[1].Field != "start_date" || b[1].Field != "created_at" {
		t.Errorf("Then shared backing storage: a=%v b=%v", a, b)
	}
}
