package mongodb

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestNewDocumentFromJSONRoundTrip(t *testing.T) {
	doc, err := newDocumentFromJSON(`{"name": "widget", "qty": 7, "price": 2.5, "active": true}`)
	if err != nil {
		t.Fatalf("newDocumentFromJSON failed: %v", err)
	}

	if got, err := doc.GetString("name").Unwrap(); err != nil || got != "widget" {
		t.Errorf("GetString(name) = (%q, %v), want (widget, nil)", got, err)
	}
	if got, err := doc.GetInt("qty").Unwrap(); err != nil || got != 7 {
		t.Errorf("GetInt(qty) = (%d, %v), want (7, nil)", got, err)
	}
	if got, err := doc.GetDouble("price").Unwrap(); err != nil || got != 2.5 {
		t.Errorf("GetDouble(price) = (%f, %v), want (2.5, nil)", got, err)
	}
	if got, err := doc.GetBool("active").Unwrap(); err != nil || !got {
		t.Errorf("GetBool(active) = (%v, %v), want (true, nil)", got, err)
	}
}

func TestDocumentMissingField(t *testing.T) {
	doc, err := newDocumentFromJSON(`{"name": "widget"}`)
	if err != nil {
		t.Fatalf("newDocumentFromJSON failed: %v", err)
	}
	if _, err := doc.GetString("missing").Unwrap(); err == nil {
		t.Error("expected an error for a missing field")
	}
}

func TestDocumentWrongType(t *testing.T) {
	doc, err := newDocumentFromJSON(`{"name": "widget"}`)
	if err != nil {
		t.Fatalf("newDocumentFromJSON failed: %v", err)
	}
	if _, err := doc.GetInt("name").Unwrap(); err == nil {
		t.Error("expected an error converting a string field to int")
	}
}

func TestDocumentGetIDAcceptsObjectIDAndString(t *testing.T) {
	oid := bson.NewObjectID()
	d1 := &document{m: bson.M{"_id": oid}}
	if got, err := d1.GetID().Unwrap(); err != nil || got != oid.Hex() {
		t.Errorf("GetID() with ObjectID = (%q, %v), want (%q, nil)", got, err, oid.Hex())
	}

	d2 := &document{m: bson.M{"_id": "custom-key"}}
	if got, err := d2.GetID().Unwrap(); err != nil || got != "custom-key" {
		t.Errorf("GetID() with string = (%q, %v), want (custom-key, nil)", got, err)
	}

	d3 := &document{m: bson.M{"_id": 42}}
	if _, err := d3.GetID().Unwrap(); err == nil {
		t.Error("expected an error for an unsupported _id type")
	}
}

func TestDocumentJSONRoundTripsThroughRaw(t *testing.T) {
	doc, err := newDocumentFromJSON(`{"name": "widget"}`)
	if err != nil {
		t.Fatalf("newDocumentFromJSON failed: %v", err)
	}
	if !strings.Contains(doc.JSON(), "widget") {
		t.Errorf("JSON() = %q, want it to contain the original field value", doc.JSON())
	}
}

func TestNewDocumentFromRaw(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"name": "gizmo"})
	if err != nil {
		t.Fatalf("bson.Marshal failed: %v", err)
	}
	doc := newDocumentFromRaw(raw)
	if got, err := doc.GetString("name").Unwrap(); err != nil || got != "gizmo" {
		t.Errorf("GetString(name) = (%q, %v), want (gizmo, nil)", got, err)
	}
}
