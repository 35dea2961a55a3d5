package mongodb

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// document adapts a bson.Raw (or bson.M built in-process) to dbconn.Document,
// conveying everything at the boundary as MongoDB Extended JSON (spec.md
// §4.3: "Filters, updates, projections, and pipelines are conveyed as JSON
// strings at the boundary").
type document struct {
	raw bson.Raw
	m   bson.M
}

func newDocumentFromRaw(raw bson.Raw) *document {
	var m bson.M
	_ = bson.Unmarshal(raw, &m)
	return &document{raw: raw, m: m}
}

func newDocumentFromJSON(jsonStr string) (*document, error) {
	var m bson.M
	if err := bson.UnmarshalExtJSON([]byte(jsonStr), true, &m); err != nil {
		return nil, err
	}
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, err
	}
	return &document{raw: raw, m: m}, nil
}

func (d *document) JSON() string {
	if d == nil || d.raw == nil {
		b, _ := bson.MarshalExtJSON(d.m, false, false)
		return string(b)
	}
	b, err := bson.MarshalExtJSON(d.raw, false, false)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func (d *document) field(name string) (any, bool) {
	if d.m == nil {
		return nil, false
	}
	v, ok := d.m[name]
	return v, ok
}

func (d *document) GetString(field string) dbresult.Result[string] {
	v, ok := d.field(field)
	if !ok {
		return dbresult.Err[string](missingField(field))
	}
	s, ok := v.(string)
	if !ok {
		return dbresult.Err[string](wrongType(field, "string"))
	}
	return dbresult.Ok(s)
}

func (d *document) GetInt(field string) dbresult.Result[int64] {
	v, ok := d.field(field)
	if !ok {
		return dbresult.Err[int64](missingField(field))
	}
	switch n := v.(type) {
	case int32:
		return dbresult.Ok(int64(n))
	case int64:
		return dbresult.Ok(n)
	case float64:
		return dbresult.Ok(int64(n))
	default:
		return dbresult.Err[int64](wrongType(field, "int"))
	}
}

func (d *document) GetDouble(field string) dbresult.Result[float64] {
	v, ok := d.field(field)
	if !ok {
		return dbresult.Err[float64](missingField(field))
	}
	switch n := v.(type) {
	case float64:
		return dbresult.Ok(n)
	case int32:
		return dbresult.Ok(float64(n))
	case int64:
		return dbresult.Ok(float64(n))
	default:
		return dbresult.Err[float64](wrongType(field, "double"))
	}
}

func (d *document) GetBool(field string) dbresult.Result[bool] {
	v, ok := d.field(field)
	if !ok {
		return dbresult.Err[bool](missingField(field))
	}
	b, ok := v.(bool)
	if !ok {
		return dbresult.Err[bool](wrongType(field, "bool"))
	}
	return dbresult.Ok(b)
}

func (d *document) GetID() dbresult.Result[string] {
	v, ok := d.field("_id")
	if !ok {
		return dbresult.Err[string](missingField("_id"))
	}
	switch id := v.(type) {
	case bson.ObjectID:
		return dbresult.Ok(id.Hex())
	case string:
		return dbresult.Ok(id)
	default:
		return dbresult.Err[string](wrongType("_id", "ObjectID or string"))
	}
}

func missingField(field string) *dberr.Error {
	return dberr.Newf(dberr.CodeRelInvalidColumn, dberr.KindInvalidColumn, "document has no field %q", field)
}

func wrongType(field, want string) *dberr.Error {
	return dberr.Newf(dberr.CodeRelInvalidColumn, dberr.KindInvalidColumn, "field %q is not a %s", field, want)
}
