package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

type collection struct {
	ctx context.Context
	c   *mongo.Collection
}

func parseFilter(filterJSON string) (bson.M, error) {
	if filterJSON == "" {
		return bson.M{}, nil
	}
	var m bson.M
	if err := bson.UnmarshalExtJSON([]byte(filterJSON), true, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func backendErr(op string, err error) *dberr.Error {
	return dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, op+" failed")
}

func (c *collection) InsertOne(documentJSON string) dbresult.Result[dbconn.WriteResult] {
	doc, err := parseFilter(documentJSON)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid document json"))
	}
	res, err := c.c.InsertOne(c.ctx, doc)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](backendErr("insertOne", err))
	}
	id := ""
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		id = oid.Hex()
	}
	return dbresult.Ok(dbconn.WriteResult{InsertedCount: 1, InsertedID: id})
}

func (c *collection) InsertMany(documentsJSON []string) dbresult.Result[dbconn.WriteResult] {
	docs := make([]any, len(documentsJSON))
	for i, j := range documentsJSON {
		doc, err := parseFilter(j)
		if err != nil {
			return dbresult.Err[dbconn.WriteResult](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid document json"))
		}
		docs[i] = doc
	}
	res, err := c.c.InsertMany(c.ctx, docs)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](backendErr("insertMany", err))
	}
	return dbresult.Ok(dbconn.WriteResult{InsertedCount: int64(len(res.InsertedIDs))})
}

func (c *collection) FindOne(filterJSON string) dbresult.Result[dbconn.Document] {
	filter, err := parseFilter(filterJSON)
	if err != nil {
		return dbresult.Err[dbconn.Document](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid filter json"))
	}
	var raw bson.Raw
	if err := c.c.FindOne(c.ctx, filter).Decode(&raw); err != nil {
		return dbresult.Err[dbconn.Document](backendErr("findOne", err))
	}
	return dbresult.Ok[dbconn.Document](newDocumentFromRaw(raw))
}

func (c *collection) FindByID(id string) dbresult.Result[dbconn.Document] {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return dbresult.Err[dbconn.Document](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid object id"))
	}
	return c.FindOne(`{"_id": {"$oid": "` + oid.Hex() + `"}}`)
}

func (c *collection) Find(filterJSON, projectionJSON string) dbresult.Result[dbconn.Cursor] {
	filter, err := parseFilter(filterJSON)
	if err != nil {
		return dbresult.Err[dbconn.Cursor](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid filter json"))
	}
	opts := options.Find()
	if projectionJSON != "" {
		proj, err := parseFilter(projectionJSON)
		if err != nil {
			return dbresult.Err[dbconn.Cursor](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid projection json"))
		}
		opts.SetProjection(proj)
	}

	open := func(skip, limit int64, sortField string, sortAsc bool) (*mongo.Cursor, error) {
		o := options.Find()
		if projectionJSON != "" {
			proj, _ := parseFilter(projectionJSON)
			o.SetProjection(proj)
		}
		if skip > 0 {
			o.SetSkip(skip)
		}
		if limit > 0 {
			o.SetLimit(limit)
		}
		if sortField != "" {
			dir := 1
			if !sortAsc {
				dir = -1
			}
			o.SetSort(bson.D{{Key: sortField, Value: dir}})
		}
		return c.c.Find(c.ctx, filter, o)
	}

	raw, err := open(0, 0, "", true)
	if err != nil {
		return dbresult.Err[dbconn.Cursor](backendErr("find", err))
	}
	return dbresult.Ok[dbconn.Cursor](newCursor(c.ctx, raw, open))
}

func (c *collection) UpdateOne(filterJSON, updateJSON string) dbresult.Result[dbconn.WriteResult] {
	filter, err := parseFilter(filterJSON)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid filter json"))
	}
	update, err := parseFilter(updateJSON)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid update json"))
	}
	res, err := c.c.UpdateOne(c.ctx, filter, update)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](backendErr("updateOne", err))
	}
	return dbresult.Ok(writeResultFromUpdate(res))
}

func (c *collection) UpdateMany(filterJSON, updateJSON string) dbresult.Result[dbconn.WriteResult] {
	filter, err := parseFilter(filterJSON)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid filter json"))
	}
	update, err := parseFilter(updateJSON)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid update json"))
	}
	res, err := c.c.UpdateMany(c.ctx, filter, update)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](backendErr("updateMany", err))
	}
	return dbresult.Ok(writeResultFromUpdate(res))
}

func (c *collection) ReplaceOne(filterJSON, replacementJSON string) dbresult.Result[dbconn.WriteResult] {
	filter, err := parseFilter(filterJSON)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid filter json"))
	}
	repl, err := parseFilter(replacementJSON)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid replacement json"))
	}
	res, err := c.c.ReplaceOne(c.ctx, filter, repl)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](backendErr("replaceOne", err))
	}
	return dbresult.Ok(writeResultFromUpdate(res))
}

func (c *collection) DeleteOne(filterJSON string) dbresult.Result[dbconn.WriteResult] {
	filter, err := parseFilter(filterJSON)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid filter json"))
	}
	res, err := c.c.DeleteOne(c.ctx, filter)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](backendErr("deleteOne", err))
	}
	return dbresult.Ok(dbconn.WriteResult{DeletedCount: res.DeletedCount})
}

func (c *collection) DeleteMany(filterJSON string) dbresult.Result[dbconn.WriteResult] {
	filter, err := parseFilter(filterJSON)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid filter json"))
	}
	res, err := c.c.DeleteMany(c.ctx, filter)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](backendErr("deleteMany", err))
	}
	return dbresult.Ok(dbconn.WriteResult{DeletedCount: res.DeletedCount})
}

func (c *collection) DeleteByID(id string) dbresult.Result[dbconn.WriteResult] {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid object id"))
	}
	res, err := c.c.DeleteOne(c.ctx, bson.M{"_id": oid})
	if err != nil {
		return dbresult.Err[dbconn.WriteResult](backendErr("deleteById", err))
	}
	return dbresult.Ok(dbconn.WriteResult{DeletedCount: res.DeletedCount})
}

func (c *collection) CreateIndex(keysJSON string) dbresult.Result[string] {
	keys, err := parseFilter(keysJSON)
	if err != nil {
		return dbresult.Err[string](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid keys json"))
	}
	name, err := c.c.Indexes().CreateOne(c.ctx, mongo.IndexModel{Keys: keys})
	if err != nil {
		return dbresult.Err[string](backendErr("createIndex", err))
	}
	return dbresult.Ok(name)
}

func (c *collection) DropIndex(name string) dbresult.Result[dbresult.Unit] {
	if _, err := c.c.Indexes().DropOne(c.ctx, name); err != nil {
		return dbresult.Err[dbresult.Unit](backendErr("dropIndex", err))
	}
	return dbresult.OkUnit()
}

func (c *collection) DropAllIndexes() dbresult.Result[dbresult.Unit] {
	if _, err := c.c.Indexes().DropAll(c.ctx); err != nil {
		return dbresult.Err[dbresult.Unit](backendErr("dropAllIndexes", err))
	}
	return dbresult.OkUnit()
}

func (c *collection) ListIndexes() dbresult.Result[[]string] {
	cur, err := c.c.Indexes().List(c.ctx)
	if err != nil {
		return dbresult.Err[[]string](backendErr("listIndexes", err))
	}
	defer cur.Close(c.ctx)
	var names []string
	for cur.Next(c.ctx) {
		var m bson.M
		if err := cur.Decode(&m); err != nil {
			continue
		}
		if n, ok := m["name"].(string); ok {
			names = append(names, n)
		}
	}
	return dbresult.Ok(names)
}

func (c *collection) Drop() dbresult.Result[dbresult.Unit] {
	if err := c.c.Drop(c.ctx); err != nil {
		return dbresult.Err[dbresult.Unit](backendErr("drop", err))
	}
	return dbresult.OkUnit()
}

func (c *collection) Rename(newName string) dbresult.Result[dbresult.Unit] {
	db := c.c.Database()
	cmd := bson.D{
		{Key: "renameCollection", Value: db.Name() + "." + c.c.Name()},
		{Key: "to", Value: db.Name() + "." + newName},
	}
	if err := db.Client().Database("admin").RunCommand(c.ctx, cmd).Err(); err != nil {
		return dbresult.Err[dbresult.Unit](backendErr("renameCollection", err))
	}
	return dbresult.OkUnit()
}

func (c *collection) Aggregate(pipelineJSON string) dbresult.Result[dbconn.Cursor] {
	var stages []bson.M
	if err := bson.UnmarshalExtJSON([]byte(pipelineJSON), true, &stages); err != nil {
		return dbresult.Err[dbconn.Cursor](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid pipeline json"))
	}
	pipeline := make(bson.A, len(stages))
	for i, s := range stages {
		pipeline[i] = s
	}
	raw, err := c.c.Aggregate(c.ctx, pipeline)
	if err != nil {
		return dbresult.Err[dbconn.Cursor](backendErr("aggregate", err))
	}
	return dbresult.Ok[dbconn.Cursor](newCursor(c.ctx, raw, nil))
}

func (c *collection) Distinct(field, filterJSON string) dbresult.Result[[]string] {
	filter, err := parseFilter(filterJSON)
	if err != nil {
		return dbresult.Err[[]string](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid filter json"))
	}
	res := c.c.Distinct(c.ctx, field, filter)
	values, err := res.Raw()
	if err != nil {
		return dbresult.Err[[]string](backendErr("distinct", err))
	}
	vals, err := values.Values()
	if err != nil {
		return dbresult.Err[[]string](backendErr("distinct", err))
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		out = append(out, v.String())
	}
	return dbresult.Ok(out)
}

func writeResultFromUpdate(res *mongo.UpdateResult) dbconn.WriteResult {
	wr := dbconn.WriteResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
	if res.UpsertedCount > 0 {
		wr.UpsertedCount = res.UpsertedCount
		if oid, ok := res.UpsertedID.(bson.ObjectID); ok {
			wr.InsertedID = oid.Hex()
		}
	}
	return wr
}

var _ dbconn.Collection = (*collection)(nil)
