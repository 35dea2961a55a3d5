package dbconn

import "github.com/godbc/godbc/dbresult"

// Document wraps a single document conveyed at the boundary as JSON, per
// spec.md §4.3 ("Filters, updates, projections, and pipelines are conveyed
// as JSON strings at the boundary").
type Document interface {
	JSON() string
	GetString(field string) dbresult.Result[string]
	GetInt(field string) dbresult.Result[int64]
	GetDouble(field string) dbresult.Result[float64]
	GetBool(field string) dbresult.Result[bool]
	GetID() dbresult.Result[string]
}

// DocumentConnection is the document-store paradigm contract.
type DocumentConnection interface {
	Connection

	ListDatabases() dbresult.Result[[]string]
	ListCollections(database string) dbresult.Result[[]string]
	CreateCollection(database, name string) dbresult.Result[dbresult.Unit]
	DropCollection(database, name string) dbresult.Result[dbresult.Unit]
	RenameCollection(database, oldName, newName string) dbresult.Result[dbresult.Unit]

	Collection(database, name string) dbresult.Result[Collection]

	NewDocument() Document
	NewDocumentFromJSON(json string) dbresult.Result[Document]

	RunCommand(database, commandJSON string) dbresult.Result[Document]
	ServerInfo() dbresult.Result[Document]
	ServerStatus() dbresult.Result[Document]
	Ping() dbresult.Result[dbresult.Unit]

	StartSession() dbresult.Result[string]
	EndSession(sessionID string) dbresult.Result[dbresult.Unit]
	StartTransaction(sessionID string) dbresult.Result[dbresult.Unit]
	CommitTransaction(sessionID string) dbresult.Result[dbresult.Unit]
	AbortTransaction(sessionID string) dbresult.Result[dbresult.Unit]
}

// WriteResult carries the outcome of a mutating collection operation.
type WriteResult struct {
	InsertedCount int64
	MatchedCount  int64
	ModifiedCount int64
	DeletedCount  int64
	UpsertedCount int64
	InsertedID    string
}

// Collection is the document-store analogue of a table.
type Collection interface {
	InsertOne(documentJSON string) dbresult.Result[WriteResult]
	InsertMany(documentsJSON []string) dbresult.Result[WriteResult]

	FindOne(filterJSON string) dbresult.Result[Document]
	FindByID(id string) dbresult.Result[Document]
	Find(filterJSON, projectionJSON string) dbresult.Result[Cursor]

	UpdateOne(filterJSON, updateJSON string) dbresult.Result[WriteResult]
	UpdateMany(filterJSON, updateJSON string) dbresult.Result[WriteResult]
	ReplaceOne(filterJSON, replacementJSON string) dbresult.Result[WriteResult]

	DeleteOne(filterJSON string) dbresult.Result[WriteResult]
	DeleteMany(filterJSON string) dbresult.Result[WriteResult]
	DeleteByID(id string) dbresult.Result[WriteResult]

	CreateIndex(keysJSON string) dbresult.Result[string]
	DropIndex(name string) dbresult.Result[dbresult.Unit]
	DropAllIndexes() dbresult.Result[dbresult.Unit]
	ListIndexes() dbresult.Result[[]string]

	Drop() dbresult.Result[dbresult.Unit]
	Rename(newName string) dbresult.Result[dbresult.Unit]

	Aggregate(pipelineJSON string) dbresult.Result[Cursor]
	Distinct(field, filterJSON string) dbresult.Result[[]string]
}

// Cursor iterates a document result stream. Pre-iteration modifiers return
// the Cursor itself to allow chaining (spec.md §4.3).
type Cursor interface {
	Next() dbresult.Result[bool]
	HasNext() dbresult.Result[bool]
	Current() dbresult.Result[Document]
	NextDocument() dbresult.Result[Document]
	ToVector() dbresult.Result[[]Document]
	GetBatch(size int) dbresult.Result[[]Document]
	Count() dbresult.Result[int64]
	Position() int

	Skip(n int64) Cursor
	Limit(n int64) Cursor
	Sort(field string, ascending bool) Cursor

	IsExhausted() bool
	Rewind() dbresult.Result[dbresult.Unit]

	Close() dbresult.Result[dbresult.Unit]
}
