package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// cursor adapts *mongo.Cursor to dbconn.Cursor. Skip/Limit/Sort are
// collected and only take effect when Rewind reopens the server-side
// cursor — mirroring the chainable-modifier contract spec.md §4.3
// describes, since the Go driver itself applies them at query-issue time
// rather than on an already-open cursor.
type cursor struct {
	ctx      context.Context
	raw      *mongo.Cursor
	position int
	closed   bool
	reopen   func(skip, limit int64, sortField string, sortAsc bool) (*mongo.Cursor, error)
	skip     int64
	limit    int64
	sortF    string
	sortAsc  bool
}

func newCursor(ctx context.Context, raw *mongo.Cursor, reopen func(skip, limit int64, sortField string, sortAsc bool) (*mongo.Cursor, error)) *cursor {
	return &cursor{ctx: ctx, raw: raw, reopen: reopen}
}

func (c *cursor) Next() dbresult.Result[bool] {
	if c.closed {
		return dbresult.Err[bool](dberr.New(dberr.CodeDocCursorClosed, dberr.KindCursorClosed, "cursor is closed"))
	}
	ok := c.raw.Next(c.ctx)
	if ok {
		c.position++
	}
	return dbresult.Ok(ok)
}

func (c *cursor) HasNext() dbresult.Result[bool] {
	return dbresult.Ok(c.raw.RemainingBatchLength() > 0)
}

func (c *cursor) Current() dbresult.Result[dbconn.Document] {
	if c.closed {
		return dbresult.Err[dbconn.Document](dberr.New(dberr.CodeDocCursorClosed, dberr.KindCursorClosed, "cursor is closed"))
	}
	return dbresult.Ok[dbconn.Document](newDocumentFromRaw(c.raw.Current))
}

func (c *cursor) NextDocument() dbresult.Result[dbconn.Document] {
	next := c.Next()
	if next.IsErr() {
		return dbresult.Err[dbconn.Document](next.Error())
	}
	if !next.Value() {
		return dbresult.Err[dbconn.Document](dberr.New(dberr.CodeDocCursorClosed, dberr.KindCursorClosed, "no more documents"))
	}
	return c.Current()
}

func (c *cursor) ToVector() dbresult.Result[[]dbconn.Document] {
	var raws []bson.Raw
	if err := c.raw.All(c.ctx, &raws); err != nil {
		return dbresult.Err[[]dbconn.Document](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "cursor drain failed"))
	}
	docs := make([]dbconn.Document, len(raws))
	for i, r := range raws {
		docs[i] = newDocumentFromRaw(r)
	}
	c.position += len(docs)
	return dbresult.Ok(docs)
}

func (c *cursor) GetBatch(size int) dbresult.Result[[]dbconn.Document] {
	docs := make([]dbconn.Document, 0, size)
	for len(docs) < size {
		n := c.Next()
		if n.IsErr() {
			return dbresult.Err[[]dbconn.Document](n.Error())
		}
		if !n.Value() {
			break
		}
		docs = append(docs, newDocumentFromRaw(c.raw.Current))
	}
	return dbresult.Ok(docs)
}

func (c *cursor) Count() dbresult.Result[int64] {
	return dbresult.Ok(int64(c.position))
}

func (c *cursor) Position() int { return c.position }

func (c *cursor) Skip(n int64) dbconn.Cursor {
	c.skip = n
	return c
}

func (c *cursor) Limit(n int64) dbconn.Cursor {
	c.limit = n
	return c
}

func (c *cursor) Sort(field string, ascending bool) dbconn.Cursor {
	c.sortF = field
	c.sortAsc = ascending
	return c
}

func (c *cursor) IsExhausted() bool {
	return c.closed || c.raw.RemainingBatchLength() == 0
}

// Rewind reopens the underlying cursor with the accumulated Skip/Limit/Sort
// modifiers applied (spec.md §4.3: rewinding a collection-backed cursor
// re-issues the query). Cursors from Find carry a reopen function; cursors
// from Aggregate do not, and Rewind refuses them with CodeDocRewindRefused.
// A reopen that fails is reported as a backend error.
func (c *cursor) Rewind() dbresult.Result[dbresult.Unit] {
	if c.reopen == nil {
		return dbresult.Err[dbresult.Unit](dberr.New(dberr.CodeDocRewindRefused, dberr.KindCursorClosed, "cursor does not support rewind"))
	}
	_ = c.raw.Close(c.ctx)
	fresh, err := c.reopen(c.skip, c.limit, c.sortF, c.sortAsc)
	if err != nil {
		return dbresult.Err[dbresult.Unit](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "cursor rewind failed"))
	}
	c.raw = fresh
	c.position = 0
	c.closed = false
	return dbresult.OkUnit()
}

func (c *cursor) Close() dbresult.Result[dbresult.Unit] {
	if c.closed {
		return dbresult.OkUnit()
	}
	c.closed = true
	_ = c.raw.Close(c.ctx)
	return dbresult.OkUnit()
}

var _ dbconn.Cursor = (*cursor)(nil)
