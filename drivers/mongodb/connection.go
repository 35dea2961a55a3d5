package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// conn adapts a *mongo.Client to dbconn.DocumentConnection. Sessions are
// keyed by an opaque string ID handed back from StartSession, per spec.md
// §4.3's session/transaction lifecycle contract.
type conn struct {
	url    string
	client *mongo.Client

	sessions map[string]*mongo.Session
	closed   bool
}

func (c *conn) ListDatabases() dbresult.Result[[]string] {
	if c.closed {
		return dbresult.Err[[]string](dberr.New(dberr.CodeHandleClosed, dberr.KindConnectionClosed, "connection is closed"))
	}
	names, err := c.client.ListDatabaseNames(context.Background(), bson.M{})
	if err != nil {
		return dbresult.Err[[]string](backendErr("listDatabases", err))
	}
	return dbresult.Ok(names)
}

func (c *conn) ListCollections(database string) dbresult.Result[[]string] {
	if c.closed {
		return dbresult.Err[[]string](dberr.New(dberr.CodeHandleClosed, dberr.KindConnectionClosed, "connection is closed"))
	}
	names, err := c.client.Database(database).ListCollectionNames(context.Background(), bson.M{})
	if err != nil {
		return dbresult.Err[[]string](backendErr("listCollections", err))
	}
	return dbresult.Ok(names)
}

func (c *conn) CreateCollection(database, name string) dbresult.Result[dbresult.Unit] {
	if err := c.client.Database(database).CreateCollection(context.Background(), name); err != nil {
		return dbresult.Err[dbresult.Unit](backendErr("createCollection", err))
	}
	return dbresult.OkUnit()
}

func (c *conn) DropCollection(database, name string) dbresult.Result[dbresult.Unit] {
	if err := c.client.Database(database).Collection(name).Drop(context.Background()); err != nil {
		return dbresult.Err[dbresult.Unit](backendErr("dropCollection", err))
	}
	return dbresult.OkUnit()
}

func (c *conn) RenameCollection(database, oldName, newName string) dbresult.Result[dbresult.Unit] {
	col := &collection{ctx: context.Background(), c: c.client.Database(database).Collection(oldName)}
	return col.Rename(newName)
}

func (c *conn) Collection(database, name string) dbresult.Result[dbconn.Collection] {
	if c.closed {
		return dbresult.Err[dbconn.Collection](dberr.New(dberr.CodeHandleClosed, dberr.KindConnectionClosed, "connection is closed"))
	}
	return dbresult.Ok[dbconn.Collection](&collection{ctx: context.Background(), c: c.client.Database(database).Collection(name)})
}

func (c *conn) NewDocument() dbconn.Document {
	return &document{m: bson.M{}}
}

func (c *conn) NewDocumentFromJSON(json string) dbresult.Result[dbconn.Document] {
	d, err := newDocumentFromJSON(json)
	if err != nil {
		return dbresult.Err[dbconn.Document](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid document json"))
	}
	return dbresult.Ok[dbconn.Document](d)
}

func (c *conn) RunCommand(database, commandJSON string) dbresult.Result[dbconn.Document] {
	cmd, err := parseFilter(commandJSON)
	if err != nil {
		return dbresult.Err[dbconn.Document](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "invalid command json"))
	}
	var raw bson.Raw
	if err := c.client.Database(database).RunCommand(context.Background(), cmd).Decode(&raw); err != nil {
		return dbresult.Err[dbconn.Document](backendErr("runCommand", err))
	}
	return dbresult.Ok[dbconn.Document](newDocumentFromRaw(raw))
}

func (c *conn) ServerInfo() dbresult.Result[dbconn.Document] {
	return c.RunCommand("admin", `{"buildInfo": 1}`)
}

func (c *conn) ServerStatus() dbresult.Result[dbconn.Document] {
	return c.RunCommand("admin", `{"serverStatus": 1}`)
}

func (c *conn) Ping() dbresult.Result[dbresult.Unit] {
	if c.closed {
		return dbresult.Err[dbresult.Unit](dberr.New(dberr.CodeHandleClosed, dberr.KindConnectionClosed, "connection is closed"))
	}
	if err := c.client.Ping(context.Background(), nil); err != nil {
		return dbresult.Err[dbresult.Unit](backendErr("ping", err))
	}
	return dbresult.OkUnit()
}

func (c *conn) StartSession() dbresult.Result[string] {
	sess, err := c.client.StartSession()
	if err != nil {
		return dbresult.Err[string](backendErr("startSession", err))
	}
	id := sess.ID().String()
	if c.sessions == nil {
		c.sessions = map[string]*mongo.Session{}
	}
	c.sessions[id] = &sess
	return dbresult.Ok(id)
}

func (c *conn) session(id string) (*mongo.Session, *dberr.Error) {
	s, ok := c.sessions[id]
	if !ok {
		return nil, dberr.Newf(dberr.CodeDriverBackendError, dberr.KindBackendError, "unknown session %q", id)
	}
	return s, nil
}

func (c *conn) EndSession(sessionID string) dbresult.Result[dbresult.Unit] {
	s, err := c.session(sessionID)
	if err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	(*s).EndSession(context.Background())
	delete(c.sessions, sessionID)
	return dbresult.OkUnit()
}

func (c *conn) StartTransaction(sessionID string) dbresult.Result[dbresult.Unit] {
	s, err := c.session(sessionID)
	if err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	if startErr := (*s).StartTransaction(); startErr != nil {
		return dbresult.Err[dbresult.Unit](backendErr("startTransaction", startErr))
	}
	return dbresult.OkUnit()
}

func (c *conn) CommitTransaction(sessionID string) dbresult.Result[dbresult.Unit] {
	s, err := c.session(sessionID)
	if err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	if commitErr := (*s).CommitTransaction(context.Background()); commitErr != nil {
		return dbresult.Err[dbresult.Unit](backendErr("commitTransaction", commitErr))
	}
	return dbresult.OkUnit()
}

func (c *conn) AbortTransaction(sessionID string) dbresult.Result[dbresult.Unit] {
	s, err := c.session(sessionID)
	if err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	if abortErr := (*s).AbortTransaction(context.Background()); abortErr != nil {
		return dbresult.Err[dbresult.Unit](backendErr("abortTransaction", abortErr))
	}
	return dbresult.OkUnit()
}

func (c *conn) Close() dbresult.Result[dbresult.Unit] {
	if c.closed {
		return dbresult.OkUnit()
	}
	c.closed = true
	for id, s := range c.sessions {
		s.EndSession(context.Background())
		delete(c.sessions, id)
	}
	if err := c.client.Disconnect(context.Background()); err != nil {
		return dbresult.Err[dbresult.Unit](backendErr("disconnect", err))
	}
	return dbresult.OkUnit()
}

func (c *conn) IsClosed() bool                               { return c.closed }
func (c *conn) ReturnToPool() dbresult.Result[dbresult.Unit] { return c.Close() }
func (c *conn) IsPooled() bool                               { return false }
func (c *conn) GetURL() string                                { return c.url }

var _ dbconn.DocumentConnection = (*conn)(nil)
