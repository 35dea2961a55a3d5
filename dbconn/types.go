// Package dbconn defines the paradigm-aware connection contracts: the
// minimal base contract every backend implements, and the three
// specializations (relational, document, columnar) spec.md §4.3 describes.
package dbconn

import "time"

// Paradigm identifies the storage model family a driver/connection belongs
// to. Named explicitly here (db_types.hpp's DBType in the original source)
// since the registry's dispatch and the pool's generic core both switch on
// it.
type Paradigm int

const (
	Relational Paradigm = iota
	Document
	Columnar
)

func (p Paradigm) String() string {
	switch p {
	case Relational:
		return "relational"
	case Document:
		return "document"
	case Columnar:
		return "columnar"
	default:
		return "unknown"
	}
}

// TransactionIsolationLevel mirrors the relational isolation levels a pool
// can apply to every connection it creates (spec.md §3, PoolState).
type TransactionIsolationLevel int

const (
	IsolationDefault TransactionIsolationLevel = iota
	IsolationReadUncommitted
	IsolationReadCommitted
	IsolationRepeatableRead
	IsolationSerializable
)

// NullType disambiguates SetNull's target SQL type, since a nil Go value
// alone doesn't carry enough information for some backends to pick the
// right wire representation.
type NullType int

const (
	NullTypeInteger NullType = iota
	NullTypeLong
	NullTypeDouble
	NullTypeString
	NullTypeBoolean
	NullTypeDate
	NullTypeTimestamp
	NullTypeBytes
)

// Timestamp is an alias of time.Time, so it is the same type; the binder
// and accessor methods of the contracts take and return time.Time directly.
type Timestamp = time.Time
