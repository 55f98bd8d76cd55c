// Package sqlexec provides the database capability used by the fixture
// generator: executing DDL/DML statements and running a query whose result is
// reported as column metadata plus rows of kind-tagged native values.
package sqlexec

import (
	"context"
	"fmt"
	"time"
)

// Executor runs statements against a database.
type Executor interface {
	// Execute runs a statement that returns no rows (DDL/DML).
	Execute(ctx context.Context, statement string) error
	// Query runs a statement and fully reads its result.
	Query(ctx context.Context, statement string) (*ResultSet, error)
}

// Column describes a result column.
type Column struct {
	Name string
	// DatabaseType is the driver-reported type name, e.g. "BIGINT" or "VARCHAR".
	// It may be empty when the driver cannot tell (e.g. SQLite expressions).
	DatabaseType string
}

// ResultSet is a fully materialized query result.
type ResultSet struct {
	Columns []Column
	Rows    [][]NativeValue
}

// NativeKind classifies a value as returned by the database driver.
type NativeKind int

const (
	NativeNull NativeKind = iota
	NativeBytes
	NativeSignedInt
	NativeUnsignedInt
	NativeFloat
	NativeBool
	NativeOther
)

func (k NativeKind) String() string {
	switch k {
	case NativeNull:
		return "null"
	case NativeBytes:
		return "bytes"
	case NativeSignedInt:
		return "signed integer"
	case NativeUnsignedInt:
		return "unsigned integer"
	case NativeFloat:
		return "float"
	case NativeBool:
		return "bool"
	case NativeOther:
		return "other"
	default:
		return fmt.Sprintf("NativeKind(%d)", int(k))
	}
}

// NativeValue is a single result cell tagged by kind. Only the field matching
// Kind is meaningful; Raw always keeps the value as scanned.
type NativeValue struct {
	Kind  NativeKind
	Bytes []byte
	Int   int64
	Uint  uint64
	Float float64
	Bool  bool
	Raw   any
}

// TypeName describes the Go type the driver produced, for diagnostics.
func (v NativeValue) TypeName() string {
	if v.Raw == nil {
		return "nil"
	}

	return fmt.Sprintf("%T", v.Raw)
}

// Classify tags a value produced by database/sql scanning into *any.
// Text arrives as either []byte or string depending on the driver; both are
// reported as NativeBytes.
func Classify(raw any) NativeValue {
	switch v := raw.(type) {
	case nil:
		return NativeValue{Kind: NativeNull}
	case []byte:
		b := make([]byte, len(v))
		copy(b, v)

		return NativeValue{Kind: NativeBytes, Bytes: b, Raw: b}
	case string:
		return NativeValue{Kind: NativeBytes, Bytes: []byte(v), Raw: v}
	case int64:
		return NativeValue{Kind: NativeSignedInt, Int: v, Raw: v}
	case int32:
		return NativeValue{Kind: NativeSignedInt, Int: int64(v), Raw: v}
	case int16:
		return NativeValue{Kind: NativeSignedInt, Int: int64(v), Raw: v}
	case int8:
		return NativeValue{Kind: NativeSignedInt, Int: int64(v), Raw: v}
	case int:
		return NativeValue{Kind: NativeSignedInt, Int: int64(v), Raw: v}
	case uint64:
		return NativeValue{Kind: NativeUnsignedInt, Uint: v, Raw: v}
	case uint32:
		return NativeValue{Kind: NativeUnsignedInt, Uint: uint64(v), Raw: v}
	case uint16:
		return NativeValue{Kind: NativeUnsignedInt, Uint: uint64(v), Raw: v}
	case uint8:
		return NativeValue{Kind: NativeUnsignedInt, Uint: uint64(v), Raw: v}
	case uint:
		return NativeValue{Kind: NativeUnsignedInt, Uint: uint64(v), Raw: v}
	case float64:
		return NativeValue{Kind: NativeFloat, Float: v, Raw: v}
	case float32:
		return NativeValue{Kind: NativeFloat, Float: float64(v), Raw: v}
	case bool:
		return NativeValue{Kind: NativeBool, Bool: v, Raw: v}
	case time.Time:
		return NativeValue{Kind: NativeOther, Raw: v}
	default:
		return NativeValue{Kind: NativeOther, Raw: v}
	}
}
