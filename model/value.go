package model

import (
	"strconv"
)

// Offset is a position in a piece measured in quarter lengths.
type Offset = float64

type valueKind uint8

const (
	kindMissing valueKind = iota
	kindText
	kindNumber
	kindObject
)

// Value is one cell of a Table. The zero Value is missing.
type Value struct {
	kind valueKind
	text string
	num  float64
	obj  *Event
}

// NA marks a cell where a voice has no event.
var NA = Value{}

func Text(s string) Value {
	return Value{kind: kindText, text: s}
}

func Number(f float64) Value {
	return Value{kind: kindNumber, num: f}
}

// Object wraps a score event. A nil event is missing.
func Object(e *Event) Value {
	if e == nil {
		return NA
	}
	return Value{kind: kindObject, obj: e}
}

func (v Value) IsNA() bool {
	return v.kind == kindMissing
}

func (v Value) IsText() bool {
	return v.kind == kindText
}

func (v Value) IsNumber() bool {
	return v.kind == kindNumber
}

// Str returns the text payload, or "" for any other kind.
func (v Value) Str() string {
	return v.text
}

// Float returns the numeric payload and whether the value holds one.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == kindNumber
}

// Event returns the wrapped score event, or nil.
func (v Value) Event() *Event {
	return v.obj
}

func (v Value) String() string {
	switch v.kind {
	case kindText:
		return v.text
	case kindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case kindObject:
		return v.obj.String()
	default:
		return "NaN"
	}
}
