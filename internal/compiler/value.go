package compiler

import (
	"sort"
	"strconv"
	"strings"
)

// ValueKind tags the runtime representation of a While value.
type ValueKind int

const (
	VNull ValueKind = iota
	VBool
	VInt
	VChar
	VString
	VArray
	VRecord
)

// FieldValue is one named slot of a record value.
type FieldValue struct {
	Name  string
	Value Value
}

// Value is the tagged variant produced and consumed by the interpreter.
// Arrays and records carry their payload in a slice; because Go slices
// are reference types, two Value structs copied from one another still
// alias the same backing storage until one of them is explicitly cloned
// (see CloneValue). That aliasing is what lets field/element assignment
// mutate "in place" through a freshly re-evaluated LVal source, while
// every declared cloning boundary (declare, assign, call) still gives
// value semantics overall.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Int    int32
	Char   byte
	Str    string
	Elems  []Value
	Fields []FieldValue
}

func NullValue() Value          { return Value{Kind: VNull} }
func BoolValue(b bool) Value    { return Value{Kind: VBool, Bool: b} }
func IntValue(n int32) Value    { return Value{Kind: VInt, Int: n} }
func CharValue(c byte) Value    { return Value{Kind: VChar, Char: c} }
func StringValue(s string) Value { return Value{Kind: VString, Str: s} }
func ArrayValue(elems []Value) Value { return Value{Kind: VArray, Elems: elems} }
func RecordValue(fields []FieldValue) Value { return Value{Kind: VRecord, Fields: fields} }

// CloneValue produces a deep, independently-mutable copy of v. It is
// called at every assignment, variable declaration, and argument-passing
// boundary per spec.md §4.6, which is what makes structural equality and
// covariant array subtyping sound.
func CloneValue(v Value) Value {
	switch v.Kind {
	case VArray:
		elems := make([]Value, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = CloneValue(e)
		}
		return Value{Kind: VArray, Elems: elems}
	case VRecord:
		fields := make([]FieldValue, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = FieldValue{Name: f.Name, Value: CloneValue(f.Value)}
		}
		return Value{Kind: VRecord, Fields: fields}
	default:
		return v
	}
}

// FieldByName looks up a record field, returning (value, true) if found.
func (v Value) FieldByName(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// SetFieldByName mutates the field in place (the caller must already hold
// a reference into the live value, obtained by re-evaluating an LVal).
func (v *Value) SetFieldByName(name string, val Value) {
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			v.Fields[i].Value = val
			return
		}
	}
}

// ValuesEqual implements the structural equality used by EQ/NEQ.
func ValuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		// Values of different kinds are never equal, so null equals only
		// null. The type checker places no restriction on EQ/NEQ operand
		// types, so this case is reached by e.g. `1 == true`.
		return false
	}
	switch a.Kind {
	case VNull:
		return true
	case VBool:
		return a.Bool == b.Bool
	case VInt:
		return a.Int == b.Int
	case VChar:
		return a.Char == b.Char
	case VString:
		return a.Str == b.Str
	case VArray:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !ValuesEqual(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case VRecord:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for _, f := range a.Fields {
			bv, ok := b.FieldByName(f.Name)
			if !ok || !ValuesEqual(f.Value, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Display renders v the way `print` writes it to standard output,
// per spec.md §6.
func Display(v Value) string {
	var sb strings.Builder
	writeDisplay(&sb, v)
	return sb.String()
}

func writeDisplay(sb *strings.Builder, v Value) {
	switch v.Kind {
	case VNull:
		sb.WriteString("null")
	case VBool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case VInt:
		sb.WriteString(strconv.FormatInt(int64(v.Int), 10))
	case VChar:
		sb.WriteByte(v.Char)
	case VString:
		sb.WriteString(v.Str)
	case VArray:
		sb.WriteByte('[')
		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeDisplay(sb, e)
		}
		sb.WriteByte(']')
	case VRecord:
		names := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			names[i] = f.Name
		}
		sort.Strings(names)
		sb.WriteByte('{')
		for i, name := range names {
			if i > 0 {
				sb.WriteByte(',')
			}
			fv, _ := v.FieldByName(name)
			sb.WriteString(name)
			sb.WriteByte(':')
			writeDisplay(sb, fv)
		}
		sb.WriteByte('}')
	}
}
