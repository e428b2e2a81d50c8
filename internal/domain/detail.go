package domain

import "encoding/json"

// DetailKind enumerates the closed set of value kinds an audit detail may
// carry. Keeping the set closed keeps recorded details inspectable without
// falling back to untyped maps.
type DetailKind string

const (
	DetailString     DetailKind = "string"
	DetailNumber     DetailKind = "number"
	DetailBool       DetailKind = "bool"
	DetailStringList DetailKind = "strings"
	DetailNumberList DetailKind = "numbers"
)

// Detail is a tagged value attached to a DecisionRecord. Exactly one payload
// field is meaningful, selected by Kind.
type Detail struct {
	Kind    DetailKind
	Str     string
	Num     float64
	Bool    bool
	Strings []string
	Numbers []float64
}

func Str(s string) Detail      { return Detail{Kind: DetailString, Str: s} }
func Num(f float64) Detail     { return Detail{Kind: DetailNumber, Num: f} }
func Flag(b bool) Detail       { return Detail{Kind: DetailBool, Bool: b} }
func Strs(s []string) Detail   { return Detail{Kind: DetailStringList, Strings: s} }
func Nums(ns []float64) Detail { return Detail{Kind: DetailNumberList, Numbers: ns} }

// MarshalJSON emits the payload bare, so audit JSON reads like
// {"minutes": 20} rather than a kind/value envelope.
func (d Detail) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DetailNumber:
		return json.Marshal(d.Num)
	case DetailBool:
		return json.Marshal(d.Bool)
	case DetailStringList:
		return json.Marshal(d.Strings)
	case DetailNumberList:
		return json.Marshal(d.Numbers)
	default:
		return json.Marshal(d.Str)
	}
}
