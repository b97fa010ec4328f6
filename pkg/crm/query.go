package crm

import (
	"strings"

	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// Op is a comparison operator supported by the store's query language.
type Op string

const (
	// OpEq is exact equality.
	OpEq Op = "eq"
	// OpIEq is case-insensitive equality.
	OpIEq Op = "ieq"
	// OpPrefix is a case-insensitive starts-with test.
	OpPrefix Op = "prefix"
	// OpPhoneEq is equality of normalized phone numbers.
	OpPhoneEq Op = "phone_eq"
)

// Condition compares one field, addressed by its external key, to a value.
type Condition struct {
	Field string `json:"field"`
	Op    Op     `json:"op"`
	Value string `json:"value"`
}

func Eq(field, value string) Condition      { return Condition{Field: field, Op: OpEq, Value: value} }
func IEq(field, value string) Condition     { return Condition{Field: field, Op: OpIEq, Value: value} }
func Prefix(field, value string) Condition  { return Condition{Field: field, Op: OpPrefix, Value: value} }
func PhoneEq(field, value string) Condition { return Condition{Field: field, Op: OpPhoneEq, Value: value} }

// Query is a disjunction of condition groups: a record matches when every
// condition of at least one group holds. Groups optionally restricts results
// to members belonging to at least one of the given groups.
type Query struct {
	Any    [][]Condition `json:"any"`
	Groups []string      `json:"groups,omitempty"`
}

// Where starts a query with one condition group.
func Where(conds ...Condition) Query {
	return Query{Any: [][]Condition{conds}}
}

// Or adds an alternative condition group.
func (q Query) Or(conds ...Condition) Query {
	q.Any = append(q.Any, conds)
	return q
}

// InGroups restricts the query to the given scope groups.
func (q Query) InGroups(groups ...string) Query {
	q.Groups = append(q.Groups, groups...)
	return q
}

// Matches evaluates the condition against a stored field value. Used by the
// in-memory store; the HTTP store evaluates server-side.
func (c Condition) Matches(stored string) bool {
	switch c.Op {
	case OpEq:
		return stored == c.Value
	case OpIEq:
		return strings.EqualFold(stored, c.Value)
	case OpPrefix:
		return strings.HasPrefix(strings.ToLower(stored), strings.ToLower(c.Value))
	case OpPhoneEq:
		return normalizers.PhoneEqual(stored, c.Value)
	default:
		return false
	}
}
