package field

import (
	"maps"
	"slices"
	"strings"
)

// Modifier keywords with a canonical spelling.
const (
	Nullable    = "nullable"
	Default     = "default"
	Index       = "index"
	Unique      = "unique"
	Constrained = "constrained"
	On          = "on"
	OnDelete    = "onDelete"
	OnUpdate    = "onUpdate"
	Min         = "min"
	Max         = "max"
	Values      = "values"
)

// keyOrder is the order known keys are rendered in.
var keyOrder = []string{Nullable, Default, Index, Unique, Constrained, On, OnDelete, OnUpdate, Min, Max, Values}

var canonicalKeys = func() map[string]string {
	m := make(map[string]string, len(keyOrder))
	for _, k := range keyOrder {
		m[strings.ToLower(k)] = k
	}
	return m
}()

// CanonicalKey returns the canonical spelling of a modifier keyword.
// Known keywords keep their documented casing, others are lower-cased.
func CanonicalKey(k string) string {
	lower := strings.ToLower(strings.TrimSpace(k))
	if c, ok := canonicalKeys[lower]; ok {
		return c
	}
	return lower
}

// IsKnownKey reports if k is one of the documented modifier keywords.
func IsKnownKey(k string) bool {
	_, ok := canonicalKeys[strings.ToLower(k)]
	return ok
}

// Kind of a modifier value.
type Kind uint8

// Modifier value kinds.
const (
	KindFlag Kind = iota + 1
	KindString
	KindList
)

// Value is the payload of a modifier: a present flag, a string argument,
// or a raw list argument.
type Value struct {
	Kind Kind
	Raw  string
}

// FlagValue returns a present flag.
func FlagValue() Value { return Value{Kind: KindFlag} }

// StringValue returns a string payload.
func StringValue(s string) Value { return Value{Kind: KindString, Raw: s} }

// ListValue returns a raw list payload.
func ListValue(raw string) Value { return Value{Kind: KindList, Raw: raw} }

// IsFlag reports if v is a bare flag.
func (v Value) IsFlag() bool { return v.Kind == KindFlag }

// Items splits a list payload into its items. Surrounding brackets and
// quotes are dropped, e.g. "['a', 'b']" and "a,b" both yield [a b].
func (v Value) Items() []string {
	raw := strings.NewReplacer("[", "", "]", "", `"`, "", "'", "").Replace(v.Raw)
	var items []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, s)
		}
	}
	return items
}

// Modifiers maps modifier keywords to their values. Keys are stored in
// canonical form; use the methods rather than indexing directly.
type Modifiers map[string]Value

// Set stores v under the canonical form of key, replacing any previous value.
func (m Modifiers) Set(key string, v Value) { m[CanonicalKey(key)] = v }

// SetFlag stores a present flag under key.
func (m Modifiers) SetFlag(key string) { m.Set(key, FlagValue()) }

// Get returns the value stored under key.
func (m Modifiers) Get(key string) (Value, bool) {
	v, ok := m[CanonicalKey(key)]
	return v, ok
}

// Has reports if key is present.
func (m Modifiers) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Str returns the payload stored under key, or an empty string.
func (m Modifiers) Str(key string) string {
	v, _ := m.Get(key)
	return v.Raw
}

// Keys returns the keys in rendering order: known keywords first in
// their fixed order, then the rest sorted.
func (m Modifiers) Keys() []string {
	keys := make([]string, 0, len(m))
	for _, k := range keyOrder {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range m {
		if !IsKnownKey(k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

// Clone returns a copy of m. The copy is never nil.
func (m Modifiers) Clone() Modifiers {
	c := make(Modifiers, len(m))
	maps.Copy(c, m)
	return c
}

// Equal reports if both maps hold the same keys and values.
// A nil map equals an empty one.
func (m Modifiers) Equal(o Modifiers) bool { return maps.Equal(m, o) }
