package field

import "fmt"

// A Descriptor describes one column of a record: its name, its type and the
// modifiers attached to it. Descriptors are values; stages that need to
// change one work on a Clone.
type Descriptor struct {
	Name      string
	Type      Type
	Modifiers Modifiers
}

// New returns a descriptor with an empty modifier map.
func New(name string, t Type) Descriptor {
	return Descriptor{Name: name, Type: t, Modifiers: Modifiers{}}
}

// Nullable reports if the nullable flag is set.
func (d Descriptor) Nullable() bool { return d.Modifiers.Has(Nullable) }

// Default returns the raw default value, if one is set.
func (d Descriptor) Default() (string, bool) {
	v, ok := d.Modifiers.Get(Default)
	if !ok || v.IsFlag() {
		return "", false
	}
	return v.Raw, true
}

// DefaultLiteral returns the default value after type coercion.
func (d Descriptor) DefaultLiteral() (string, bool) {
	raw, ok := d.Default()
	if !ok {
		return "", false
	}
	return CoerceDefault(d.Type, raw), true
}

// EnumValues returns the values of an enum field.
func (d Descriptor) EnumValues() []string {
	v, ok := d.Modifiers.Get(Values)
	if !ok {
		return nil
	}
	return v.Items()
}

// Clone returns a deep copy of d.
func (d Descriptor) Clone() Descriptor {
	d.Modifiers = d.Modifiers.Clone()
	return d
}

// Equal reports if both descriptors have the same name, type and modifiers.
func (d Descriptor) Equal(o Descriptor) bool {
	return d.Name == o.Name && d.Type == o.Type && d.Modifiers.Equal(o.Modifiers)
}

// String implements the fmt.Stringer interface.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s:%s", d.Name, d.Type)
}

// Duplicates returns the names that occur more than once in fields, in the
// order of their second occurrence.
func Duplicates(fields []Descriptor) []string {
	seen := make(map[string]int, len(fields))
	var dups []string
	for _, f := range fields {
		seen[f.Name]++
		if seen[f.Name] == 2 {
			dups = append(dups, f.Name)
		}
	}
	return dups
}
