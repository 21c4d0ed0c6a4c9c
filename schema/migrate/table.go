package migrate

import (
	"fmt"
	"strings"

	"github.com/syssam/scaffold/schema/field"
)

// Table is the builder passed to Schema.Create.
type Table struct {
	Name        string
	Columns     []*Column
	HasID       bool
	Timestamped bool
	SoftDelete  bool
}

// NewTable returns an empty table builder.
func NewTable(name string) *Table { return &Table{Name: name} }

// ID adds an auto-incrementing big integer primary key named id.
func (t *Table) ID() { t.HasID = true }

// Timestamps adds nullable created_at and updated_at columns.
func (t *Table) Timestamps() { t.Timestamped = true }

// SoftDeletes adds a nullable deleted_at column.
func (t *Table) SoftDeletes() { t.SoftDelete = true }

// Column adds a column of the given type.
func (t *Table) Column(name string, typ field.Type) *Column {
	c := &Column{Name: name, Type: typ}
	t.Columns = append(t.Columns, c)
	return c
}

// String adds a VARCHAR column. The optional length defaults to 255.
func (t *Table) String(name string, length ...int) *Column {
	c := t.Column(name, field.TypeString)
	if len(length) > 0 {
		c.Size = length[0]
	}
	return c
}

// Text adds a TEXT column.
func (t *Table) Text(name string) *Column { return t.Column(name, field.TypeText) }

// Integer adds an INT column.
func (t *Table) Integer(name string) *Column { return t.Column(name, field.TypeInteger) }

// BigInteger adds a BIGINT column.
func (t *Table) BigInteger(name string) *Column { return t.Column(name, field.TypeBigInteger) }

// SmallInteger adds a SMALLINT column.
func (t *Table) SmallInteger(name string) *Column { return t.Column(name, field.TypeSmallInteger) }

// TinyInteger adds a TINYINT column.
func (t *Table) TinyInteger(name string) *Column { return t.Column(name, field.TypeTinyInteger) }

// Float adds a FLOAT column.
func (t *Table) Float(name string) *Column { return t.Column(name, field.TypeFloat) }

// Double adds a DOUBLE column.
func (t *Table) Double(name string) *Column { return t.Column(name, field.TypeDouble) }

// Decimal adds a DECIMAL column. Precision and scale default to 8 and 2.
func (t *Table) Decimal(name string, ps ...int) *Column {
	c := t.Column(name, field.TypeDecimal)
	if len(ps) > 0 {
		c.Precision = ps[0]
	}
	if len(ps) > 1 {
		c.Scale = ps[1]
	}
	return c
}

// Boolean adds a BOOLEAN column.
func (t *Table) Boolean(name string) *Column { return t.Column(name, field.TypeBoolean) }

// DateTime adds a DATETIME column.
func (t *Table) DateTime(name string) *Column { return t.Column(name, field.TypeDateTime) }

// Date adds a DATE column.
func (t *Table) Date(name string) *Column { return t.Column(name, field.TypeDate) }

// Time adds a TIME column.
func (t *Table) Time(name string) *Column { return t.Column(name, field.TypeTime) }

// Timestamp adds a TIMESTAMP column.
func (t *Table) Timestamp(name string) *Column { return t.Column(name, field.TypeTimestamp) }

// Enum adds an ENUM column restricted to values.
func (t *Table) Enum(name string, values ...string) *Column {
	c := t.Column(name, field.TypeEnum)
	c.Values = values
	return c
}

// JSON adds a JSON column.
func (t *Table) JSON(name string) *Column { return t.Column(name, field.TypeJSON) }

// Binary adds a BLOB column.
func (t *Table) Binary(name string) *Column { return t.Column(name, field.TypeBinary) }

// UUID adds a column holding a UUID string.
func (t *Table) UUID(name string) *Column { return t.Column(name, field.TypeUUID) }

// IPAddress adds a column holding an IPv4 or IPv6 address.
func (t *Table) IPAddress(name string) *Column { return t.Column(name, field.TypeIPAddress) }

// MACAddress adds a column holding a MAC address.
func (t *Table) MACAddress(name string) *Column { return t.Column(name, field.TypeMACAddress) }

// ForeignID adds an unsigned big integer column referencing another table.
// Call Constrained to add the foreign key.
func (t *Table) ForeignID(name string) *Column { return t.Column(name, field.TypeForeign) }

// Column is the builder returned by the Table methods.
type Column struct {
	Name      string
	Type      field.Type
	Size      int
	Precision int
	Scale     int
	Values    []string

	IsNullable bool
	DefaultVal *string
	IsIndex    bool
	IsUnique   bool
	// RefTable is set by Constrained.
	RefTable       string
	IsConstrained  bool
	OnDeleteAction string
	OnUpdateAction string
}

// Nullable allows NULL values in the column.
func (c *Column) Nullable() *Column {
	c.IsNullable = true
	return c
}

// Default sets the default value of the column. Strings are stored as is,
// booleans as 1/0 and other values with their fmt representation.
func (c *Column) Default(v any) *Column {
	var s string
	switch v := v.(type) {
	case string:
		s = v
	case bool:
		s = "0"
		if v {
			s = "1"
		}
	default:
		s = fmt.Sprint(v)
	}
	c.DefaultVal = &s
	return c
}

// Index adds a non-unique index on the column.
func (c *Column) Index() *Column {
	c.IsIndex = true
	return c
}

// Unique adds a unique index on the column.
func (c *Column) Unique() *Column {
	c.IsUnique = true
	return c
}

// Constrained adds a foreign key on the column. The referenced table
// defaults to the plural of the column name without its _id suffix.
func (c *Column) Constrained(table ...string) *Column {
	c.IsConstrained = true
	if len(table) > 0 {
		c.RefTable = table[0]
	}
	return c
}

// OnDelete sets the referential action on delete.
func (c *Column) OnDelete(action string) *Column {
	c.OnDeleteAction = action
	return c
}

// OnUpdate sets the referential action on update.
func (c *Column) OnUpdate(action string) *Column {
	c.OnUpdateAction = action
	return c
}

// Descriptor returns the field descriptor that declares this column.
func (c *Column) Descriptor() field.Descriptor {
	d := field.New(c.Name, c.Type)
	m := d.Modifiers
	if c.IsNullable {
		m.SetFlag(field.Nullable)
	}
	if c.DefaultVal != nil {
		m.Set(field.Default, field.StringValue(*c.DefaultVal))
	}
	if c.IsIndex {
		m.SetFlag(field.Index)
	}
	if c.IsUnique {
		m.SetFlag(field.Unique)
	}
	if c.IsConstrained {
		m.SetFlag(field.Constrained)
		if c.RefTable != "" {
			m.Set(field.On, field.StringValue(c.RefTable))
		}
	}
	if c.OnDeleteAction != "" {
		m.Set(field.OnDelete, field.StringValue(c.OnDeleteAction))
	}
	if c.OnUpdateAction != "" {
		m.Set(field.OnUpdate, field.StringValue(c.OnUpdateAction))
	}
	if len(c.Values) > 0 {
		m.Set(field.Values, field.ListValue(strings.Join(c.Values, ",")))
	}
	return d
}

// Descriptors returns the descriptors of the declared columns, in order.
// The implicit id and timestamp columns are not included; a soft-delete
// table ends with deleted_at.
func (t *Table) Descriptors() []field.Descriptor {
	ds := make([]field.Descriptor, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		ds = append(ds, c.Descriptor())
	}
	if t.SoftDelete {
		d := field.New("deleted_at", field.TypeDateTime)
		d.Modifiers.SetFlag(field.Nullable)
		ds = append(ds, d)
	}
	return ds
}

// Build returns the table a generated migration declares for fields: an id
// primary key, one column per field and timestamps.
func Build(name string, fields []field.Descriptor) *Table {
	t := NewTable(name)
	t.ID()
	for _, d := range fields {
		t.Column(d.Name, d.Type).Apply(d)
	}
	t.Timestamps()
	return t
}

// Apply sets the column options named by the modifiers of d.
func (c *Column) Apply(d field.Descriptor) *Column {
	m := d.Modifiers
	if m.Has(field.Nullable) {
		c.Nullable()
	}
	if v, ok := d.Default(); ok {
		c.Default(v)
	}
	if m.Has(field.Index) {
		c.Index()
	}
	if m.Has(field.Unique) {
		c.Unique()
	}
	if d.Type.IsReference() || m.Has(field.Constrained) {
		if on := m.Str(field.On); on != "" {
			c.Constrained(on)
		} else {
			c.Constrained()
		}
	}
	if v := m.Str(field.OnDelete); v != "" {
		c.OnDelete(v)
	}
	if v := m.Str(field.OnUpdate); v != "" {
		c.OnUpdate(v)
	}
	if d.Type == field.TypeEnum {
		c.Values = d.EnumValues()
	}
	return c
}
