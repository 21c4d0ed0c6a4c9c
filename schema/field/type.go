package field

import "strings"

// A Type is a field type tag. The set of types is closed; user input that
// names anything else is rejected before a descriptor is built.
type Type uint8

// List of field types.
const (
	TypeInvalid Type = iota
	TypeString
	TypeText
	TypeInteger
	TypeBigInteger
	TypeSmallInteger
	TypeTinyInteger
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeBoolean
	TypeDateTime
	TypeDate
	TypeTime
	TypeTimestamp
	TypeEnum
	TypeJSON
	TypeBinary
	TypeUUID
	TypeIPAddress
	TypeMACAddress
	TypeForeign
	endTypes
)

// typeInfo holds the generation rules of a single type.
type typeInfo struct {
	name    string // canonical spelling in field specs.
	builder string // migrate.Table method.
	keyword string // validation keyword, empty for none.
	goType  string // Go type used by generated models.
	tsType  string // TypeScript type used by generated interfaces.
	gqlType string // GraphQL scalar.
}

var typeInfos = [...]typeInfo{
	TypeInvalid:      {name: "invalid"},
	TypeString:       {name: "string", builder: "String", goType: "string", tsType: "string", gqlType: "String"},
	TypeText:         {name: "text", builder: "Text", goType: "string", tsType: "string", gqlType: "String"},
	TypeInteger:      {name: "integer", builder: "Integer", keyword: "integer", goType: "int", tsType: "number", gqlType: "Int"},
	TypeBigInteger:   {name: "bigInteger", builder: "BigInteger", keyword: "integer", goType: "int64", tsType: "number", gqlType: "Int"},
	TypeSmallInteger: {name: "smallInteger", builder: "SmallInteger", keyword: "integer", goType: "int16", tsType: "number", gqlType: "Int"},
	TypeTinyInteger:  {name: "tinyInteger", builder: "TinyInteger", keyword: "integer", goType: "int8", tsType: "number", gqlType: "Int"},
	TypeFloat:        {name: "float", builder: "Float", keyword: "numeric", goType: "float32", tsType: "number", gqlType: "Float"},
	TypeDouble:       {name: "double", builder: "Double", keyword: "numeric", goType: "float64", tsType: "number", gqlType: "Float"},
	TypeDecimal:      {name: "decimal", builder: "Decimal", keyword: "numeric", goType: "float64", tsType: "number", gqlType: "Float"},
	TypeBoolean:      {name: "boolean", builder: "Boolean", keyword: "boolean", goType: "bool", tsType: "boolean", gqlType: "Boolean"},
	TypeDateTime:     {name: "dateTime", builder: "DateTime", keyword: "date", goType: "time.Time", tsType: "string", gqlType: "Time"},
	TypeDate:         {name: "date", builder: "Date", keyword: "date", goType: "time.Time", tsType: "string", gqlType: "Time"},
	TypeTime:         {name: "time", builder: "Time", goType: "string", tsType: "string", gqlType: "String"},
	TypeTimestamp:    {name: "timestamp", builder: "Timestamp", keyword: "date", goType: "time.Time", tsType: "string", gqlType: "Time"},
	TypeEnum:         {name: "enum", builder: "Enum", goType: "string", tsType: "string", gqlType: "String"},
	TypeJSON:         {name: "json", builder: "JSON", keyword: "json", goType: "json.RawMessage", tsType: "unknown", gqlType: "JSON"},
	TypeBinary:       {name: "binary", builder: "Binary", goType: "[]byte", tsType: "string", gqlType: "String"},
	TypeUUID:         {name: "uuid", builder: "UUID", keyword: "uuid", goType: "string", tsType: "string", gqlType: "ID"},
	TypeIPAddress:    {name: "ipAddress", builder: "IPAddress", keyword: "ip", goType: "string", tsType: "string", gqlType: "String"},
	TypeMACAddress:   {name: "macAddress", builder: "MACAddress", keyword: "mac_address", goType: "string", tsType: "string", gqlType: "String"},
	TypeForeign:      {name: "foreign", builder: "ForeignID", goType: "int64", tsType: "number", gqlType: "ID"},
}

// lookup maps the lower-cased spelling to the type.
var lookup = func() map[string]Type {
	m := make(map[string]Type, int(endTypes))
	for t := TypeString; t < endTypes; t++ {
		m[strings.ToLower(typeInfos[t].name)] = t
	}
	return m
}()

// Lookup returns the type named by s. Matching is case-insensitive.
func Lookup(s string) (Type, bool) {
	t, ok := lookup[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// Types returns all known types in registry order.
func Types() []Type {
	types := make([]Type, 0, int(endTypes)-1)
	for t := TypeString; t < endTypes; t++ {
		types = append(types, t)
	}
	return types
}

// Names returns the canonical names of all known types.
func Names() []string {
	names := make([]string, 0, int(endTypes)-1)
	for _, t := range Types() {
		names = append(names, t.String())
	}
	return names
}

// Valid reports if t is a known type.
func (t Type) Valid() bool { return t > TypeInvalid && t < endTypes }

// String returns the canonical spelling of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeInfos[t].name
	}
	return typeInfos[TypeInvalid].name
}

// Builder returns the migrate.Table method that declares a column of this type.
func (t Type) Builder() string {
	if t.Valid() {
		return typeInfos[t].builder
	}
	return ""
}

// ValidationKeyword returns the validation rule keyword of the type, or an
// empty string if the type has none.
func (t Type) ValidationKeyword() string {
	if t.Valid() {
		return typeInfos[t].keyword
	}
	return ""
}

// GoType returns the Go type used for the field in generated models.
func (t Type) GoType() string {
	if t.Valid() {
		return typeInfos[t].goType
	}
	return "any"
}

// TSType returns the TypeScript type used in generated interfaces.
func (t Type) TSType() string {
	if t.Valid() {
		return typeInfos[t].tsType
	}
	return "unknown"
}

// GraphQLType returns the GraphQL type name used in generated SDL.
func (t Type) GraphQLType() string {
	if t.Valid() {
		return typeInfos[t].gqlType
	}
	return "String"
}

// IsReference reports if the type links to another record type.
func (t Type) IsReference() bool { return t == TypeForeign }

// Numeric reports if the type is an integer or floating-point type.
func (t Type) Numeric() bool {
	switch t.ValidationKeyword() {
	case "integer", "numeric":
		return true
	}
	return false
}

// CoerceDefault converts the raw default value of a field to the literal
// written to the schema. Boolean truthy and falsy tokens become 1 and 0;
// anything else is returned unchanged.
func CoerceDefault(t Type, raw string) string {
	if t != TypeBoolean {
		return raw
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return "1"
	case "0", "false", "off", "no", "":
		return "0"
	}
	return raw
}

// IsBoolToken reports if raw is one of the textual tokens CoerceDefault
// rewrites for boolean fields.
func IsBoolToken(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes", "0", "false", "off", "no", "":
		return true
	}
	return false
}
