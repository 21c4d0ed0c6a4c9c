package gen

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/scaffold/compiler/naming"
	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/schema/field"
)

// graphqlPrelude declares the scalars and root types generated schema
// files extend. It is only used to validate them.
const graphqlPrelude = `scalar Time
scalar JSON

type Query {
  ping: Boolean
}

type Mutation {
  ping: Boolean
}
`

func graphqlFile(record string) string {
	return naming.Snake(naming.Pascal(record)) + ".graphql"
}

// graphqlEnum returns the enum type and values of an enum field, or false
// if a value is not a valid GraphQL name.
func graphqlEnum(r *Record, fd Field) (string, []string, bool) {
	values := fd.EnumValues()
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = strings.ToUpper(naming.Snake(v))
		if !dialect.IsValidIdentifier(names[i]) {
			return "", nil, false
		}
	}
	return r.Name + fd.GoName, names, true
}

func graphqlType(r *Record, fd Field) string {
	if fd.Type == field.TypeEnum {
		if name, _, ok := graphqlEnum(r, fd); ok {
			return name
		}
	}
	return fd.Type.GraphQLType()
}

// genGraphQL generates the GraphQL schema of the record and validates it.
func genGraphQL(h *helper) ([]byte, error) {
	r := h.record
	var b strings.Builder
	fmt.Fprintf(&b, "\"\"\"\n%s records of the %s table.\n\"\"\"\n", naming.Humanize(r.Name), r.Table)
	fmt.Fprintf(&b, "type %s {\n  id: ID!\n", r.Name)
	for _, fd := range r.Fields {
		typ := graphqlType(r, fd)
		if !fd.Nullable() {
			typ += "!"
		}
		fmt.Fprintf(&b, "  %s: %s\n", fd.Camel, typ)
	}
	b.WriteString("  createdAt: Time\n  updatedAt: Time\n}\n")

	for _, fd := range r.Fields {
		if fd.Type != field.TypeEnum {
			continue
		}
		if name, values, ok := graphqlEnum(r, fd); ok {
			fmt.Fprintf(&b, "\nenum %s {\n", name)
			for _, v := range values {
				fmt.Fprintf(&b, "  %s\n", v)
			}
			b.WriteString("}\n")
		}
	}

	fmt.Fprintf(&b, "\ninput Create%sInput {\n", r.Name)
	for _, fd := range r.Fields {
		typ := graphqlType(r, fd)
		if _, ok := fd.Default(); !fd.Nullable() && !ok {
			typ += "!"
		}
		fmt.Fprintf(&b, "  %s: %s\n", fd.Camel, typ)
	}
	b.WriteString("}\n")

	fmt.Fprintf(&b, "\ninput Update%sInput {\n", r.Name)
	for _, fd := range r.Fields {
		fmt.Fprintf(&b, "  %s: %s\n", fd.Camel, graphqlType(r, fd))
	}
	b.WriteString("}\n")

	one, many := r.Var(), r.Plural()
	if one == many {
		many += "List"
	}
	fmt.Fprintf(&b, "\nextend type Query {\n  %s: [%s!]!\n  %s(id: ID!): %s\n}\n", many, r.Name, one, r.Name)
	fmt.Fprintf(&b, "\nextend type Mutation {\n")
	fmt.Fprintf(&b, "  create%s(input: Create%sInput!): %s!\n", r.Name, r.Name, r.Name)
	fmt.Fprintf(&b, "  update%s(id: ID!, input: Update%sInput!): %s!\n", r.Name, r.Name, r.Name)
	fmt.Fprintf(&b, "  delete%s(id: ID!): Boolean!\n}\n", r.Name)

	sdl := b.String()
	if _, err := gqlparser.LoadSchema(
		&ast.Source{Name: "prelude.graphql", Input: graphqlPrelude},
		&ast.Source{Name: graphqlFile(r.Name), Input: sdl},
	); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return []byte(sdl), nil
}
