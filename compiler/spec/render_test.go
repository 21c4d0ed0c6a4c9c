package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold/schema/field"
)

func TestRender(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"age:integer:default(18)", "age:integer:default(18)"},
		{"views:BIGINTEGER : index : nullable", "views:bigInteger:nullable:index"},
		{"author_id:foreign:ondelete('cascade'):on(writers)", "author_id:foreign:on(writers):onDelete(cascade)"},
		{"status:enum:values(['a','b']):default(a)", "status:enum:default(a):values(['a','b'])"},
		{"slug:string:zeta:alpha:unique", "slug:string:unique:alpha:zeta"},
		{"title:string, body:text:nullable", "title:string,body:text:nullable"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(MustParse(tt.input)))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"age:integer:default(18)",
		"email:string:nullable:unique",
		"is_active:boolean:default(true)",
		"author_id:foreign",
		"author_id:foreign:on(writers):onDelete(set null):onUpdate(restrict)",
		"title:string, body:text:nullable, author_id:foreign:onDelete(cascade)",
		"created_at:timestamp:default(now())",
		"status:enum:values(draft,published):default(draft)",
		"price:decimal:min(0):max(100):index",
		"label:string:default():custom(x)",
		"name:string,name:text",
		`a:string:default("'x'")`,
		`a:string:default(" ")`,
		`a:string:default("  padded ")`,
		`a:string:default('"quoted')`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := Parse(input)
			require.False(t, first.HasErrors())
			canonical := Render(first.Fields)
			second := Parse(canonical)
			require.False(t, second.HasErrors())
			require.Len(t, second.Fields, len(first.Fields))
			for i := range first.Fields {
				assert.True(t, first.Fields[i].Equal(second.Fields[i]), "%s != %s", RenderField(first.Fields[i]), RenderField(second.Fields[i]))
			}
			assert.Equal(t, canonical, Render(second.Fields), "rendering is stable")
		})
	}
}

func TestRenderQuotesPayloads(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"plain", "a:string:default(plain)"},
		{"", "a:string:default()"},
		{" ", `a:string:default(" ")`},
		{"'x'", `a:string:default("'x'")`},
		{`"x`, `a:string:default(""x")`},
		{"two words", "a:string:default(two words)"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			d := field.New("a", field.TypeString)
			d.Modifiers.Set(field.Default, field.StringValue(tt.raw))
			rendered := RenderField(d)
			assert.Equal(t, tt.expected, rendered)

			back, err := ParseField(rendered)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, back.Modifiers.Str(field.Default))
		})
	}
}

func FuzzRoundTrip(f *testing.F) {
	seeds := []string{
		"age:integer:default(18)",
		"title:string, body:text:nullable, author_id:foreign:onDelete(cascade)",
		"status:enum:values(draft,published):default(draft)",
		"created_at:timestamp:default(now())",
		`a:string:default("'x'")`,
		`a:string:default(" ")`,
		`a:string:default('"')`,
		"a:string:default(x, b:text, c:integer",
		"label:string:default():custom(x)",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, input string) {
		first := Parse(input)
		canonical := Render(first.Fields)
		second := Parse(canonical)
		require.False(t, second.HasErrors(), "%q rendered as %q", input, canonical)
		require.Len(t, second.Fields, len(first.Fields))
		for i := range first.Fields {
			require.True(t, first.Fields[i].Equal(second.Fields[i]), "%q rendered as %q", input, canonical)
		}
	})
}

func TestRenderField(t *testing.T) {
	d := field.New("deleted_at", field.TypeDateTime)
	d.Modifiers.SetFlag(field.Nullable)
	assert.Equal(t, "deleted_at:dateTime:nullable", RenderField(d))
	assert.Empty(t, Render(nil))
}
