package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRules(t *testing.T) {
	email := New("email", TypeString)
	email.Modifiers.SetFlag(Nullable)

	age := New("age", TypeInteger)
	age.Modifiers.Set(Min, StringValue("18"))
	age.Modifiers.Set(Max, StringValue("120"))

	status := New("status", TypeEnum)
	status.Modifiers.Set(Values, ListValue("['draft','published']"))

	tests := []struct {
		name     string
		field    Descriptor
		expected string
	}{
		{"nullable string", email, "nullable"},
		{"required string", New("title", TypeString), "required"},
		{"integer bounds", age, "required|integer|min:18|max:120"},
		{"enum values", status, "required|in:draft,published"},
		{"boolean", New("is_active", TypeBoolean), "required|boolean"},
		{"decimal", New("price", TypeDecimal), "required|numeric"},
		{"date", New("born_on", TypeDate), "required|date"},
		{"reference", New("author_id", TypeForeign), "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RuleString(tt.field))
		})
	}
}
