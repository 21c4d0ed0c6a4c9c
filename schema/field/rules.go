package field

import "strings"

// Rules derives the validation rules of a field in the order they are
// written to generated handlers, e.g. [required integer min:18].
func Rules(d Descriptor) []string {
	rules := make([]string, 0, 4)
	if d.Nullable() {
		rules = append(rules, "nullable")
	} else {
		rules = append(rules, "required")
	}
	if kw := d.Type.ValidationKeyword(); kw != "" {
		rules = append(rules, kw)
	}
	if v, ok := d.Modifiers.Get(Min); ok && !v.IsFlag() {
		rules = append(rules, "min:"+v.Raw)
	}
	if v, ok := d.Modifiers.Get(Max); ok && !v.IsFlag() {
		rules = append(rules, "max:"+v.Raw)
	}
	if d.Type == TypeEnum {
		if values := d.EnumValues(); len(values) > 0 {
			rules = append(rules, "in:"+strings.Join(values, ","))
		}
	}
	return rules
}

// RuleString joins the rules of a field with '|'.
func RuleString(d Descriptor) string {
	return strings.Join(Rules(d), "|")
}
