package gen

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/syssam/scaffold/compiler/naming"
	"github.com/syssam/scaffold/schema/field"
)

var tsTemplate = template.Must(template.New("typescript").Funcs(template.FuncMap{
	"humanize": naming.Humanize,
	"tstype":   tsType,
}).Parse(`{{ with .Header }}// {{ . }}

{{ end }}/** {{ humanize .Name }} record of the {{ .Table }} table. */
export interface {{ .Name }} {
  id: number;
{{- range .Fields }}
  {{ .Name }}{{ if .Nullable }}?{{ end }}: {{ tstype . }};
{{- end }}
  created_at?: string | null;
  updated_at?: string | null;
}

export type Create{{ .Name }}Input = Omit<{{ .Name }}, 'id' | 'created_at' | 'updated_at'>;

export type Update{{ .Name }}Input = Partial<Create{{ .Name }}Input>;
`))

func typescriptFile(record string) string {
	return naming.Snake(naming.Pascal(record)) + ".ts"
}

// tsType returns the TypeScript type of a field. Enums become unions of
// their values.
func tsType(fd Field) string {
	typ := fd.Type.TSType()
	if fd.Type == field.TypeEnum {
		values := fd.EnumValues()
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
		}
		typ = strings.Join(quoted, " | ")
	}
	if fd.Nullable() {
		typ += " | null"
	}
	return typ
}

// genTypeScript generates the TypeScript types of the record.
func genTypeScript(h *helper) ([]byte, error) {
	var buf bytes.Buffer
	err := tsTemplate.Execute(&buf, struct {
		*Record
		Header string
	}{h.record, h.cfg.Header})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
