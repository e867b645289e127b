package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/newtron-network/vlanconf/pkg/util"
	"github.com/newtron-network/vlanconf/pkg/vlan"
)

// Data is the value a template executes against.
//
//	interface {{ .Interface }}
//	 switchport access vlan {{ .Vlan }}
type Data struct {
	Interface string
	Vlan      string
	Device    string
}

// Template is a parsed per-interface configuration template.
type Template struct {
	name string
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"trim":  strings.TrimSpace,
	"short": util.ShortenInterfaceName,
}

// LoadTemplate reads and parses a template file.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	return ParseTemplate(filepath.Base(path), string(data))
}

// ParseTemplate parses template text. Unknown fields are an error at
// execution time rather than rendering as "<no value>".
func ParseTemplate(name, text string) (*Template, error) {
	t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	return &Template{name: name, tmpl: t}, nil
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Execute renders the template for one interface. A single trailing
// newline, as left by most editors, is dropped so fragments join cleanly.
func (t *Template) Execute(d Data) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	return strings.TrimSuffix(out, "\r"), nil
}

// Func binds the template to a device, producing the render function used
// for that device's interfaces.
func (t *Template) Func(device string) Func {
	return func(label string, v vlan.Value) (string, error) {
		return t.Execute(Data{Interface: label, Vlan: v.String(), Device: device})
	}
}
