package typescript

import (
	"fmt"
	"strings"

	"github.com/cmsgen/cmsgen/internal/codegen/tsfile"
	"github.com/cmsgen/cmsgen/internal/codegen/writer"
)

// param is one parameter of a generated function. typ is a type expression
// valid in both TypeScript positions and JSDoc.
type param struct {
	name string
	typ  string
	def  string // default value expression, implies optional
}

// fn describes one generated async function; render branches per dialect so
// the body itself stays annotation-free and dialect-neutral.
type fn struct {
	doc    string
	name   string
	params []param
	ret    string // resolved type inside Promise<...>
	body   func(w *writer.Writer)
}

// render writes the function declaration and registers the export.
func (fl *fn) render(f *tsfile.File, d tsfile.Dialect) {
	w := writer.New("  ")

	if d.TypeScript() {
		if fl.doc != "" {
			w.JSDoc(fl.doc)
		}
	} else {
		lines := []string{}
		if fl.doc != "" {
			lines = append(lines, fl.doc, "")
		}
		for _, p := range fl.params {
			if p.def != "" {
				lines = append(lines, fmt.Sprintf("@param {%s} [%s]", p.typ, p.name))
			} else {
				lines = append(lines, fmt.Sprintf("@param {%s} %s", p.typ, p.name))
			}
		}
		lines = append(lines, fmt.Sprintf("@returns {Promise<%s>}", fl.ret))
		w.JSDoc(lines...)
	}

	sig := make([]string, len(fl.params))
	for i, p := range fl.params {
		switch {
		case d.TypeScript() && p.def != "":
			sig[i] = fmt.Sprintf("%s: %s = %s", p.name, p.typ, p.def)
		case d.TypeScript():
			sig[i] = fmt.Sprintf("%s: %s", p.name, p.typ)
		case p.def != "":
			sig[i] = fmt.Sprintf("%s = %s", p.name, p.def)
		default:
			sig[i] = p.name
		}
	}

	ret := ""
	if d.TypeScript() {
		ret = fmt.Sprintf(": Promise<%s>", fl.ret)
	}
	w.Block(fmt.Sprintf("%sasync function %s(%s)%s {", d.Export(), fl.name, strings.Join(sig, ", "), ret), "}", func() { fl.body(w) })

	f.Add(strings.TrimRight(w.String(), "\n"))
	f.Export(fl.name)
}

// objectType renders a named object type: a TS interface or a JSDoc typedef
// depending on dialect.
func objectType(d tsfile.Dialect, name string, fields []field) string {
	if d.TypeScript() {
		w := writer.New("  ")
		w.Block(fmt.Sprintf("export interface %s {", name), "}", func() {
			for _, fl := range fields {
				w.Line(fl.tsLine())
			}
		})
		return strings.TrimRight(w.String(), "\n")
	}
	return jsTypedef(name, "", "", fields)
}

// ifTS picks the TypeScript or JavaScript spelling of one statement.
func ifTS(d tsfile.Dialect, ts, js string) string {
	if d.TypeScript() {
		return ts
	}
	return js
}
