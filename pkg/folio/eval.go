package folio

import "strings"

const foreachItem = "FOREACH_ITEM"

// scope is a chain of variable mappings searched innermost first.
// document is set once a document mapping has been bound.
type scope struct {
	vars     *Variables
	parent   *scope
	document bool
}

func (s *scope) push(vars *Variables) *scope {
	return &scope{vars: vars, parent: s, document: s.document}
}

func (s *scope) pushDocument(doc *Variables) *scope {
	return &scope{vars: doc, parent: s, document: true}
}

func (s *scope) get(name string) (string, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if value, ok := cur.vars.Get(name); ok {
			return value, true
		}
	}
	return "", false
}

// lookup resolves a variable, deriving NAME_FORMATTED from NAME and
// DATE_FORMAT when NAME_FORMATTED is not set itself.
func (s *scope) lookup(name string) (string, bool) {
	if value, ok := s.get(name); ok {
		return value, true
	}
	base := strings.TrimSuffix(name, "_FORMATTED")
	if base == name || base == "" {
		return "", false
	}
	value, ok := s.get(base)
	if !ok {
		return "", false
	}
	format, ok := s.get("DATE_FORMAT")
	if !ok {
		return "", false
	}
	locale, _ := s.get("LOCALE")
	formatted, err := FormatDate(value, format, locale)
	if err != nil {
		return value, true
	}
	return formatted, true
}

func (s *scope) defined(name string) bool {
	_, ok := s.lookup(name)
	return ok
}

// renderer carries the output buffer and the document set of one call
type renderer struct {
	out  strings.Builder
	docs DocumentSet
}

// Render evaluates a template against a single mapping. Output depends only
// on the template and the mapping.
func Render(t *Template, vars *Variables) string {
	return render(t, vars, nil)
}

// RenderListing evaluates a template in listing mode: a foreach outside a
// document iterates docs in order, with each document's mapping shadowing
// globals for the loop body. Inside a document, foreach iterates the words
// of its variable. A nil docs renders like Render.
func RenderListing(t *Template, globals *Variables, docs DocumentSet) string {
	return render(t, globals, docs)
}

func render(t *Template, vars *Variables, docs DocumentSet) string {
	if t == nil {
		return ""
	}
	if vars == nil {
		vars = NewVariables()
	}
	r := &renderer{docs: docs}
	renderStatements(t.Statements, r, &scope{vars: vars})
	return r.out.String()
}

// RenderEntry renders a template for one document. The document mapping
// shadows globals.
func RenderEntry(t *Template, globals, doc *Variables) string {
	if t == nil {
		return ""
	}
	if globals == nil {
		globals = NewVariables()
	}
	r := &renderer{}
	renderStatements(t.Statements, r, (&scope{vars: globals}).pushDocument(doc))
	return r.out.String()
}
