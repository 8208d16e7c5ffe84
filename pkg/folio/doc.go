// Package folio compiles plain-text content documents into static output
// using a small template language.
//
// # Quick Start
//
//	tmpl, err := folio.ParseTemplate(`<h1>{{ TITLE }}</h1>{{ CONTENT | raw }}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc, err := folio.ParseDocument([]byte("TITLE: Hello\n----\nWorld"), "hello.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Print(folio.Render(tmpl, doc))
//
// # Source Documents
//
// A source document is a header of KEY: value lines, a separator line of
// four or more '-' characters and a body:
//
//	TITLE: My first post
//	DATE: 2016-01-02 03:04:05
//	----------
//	Body text, converted to HTML.
//
// Parsing adds FILENAME (the path's last segment without its extension),
// CONTENT (the body as HTML) and RAW_CONTENT (the body as written).
//
// # Template Syntax
//
//	{{ NAME }}                       - Variable, HTML-escaped
//	{{ NAME | raw }}                 - Variable, unescaped
//	{% if NAME %}...{% endif %}      - Defined test
//	{% if not NAME %}...{% endif %}  - Not-defined test
//	{% ifdef NAME %}, {% ifndef NAME %} - Same tests, short form
//	{% if A == "x" %}...{% else %}...{% endif %}
//	                                 - Comparison: == != < <= > >=
//	{% foreach NAME %}...{% endforeach %}
//	                                 - Loop over documents or words of NAME
//	{% block NAME %}...{% endblock %}  - Named section
//
// Comparisons are numeric when both operands are integers and lexical
// otherwise. Unknown variables render as nothing.
//
// # Loading
//
// A Loader reads a list of paths through a ByteProvider, keeps their order
// and sets FILENAME_FIRST, FILENAME_LAST, DATE_FIRST and DATE_LAST on an
// aggregate mapping. Listing pages are rendered with RenderListing, which
// binds each document in turn inside foreach loops.
//
// # Errors
//
// Syntax problems are reported as *ParseError with the line and position of
// the failure:
//
//	Found 'endif' without a matching opening statement.
//	Error occurred near line 3, position 4: {% endif %}
package folio
