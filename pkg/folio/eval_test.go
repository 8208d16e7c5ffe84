package folio

import "testing"

func mustParse(t *testing.T, src string) *Template {
	t.Helper()
	tmpl, err := ParseTemplate(src)
	if err != nil {
		t.Fatalf("ParseTemplate(%q) error = %v", src, err)
	}
	return tmpl
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     *Variables
		want     string
	}{
		{
			name:     "variable",
			template: "Hello {{ NAME }}!",
			vars:     VariablesFrom("NAME", "World"),
			want:     "Hello World!",
		},
		{
			name:     "missing variable renders empty",
			template: "[{{ MISSING }}]",
			vars:     NewVariables(),
			want:     "[]",
		},
		{
			name:     "escaped by default",
			template: "{{ A }}",
			vars:     VariablesFrom("A", `<b>"x" & 'y'</b>`),
			want:     "&lt;b&gt;&#34;x&#34; &amp; &#39;y&#39;&lt;/b&gt;",
		},
		{
			name:     "raw output",
			template: "{{ CONTENT | raw }}",
			vars:     VariablesFrom("CONTENT", "<p>bola</p>\n"),
			want:     "<p>bola</p>\n",
		},
		{
			name:     "defined is key presence not truthiness",
			template: "{% if EMPTY %}yes{% else %}no{% endif %}",
			vars:     VariablesFrom("EMPTY", ""),
			want:     "yes",
		},
		{
			name:     "not defined",
			template: "{% if not TITLE %}untitled{% endif %}",
			vars:     NewVariables(),
			want:     "untitled",
		},
		{
			name:     "ifndef with defined key",
			template: "{% ifndef TITLE %}untitled{% else %}{{ TITLE }}{% endif %}",
			vars:     VariablesFrom("TITLE", "t"),
			want:     "t",
		},
		{
			name:     "string equality",
			template: `{% if LANG == "pt" %}Olá{% else %}Hello{% endif %}`,
			vars:     VariablesFrom("LANG", "pt"),
			want:     "Olá",
		},
		{
			name:     "numeric comparison when both are integers",
			template: "{% if A < B %}less{% else %}not less{% endif %}",
			vars:     VariablesFrom("A", "9", "B", "10"),
			want:     "less",
		},
		{
			name:     "lexical comparison otherwise",
			template: "{% if A < B %}less{% else %}not less{% endif %}",
			vars:     VariablesFrom("A", "9", "B", "10a"),
			want:     "not less",
		},
		{
			name:     "numeric equality ignores leading zeros",
			template: "{% if A == 7 %}seven{% endif %}",
			vars:     VariablesFrom("A", "007"),
			want:     "seven",
		},
		{
			name:     "greater equal and not equal",
			template: "{% if A >= 2 %}a{% endif %}{% if A != 3 %}b{% endif %}{% if A <= 1 %}c{% endif %}",
			vars:     VariablesFrom("A", "2"),
			want:     "ab",
		},
		{
			name:     "undefined operand compares as empty string",
			template: `{% if MISSING == "" %}empty{% endif %}`,
			vars:     NewVariables(),
			want:     "empty",
		},
		{
			name:     "foreach over words of a variable",
			template: "{% foreach TAGS %}[{{ FOREACH_ITEM }}]{% endforeach %}",
			vars:     VariablesFrom("TAGS", "go  blog\ttemplates"),
			want:     "[go][blog][templates]",
		},
		{
			name:     "foreach without documents renders nothing",
			template: "a{% foreach POSTS %}x{% endforeach %}b",
			vars:     NewVariables(),
			want:     "ab",
		},
		{
			name:     "blocks render their body",
			template: "{% block entry %}E{% endblock %}{% block listing %}L{% endblock %}",
			vars:     NewVariables(),
			want:     "EL",
		},
		{
			name:     "formatted date",
			template: "{{ DATE_FORMATTED }}",
			vars:     VariablesFrom("DATE", "2015-01-02 03:04:05", "DATE_FORMAT", "%Y/%m/%d %H:%M"),
			want:     "2015/01/02 03:04",
		},
		{
			name:     "explicit formatted value wins",
			template: "{{ DATE_FORMATTED }}",
			vars:     VariablesFrom("DATE", "2015-01-02", "DATE_FORMAT", "%Y", "DATE_FORMATTED", "custom"),
			want:     "custom",
		},
		{
			name:     "formatted without format is undefined",
			template: "{% if DATE_FORMATTED %}x{% else %}y{% endif %}",
			vars:     VariablesFrom("DATE", "2015-01-02"),
			want:     "y",
		},
		{
			name:     "unparseable date falls back to raw value",
			template: "{{ DATE_FORMATTED }}",
			vars:     VariablesFrom("DATE", "yesterday", "DATE_FORMAT", "%Y"),
			want:     "yesterday",
		},
		{
			name:     "nil mapping",
			template: "[{{ A }}]",
			vars:     nil,
			want:     "[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := mustParse(t, tt.template)
			if got := Render(tmpl, tt.vars); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderDeterministic(t *testing.T) {
	tmpl := mustParse(t, "{% if A %}{{ A }}{% endif %}{% foreach TAGS %}{{ FOREACH_ITEM }},{% endforeach %}{{ DATE_FORMATTED }}")
	vars := VariablesFrom("A", "<x>", "TAGS", "a b c", "DATE", "2020-05-06", "DATE_FORMAT", "%d.%m.%Y")

	first := Render(tmpl, vars)
	for i := 0; i < 10; i++ {
		if got := Render(tmpl, vars); got != first {
			t.Fatalf("Render() run %d = %q, first run = %q", i, got, first)
		}
	}
	if first != "&lt;x&gt;a,b,c,06.05.2020" {
		t.Errorf("Render() = %q", first)
	}
}

func TestRenderListing(t *testing.T) {
	tmpl := mustParse(t, "<h1>{{ SITE_TITLE }}</h1>\n"+
		"{% foreach POSTS %}<a href=\"{{ FILENAME }}\">{{ TITLE }}</a> by {{ AUTHOR }}\n{% endforeach %}"+
		"{{ FILENAME_FIRST }}..{{ FILENAME_LAST }}")

	globals := VariablesFrom("SITE_TITLE", "Blog", "AUTHOR", "Site Owner",
		"FILENAME_FIRST", "one", "FILENAME_LAST", "two")
	docs := DocumentSet{
		VariablesFrom("FILENAME", "one", "TITLE", "First"),
		VariablesFrom("FILENAME", "two", "TITLE", "Second & last", "AUTHOR", "Guest"),
	}

	want := "<h1>Blog</h1>\n" +
		"<a href=\"one\">First</a> by Site Owner\n" +
		"<a href=\"two\">Second &amp; last</a> by Guest\n" +
		"one..two"
	if got := RenderListing(tmpl, globals, docs); got != want {
		t.Errorf("RenderListing() = %q, want %q", got, want)
	}

	// the outer mapping is restored after the loop
	tmpl = mustParse(t, "{% foreach POSTS %}{{ TITLE }}{% endforeach %}|{{ TITLE }}")
	if got := RenderListing(tmpl, VariablesFrom("TITLE", "outer"), docs); got != "FirstSecond &amp; last|outer" {
		t.Errorf("RenderListing() = %q", got)
	}
}

func TestRenderListingNestedTags(t *testing.T) {
	tmpl := mustParse(t, "{% foreach POSTS %}{{ FILENAME }}:{% foreach TAGS %}<{{ FOREACH_ITEM }}>{% endforeach %};{% endforeach %}")
	docs := DocumentSet{
		VariablesFrom("FILENAME", "a", "TAGS", "x y"),
		VariablesFrom("FILENAME", "b"),
	}
	if got := RenderListing(tmpl, NewVariables(), docs); got != "a:<x><y>;b:;" {
		t.Errorf("RenderListing() = %q", got)
	}
}

func TestRenderListingPrefersDocuments(t *testing.T) {
	tmpl := mustParse(t, "{% foreach POSTS %}[{{ FILENAME }}]{% endforeach %}")
	globals := VariablesFrom("POSTS", "a b")
	docs := DocumentSet{VariablesFrom("FILENAME", "only")}

	if got := RenderListing(tmpl, globals, docs); got != "[only]" {
		t.Errorf("RenderListing() = %q, want [only]", got)
	}

	// without a document set the variable's words are iterated
	tmpl = mustParse(t, "{% foreach POSTS %}[{{ FOREACH_ITEM }}]{% endforeach %}")
	if got := RenderListing(tmpl, globals, nil); got != "[a][b]" {
		t.Errorf("RenderListing(nil docs) = %q, want [a][b]", got)
	}
}

func TestRenderEntry(t *testing.T) {
	tmpl := mustParse(t, "{{ SITE_TITLE }}: {{ TITLE }}")
	got := RenderEntry(tmpl, VariablesFrom("SITE_TITLE", "Blog", "TITLE", "global"), VariablesFrom("TITLE", "Post"))
	if got != "Blog: Post" {
		t.Errorf("RenderEntry() = %q", got)
	}
}

func TestRenderNilTemplate(t *testing.T) {
	if got := Render(nil, NewVariables()); got != "" {
		t.Errorf("Render(nil) = %q", got)
	}
}
