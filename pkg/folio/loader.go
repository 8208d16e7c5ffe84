package folio

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const dateWarning = "%s: warning: 'DATE' variable provided for at least one source file, " +
	"but not for all source files. This means that you may get wrong values for " +
	"'DATE_FIRST' and 'DATE_LAST' variables.\n"

// ByteProvider supplies the raw bytes of a document path.
type ByteProvider interface {
	ReadFile(path string) ([]byte, error)
}

// ByteProviderFunc adapts a function, such as os.ReadFile, to ByteProvider
type ByteProviderFunc func(path string) ([]byte, error)

func (f ByteProviderFunc) ReadFile(path string) ([]byte, error) {
	return f(path)
}

// Loader parses a list of source documents and computes the aggregate
// FILENAME_FIRST/LAST and DATE_FIRST/LAST variables.
type Loader struct {
	Files  ByteProvider
	Parser *DocumentParser
	Sink   DiagnosticSink
}

// NewLoader creates a loader reading through files, with the default
// document parser and warnings going to standard error.
func NewLoader(files ByteProvider) *Loader {
	return &Loader{
		Files:  files,
		Parser: NewDocumentParser(),
		Sink:   StderrSink(),
	}
}

// Load parses paths in order. Empty documents are skipped. The first read or
// parse failure aborts the whole load. A nil or empty path list returns nil
// and leaves aggregate untouched.
func (l *Loader) Load(aggregate *Variables, paths []string) (DocumentSet, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	logger := GetLogger()
	docs := make(DocumentSet, 0, len(paths))
	for i, path := range paths {
		doc, err := l.parseFile(path)
		if err != nil {
			return nil, loadError(err, i, len(paths))
		}
		if doc == nil {
			logger.WithField("path", path).Debug("Skipping empty source document")
			continue
		}
		docs = append(docs, doc)
	}

	l.aggregate(aggregate, docs)
	if logger.IsDebugMode() {
		logger.WithFields(Fields{"paths": len(paths), "documents": len(docs)}).Debug("Source documents loaded")
	}
	return docs, nil
}

// LoadParallel behaves like Load but parses up to workers documents at a
// time. Results keep input order; the first failure cancels pending parses.
func (l *Loader) LoadParallel(ctx context.Context, aggregate *Variables, paths []string, workers int) (DocumentSet, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	parsed := make([]*Variables, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := l.parseFile(path)
			if err != nil {
				return loadError(err, i, len(paths))
			}
			parsed[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make(DocumentSet, 0, len(paths))
	for _, doc := range parsed {
		if doc != nil {
			docs = append(docs, doc)
		}
	}
	l.aggregate(aggregate, docs)
	return docs, nil
}

// loadError records which of the requested documents failed.
func loadError(err error, index, total int) error {
	return WithContext(err, "loading source documents", Fields{"index": index, "documents": total})
}

func (l *Loader) parseFile(path string) (*Variables, error) {
	if l.Files == nil {
		return nil, NewDocumentError("read", path, fmt.Errorf("no byte provider configured"))
	}
	src, err := l.Files.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("read", path, err)
	}

	parser := l.Parser
	if parser == nil {
		parser = NewDocumentParser()
	}
	doc, err := parser.Parse(src, path)
	if err != nil {
		return nil, NewDocumentError("parse", path, err)
	}
	return doc, nil
}

// aggregate sets FILENAME_FIRST/LAST from the first and last documents when
// they have a FILENAME, DATE_FIRST/LAST when every document has a DATE, and
// only DATE_LAST plus a warning when some do. In that last case DATE_FIRST is
// removed so a value left by an earlier load cannot survive.
func (l *Loader) aggregate(aggregate *Variables, docs DocumentSet) {
	if len(docs) == 0 || aggregate == nil {
		return
	}

	if name, ok := docs[0].Get("FILENAME"); ok {
		aggregate.Set("FILENAME_FIRST", name)
	}
	if name, ok := docs[len(docs)-1].Get("FILENAME"); ok {
		aggregate.Set("FILENAME_LAST", name)
	}

	dated := 0
	lastDate := ""
	for _, doc := range docs {
		if date := doc.Lookup("DATE"); date != "" {
			dated++
			lastDate = date
		}
	}

	switch {
	case dated == 0:
	case dated == len(docs):
		aggregate.Set("DATE_FIRST", docs[0].Lookup("DATE"))
		aggregate.Set("DATE_LAST", lastDate)
	default:
		l.warn(fmt.Sprintf(dateWarning, GetGlobalConfig().WarningPrefix))
		aggregate.Delete("DATE_FIRST")
		aggregate.Set("DATE_LAST", lastDate)
	}
}

func (l *Loader) warn(text string) {
	sink := l.Sink
	if sink == nil {
		sink = StderrSink()
	}
	sink.Warning(text)
}

// LoadDocuments loads paths with a default Loader reading through files.
func LoadDocuments(files ByteProvider, aggregate *Variables, paths []string) (DocumentSet, error) {
	return NewLoader(files).Load(aggregate, paths)
}
