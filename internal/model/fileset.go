package model

// Canonical filenames generated code blocks are routed to. Blocks with an
// unrecognized language tag land on "file.<tag>" instead.
const (
	FileIndexHTML = "index.html"
	FileStylesCSS = "styles.css"
	FileScriptJS  = "script.js"
)

// FileSet maps canonical filenames to their text content for the current
// chat session. At most one entry exists per name; later extractions for the
// same slot overwrite earlier ones.
type FileSet map[string]string

func (f FileSet) Clone() FileSet {
	if f == nil {
		return FileSet{}
	}
	out := make(FileSet, len(f))
	for name, content := range f {
		out[name] = content
	}
	return out
}
