// Package compose combines the session file set into a single renderable
// HTML document, either for the live preview or as the standalone export
// artifact.
package compose

import (
	"strings"
	"time"

	"genweb/internal/model"
)

// placeholderDoc is returned by Preview when nothing has been generated yet.
const placeholderDoc = `<html>
<body style="font-family: sans-serif; color: #333; display: flex; justify-content: center; align-items: center; height: 100vh; text-align: center; padding: 20px;">
    <div>
        <h2>No content to preview yet</h2>
        <p>Ask the AI to create something for you in the chat view!</p>
    </div>
</body>
</html>`

// boilerplateDoc hosts CSS/JS-only file sets that arrived without an HTML
// shell of their own.
const boilerplateDoc = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Generated Preview</title>
</head>
<body>
    <div id="app"></div>
</body>
</html>`

// Preview combines the file set into one document for rendering. CSS goes
// into a style block before </head>, JS into a script block before </body>.
// When the shell lacks the anchor tag, the corresponding block is silently
// dropped.
func Preview(files model.FileSet) string {
	if len(files) == 0 {
		return placeholderDoc
	}

	html := shellFor(files)
	if css := files[model.FileStylesCSS]; css != "" {
		html, _ = insertBefore(html, "</head>", "<style>"+css+"</style>")
	}
	if js := files[model.FileScriptJS]; js != "" {
		html, _ = insertBefore(html, "</body>", "<script>"+js+"</script>")
	}
	return html
}

// Standalone builds the single-file export artifact: any inline style/script
// blocks already present in the HTML shell are stripped before the current
// CSS/JS are re-inserted, so exporting after edits never duplicates blocks.
// A generation comment is placed immediately before the opening html tag.
func Standalone(files model.FileSet, now time.Time) string {
	if len(files) == 0 {
		return ""
	}

	html := shellFor(files)
	if css := files[model.FileStylesCSS]; css != "" {
		html = stripInline(html, "<style>", "</style>")
		html, _ = insertBefore(html, "</head>", "<style>\n"+css+"\n</style>\n")
	}
	if js := files[model.FileScriptJS]; js != "" {
		html = stripInline(html, "<script>", "</script>")
		html, _ = insertBefore(html, "</body>", "<script>\n"+js+"\n</script>\n")
	}

	comment := "\n<!-- Generated by GenWeb AI on " + now.Format("2006-01-02 15:04:05") + " -->\n"
	html, _ = insertBefore(html, "<html", comment)
	return html
}

// ExportFilename names the single-file download for a project.
func ExportFilename(projectName string) string {
	name := strings.TrimSpace(projectName)
	if name == "" {
		name = "complete-project"
	}
	return name + ".html"
}

// shellFor picks the HTML shell: index.html when present, otherwise the
// boilerplate (only reachable when CSS or JS exists).
func shellFor(files model.FileSet) string {
	if html, ok := files[model.FileIndexHTML]; ok {
		return html
	}
	return boilerplateDoc
}

// insertBefore splices insert immediately before the first occurrence of
// anchor. It reports whether the anchor was found; on a miss the document is
// returned unchanged.
func insertBefore(doc, anchor, insert string) (string, bool) {
	idx := strings.Index(doc, anchor)
	if idx < 0 {
		return doc, false
	}
	return doc[:idx] + insert + doc[idx:], true
}

// stripInline removes every openTag..closeTag span from doc, non-greedy per
// span. Spans left unclosed are kept as-is.
func stripInline(doc, openTag, closeTag string) string {
	for {
		start := strings.Index(doc, openTag)
		if start < 0 {
			return doc
		}
		end := strings.Index(doc[start+len(openTag):], closeTag)
		if end < 0 {
			return doc
		}
		end += start + len(openTag) + len(closeTag)
		doc = doc[:start] + doc[end:]
	}
}
