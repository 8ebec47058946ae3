package compose

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"genweb/internal/model"
)

func TestPreviewEmptySet(t *testing.T) {
	t.Parallel()

	html := Preview(model.FileSet{})
	assert.Contains(t, html, "No content to preview yet")
	assert.Equal(t, html, Preview(nil))
}

func TestPreviewCSSOnlySynthesizesShell(t *testing.T) {
	t.Parallel()

	html := Preview(model.FileSet{"styles.css": "body{color:red}"})

	assert.Contains(t, html, `<div id="app">`)
	styleIdx := strings.Index(html, "<style>body{color:red}</style>")
	headIdx := strings.Index(html, "</head>")
	assert.True(t, styleIdx >= 0)
	assert.True(t, styleIdx < headIdx, "style block must sit before </head>")
}

func TestPreviewJSInjectedBeforeBody(t *testing.T) {
	t.Parallel()

	files := model.FileSet{
		"index.html": "<html><head></head><body><p>x</p></body></html>",
		"script.js":  "let a = 1;",
	}
	html := Preview(files)

	scriptIdx := strings.Index(html, "<script>let a = 1;</script>")
	bodyIdx := strings.Index(html, "</body>")
	assert.True(t, scriptIdx >= 0)
	assert.True(t, scriptIdx < bodyIdx)
}

func TestPreviewMissingAnchorsDropsBlocks(t *testing.T) {
	t.Parallel()

	files := model.FileSet{
		"index.html": "<p>fragment without head or body</p>",
		"styles.css": "p{margin:0}",
		"script.js":  "alert(1);",
	}
	html := Preview(files)

	assert.NotContains(t, html, "<style>")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "fragment without head or body")
}

func TestPreviewKeepsShellUntouchedWithoutCSSJS(t *testing.T) {
	t.Parallel()

	shell := "<html><head></head><body>site</body></html>"
	assert.Equal(t, shell, Preview(model.FileSet{"index.html": shell}))
}

func TestStandaloneStripThenReinsert(t *testing.T) {
	t.Parallel()

	files := model.FileSet{
		"index.html": "<html><head><style>old{}</style></head><body><script>old()</script></body></html>",
		"styles.css": "new{}",
		"script.js":  "fresh()",
	}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	html := Standalone(files, now)

	assert.Equal(t, 1, strings.Count(html, "<style>"))
	assert.Equal(t, 1, strings.Count(html, "<script>"))
	assert.NotContains(t, html, "old{}")
	assert.NotContains(t, html, "old()")
	assert.Contains(t, html, "new{}")
	assert.Contains(t, html, "fresh()")
}

func TestStandaloneStableUnderReExport(t *testing.T) {
	t.Parallel()

	files := model.FileSet{
		"index.html": "<html><head></head><body></body></html>",
		"styles.css": "body{}",
		"script.js":  "run()",
	}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	first := Standalone(files, now)
	files["index.html"] = first
	second := Standalone(files, now)

	assert.Equal(t, 1, strings.Count(second, "<style>"))
	assert.Equal(t, 1, strings.Count(second, "<script>"))
}

func TestStandaloneGenerationComment(t *testing.T) {
	t.Parallel()

	files := model.FileSet{"index.html": "<html><body></body></html>"}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	html := Standalone(files, now)

	commentIdx := strings.Index(html, "<!-- Generated by GenWeb AI on 2026-03-14 09:30:00 -->")
	htmlIdx := strings.Index(html, "<html")
	assert.True(t, commentIdx >= 0)
	assert.True(t, commentIdx < htmlIdx)
}

func TestStandaloneEmptySet(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Standalone(model.FileSet{}, time.Now()))
}

func TestExportFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Space Game.html", ExportFilename("Space Game"))
	assert.Equal(t, "complete-project.html", ExportFilename(""))
	assert.Equal(t, "complete-project.html", ExportFilename("   "))
}
