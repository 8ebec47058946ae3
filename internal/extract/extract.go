// Package extract turns raw assistant replies into the session file set. It
// scans markdown text for fenced code blocks, routes them to canonical
// filenames by language tag and merges uploaded asset references into the
// HTML/JS output.
package extract

import (
	"strings"

	"genweb/internal/model"
)

const fence = "```"

// assetRefMarker guards the generated script.js asset block so repeated
// extraction passes do not duplicate it.
const assetRefMarker = "// Asset references"

// Extract scans responseText for fenced code blocks and writes each into a
// copy of existing at its canonical filename. Later blocks for the same slot
// overwrite earlier ones. Tagless blocks are skipped and do not count toward
// anyExtracted. The input set is never mutated.
func Extract(responseText string, existing model.FileSet, assets []model.Asset) (model.FileSet, bool) {
	files := existing.Clone()
	anyExtracted := false

	for _, block := range scanBlocks(responseText) {
		name := canonicalName(block.tag)
		if name == "" {
			continue
		}
		files[name] = block.body
		anyExtracted = true
	}

	if len(assets) > 0 {
		integrateAssets(files, assets)
	}
	return files, anyExtracted
}

type codeBlock struct {
	tag  string
	body string
}

// scanBlocks is a single forward pass: find an opening fence, take the rest
// of that line as the language tag, then the first closing fence wins. An
// unterminated fence yields no block. No nesting, no backtracking.
func scanBlocks(text string) []codeBlock {
	var blocks []codeBlock
	pos := 0
	for {
		open := strings.Index(text[pos:], fence)
		if open < 0 {
			break
		}
		open += pos

		eol := strings.IndexByte(text[open:], '\n')
		if eol < 0 {
			break
		}
		tag := strings.ToLower(strings.TrimSpace(text[open+len(fence) : open+eol]))
		bodyStart := open + eol + 1

		closing := strings.Index(text[bodyStart:], fence)
		if closing < 0 {
			break
		}
		closing += bodyStart

		if isLanguageTag(tag) {
			blocks = append(blocks, codeBlock{
				tag:  tag,
				body: strings.TrimSpace(text[bodyStart:closing]),
			})
		}
		pos = closing + len(fence)
	}
	return blocks
}

func isLanguageTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// canonicalName maps a language tag to its file slot. Empty or invalid tags
// map to "" (skip).
func canonicalName(tag string) string {
	switch tag {
	case "":
		return ""
	case "html", "htm":
		return model.FileIndexHTML
	case "css":
		return model.FileStylesCSS
	case "javascript", "js":
		return model.FileScriptJS
	default:
		return "file." + tag
	}
}

// integrateAssets wires uploaded assets into the generated files: image
// assets not yet referenced by the HTML get a marker comment before the
// closing body tag, and script.js gets one constant per asset bound to its
// payload, guarded by assetRefMarker.
func integrateAssets(files model.FileSet, assets []model.Asset) {
	if html, ok := files[model.FileIndexHTML]; ok {
		for _, a := range assets {
			if !a.IsImage() || strings.Contains(html, a.Name) {
				continue
			}
			html = strings.Replace(html, "</body>", "<!-- Asset: "+a.Name+" -->\n</body>", 1)
		}
		files[model.FileIndexHTML] = html
	}

	if js, ok := files[model.FileScriptJS]; ok && !strings.Contains(js, assetRefMarker) {
		var refs strings.Builder
		refs.WriteString("\n" + assetRefMarker + "\n")
		for _, a := range assets {
			refs.WriteString("const " + identFromName(a.Name) + " = \"" + a.Payload + "\";\n")
		}
		files[model.FileScriptJS] = refs.String() + js
	}
}

// identFromName derives a JS identifier from an asset filename: extension
// stripped, every non-alphanumeric rune replaced by underscore.
func identFromName(name string) string {
	if dot := strings.LastIndexByte(name, '.'); dot > 0 {
		name = name[:dot]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
