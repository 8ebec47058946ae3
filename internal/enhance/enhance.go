// Package enhance augments project-creation prompts with extra requirement
// lines so the model produces richer results.
package enhance

import (
	"math/rand"
	"strings"
	"time"
)

var projectKeywords = []string{
	"create", "make", "build", "develop", "generate", "website", "game",
	"app", "application", "web app", "project", "portfolio", "design",
}

var baseEnhancements = []string{
	"Please make this project complex and feature-rich.",
	"Include responsive design for mobile and desktop.",
	"Add animations and interactive elements.",
	"Optimize for performance and user experience.",
	"Include comprehensive comments in the code.",
}

var webEnhancements = []string{
	"Include a navigation menu and multiple pages or sections.",
	"Add form validation and interactive features.",
	"Use modern CSS techniques like Grid and Flexbox.",
}

var gameEnhancements = []string{
	"Include game levels or increasing difficulty.",
	"Add scoring system and game state management.",
	"Include sound effects or background music (via CDN).",
	"Create smooth animations and responsive controls.",
}

var appEnhancements = []string{
	"Implement data persistence using localStorage.",
	"Add user settings or preferences.",
	"Include error handling and user feedback.",
}

var assetEnhancements = []string{
	"Properly integrate all uploaded assets into the project.",
	"Use semantic naming for asset references.",
	"Add loading handlers for assets when appropriate.",
}

// ShouldEnhance reports whether the message looks like a project-creation
// request worth enriching.
func ShouldEnhance(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range projectKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Enhancer picks a small random subset of requirement lines per prompt so
// enhanced prompts stay short.
type Enhancer struct {
	rng *rand.Rand
}

func New() *Enhancer {
	return &Enhancer{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Enhance appends up to three requirement lines selected from the base pool
// plus pools matching keywords in the message.
func (e *Enhancer) Enhance(message string) string {
	lower := strings.ToLower(message)

	pool := append([]string(nil), baseEnhancements...)
	if strings.Contains(lower, "website") || strings.Contains(lower, "web") {
		pool = append(pool, webEnhancements...)
	}
	if strings.Contains(lower, "game") {
		pool = append(pool, gameEnhancements...)
	}
	if strings.Contains(lower, "app") || strings.Contains(lower, "application") {
		pool = append(pool, appEnhancements...)
	}
	if strings.Contains(lower, "asset") {
		pool = append(pool, assetEnhancements...)
	}

	e.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > 3 {
		pool = pool[:3]
	}

	var b strings.Builder
	b.WriteString(message)
	b.WriteString(" \n    \nAdditional requirements:\n- ")
	b.WriteString(strings.Join(pool, "\n- "))
	b.WriteString("\n    \nPlease make this project as comprehensive and production-ready as possible.")
	return b.String()
}
