// Package app hosts the chat orchestrator: it drives the provider round
// trip, owns the live session state (file set, assets, transcript) and
// bridges it to the project store.
package app

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"genweb/internal/ai"
	"genweb/internal/asset"
	"genweb/internal/compose"
	"genweb/internal/enhance"
	"genweb/internal/extract"
	"genweb/internal/model"
	"genweb/internal/project"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrEmptyMessage         = errors.New("message content is empty")
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrImageTooLarge        = errors.New("image too large")
	ErrProjectNotFound      = errors.New("project not found")
	ErrNoFiles              = errors.New("no files have been generated")
)

const defaultProjectName = "Untitled Project"

// analyzeImagePrompt stands in for an empty prompt when images are attached.
const analyzeImagePrompt = "Please analyze this image and create something based on it."

const systemInstruction = `You are an advanced AI model designed to collaboratively generate interactive web content based on user prompts.
Focus on generating incredible HTML, CSS, and JavaScript content, leveraging SVG graphics, CSS animations, and JS to create fun, simple, and engaging interactive experiences.
When asked to create a web project, respond with a complete solution including necessary HTML, CSS, and JavaScript files.
Format your code response using markdown code blocks with language specifiers, like:

` + "```html\n<html>...</html>\n```\n\n```css\nbody { color: #333; }\n```\n\n```javascript\nfunction example() { console.log('Hello world'); }\n```" + `

For ease of use, ensure each file is clearly labeled and separated.

When a user uploads an image, analyze and reference the visual elements from it in your creation when appropriate.`

// GenerationSettings are the pass-through model parameters.
type GenerationSettings struct {
	DefaultModel string
	MaxTokens    int
	Temperature  float64
	MaxContext   int // transcript turns included per request
	MaxImageSize int64
	AutoEnhance  bool
}

// AsyncMessagePublisher feeds the durable message archive. A nil publisher
// disables archiving.
type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

// Workspace is the single chat session the service hosts: transcript log,
// generated file set and uploaded assets, plus the project store they are
// snapshotted into.
type Workspace struct {
	mu          sync.Mutex
	generating  atomic.Bool
	files       model.FileSet
	transcript  []model.Message
	projectName string

	assets    *asset.Store
	projects  *project.Store
	provider  ai.Generator
	publisher AsyncMessagePublisher
	enhancer  *enhance.Enhancer
	settings  GenerationSettings
}

func NewWorkspace(
	assets *asset.Store,
	projects *project.Store,
	provider ai.Generator,
	publisher AsyncMessagePublisher,
	settings GenerationSettings,
) *Workspace {
	if settings.MaxContext <= 0 {
		settings.MaxContext = 10
	}
	if settings.MaxImageSize <= 0 {
		settings.MaxImageSize = 5 * 1024 * 1024
	}
	name := defaultProjectName
	if cur := projects.Current(); cur != nil {
		name = cur.Name
	}
	return &Workspace{
		files:       model.FileSet{},
		projectName: name,
		assets:      assets,
		projects:    projects,
		provider:    provider,
		publisher:   publisher,
		enhancer:    enhance.New(),
		settings:    settings,
	}
}

// SendInput is one user turn: prompt text, optional inline images and an
// optional model override.
type SendInput struct {
	Content string
	Images  []ai.ImageData
	Model   string
}

// SendResult reports the provider reply and what extraction did with it.
type SendResult struct {
	Reply     string        `json:"reply"`
	Extracted bool          `json:"extracted"`
	Files     model.FileSet `json:"files"`
}

// SendMessage runs one request/response cycle: validate, guard against a
// concurrent generation, enhance the prompt, call the provider, record the
// turn and extract generated files from the reply. The in-flight flag is
// released on every exit path.
func (w *Workspace) SendMessage(ctx context.Context, input SendInput) (*SendResult, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" && len(input.Images) == 0 && w.assets.Count() == 0 {
		return nil, ErrEmptyMessage
	}
	for _, img := range input.Images {
		if imageSize(img) > w.settings.MaxImageSize {
			return nil, fmt.Errorf("%w: maximum size is %dMB", ErrImageTooLarge, w.settings.MaxImageSize/(1024*1024))
		}
	}

	if !w.generating.CompareAndSwap(false, true) {
		return nil, ErrGenerationInProgress
	}
	defer w.generating.Store(false)

	prompt := content
	if prompt == "" && len(input.Images) > 0 {
		prompt = analyzeImagePrompt
	}
	if w.settings.AutoEnhance && enhance.ShouldEnhance(prompt) {
		prompt = w.enhancer.Enhance(prompt)
	}
	if names := w.assetNames(); len(names) > 0 {
		prompt = prompt + "\n\nInclude the following uploaded assets: " + strings.Join(names, ", ")
	}

	modelID := input.Model
	if modelID == "" {
		modelID = w.settings.DefaultModel
	}

	req := ai.Request{
		System:      systemInstruction,
		Images:      input.Images,
		History:     w.historyWindow(),
		Prompt:      prompt,
		MaxTokens:   w.settings.MaxTokens,
		Temperature: w.settings.Temperature,
	}

	reply, err := w.provider.Generate(ctx, modelID, req)
	if err != nil {
		w.appendMessage(ctx, model.RoleSystem, "Sorry, I encountered an error: "+err.Error())
		return nil, err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = "The model returned an empty response."
	}

	w.appendMessage(ctx, model.RoleUser, content)
	w.appendMessage(ctx, model.RoleAI, reply)

	w.mu.Lock()
	updated, extracted := extract.Extract(reply, w.files, w.assets.All())
	w.files = updated
	files := updated.Clone()
	w.mu.Unlock()

	return &SendResult{Reply: reply, Extracted: extracted, Files: files}, nil
}

// historyWindow returns the most recent user/ai turns, bounded by
// MaxContext. System entries (inline errors) are not replayed.
func (w *Workspace) historyWindow() []ai.Turn {
	w.mu.Lock()
	defer w.mu.Unlock()

	var turns []ai.Turn
	for _, msg := range w.transcript {
		if msg.Role == model.RoleSystem {
			continue
		}
		turns = append(turns, ai.Turn{Role: msg.Role, Text: msg.Content})
	}
	if len(turns) > w.settings.MaxContext {
		turns = turns[len(turns)-w.settings.MaxContext:]
	}
	return turns
}

// appendMessage adds a transcript entry and feeds the archive queue.
// Archive failures are logged only.
func (w *Workspace) appendMessage(ctx context.Context, role, content string) {
	w.mu.Lock()
	msg := model.Message{
		ProjectID: w.currentProjectIDLocked(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	w.transcript = append(w.transcript, msg)
	w.mu.Unlock()

	if w.publisher != nil {
		if err := w.publisher.Publish(ctx, msg); err != nil {
			log.Printf("archive message failed: %v", err)
		}
	}
}

func (w *Workspace) currentProjectIDLocked() string {
	if cur := w.projects.Current(); cur != nil {
		return cur.ID
	}
	return ""
}

func (w *Workspace) assetNames() []string {
	all := w.assets.All()
	names := make([]string, 0, len(all))
	for _, a := range all {
		names = append(names, a.Name)
	}
	return names
}

// Transcript returns a snapshot of the chat log.
func (w *Workspace) Transcript() []model.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]model.Message(nil), w.transcript...)
}

// Files returns a snapshot of the generated file set.
func (w *Workspace) Files() model.FileSet {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files.Clone()
}

// NewChat resets transcript, files and assets and opens a fresh project.
func (w *Workspace) NewChat(ctx context.Context) *model.Project {
	w.mu.Lock()
	w.files = model.FileSet{}
	w.transcript = nil
	w.projectName = defaultProjectName
	w.mu.Unlock()

	w.assets.Clear()
	return w.projects.Create(ctx, defaultProjectName)
}

// SaveProject snapshots the session into the current project under the given
// name, creating one when none is current.
func (w *Workspace) SaveProject(ctx context.Context, name string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	w.mu.Lock()
	w.projectName = name
	files := w.files.Clone()
	history := append([]model.Message(nil), w.transcript...)
	w.mu.Unlock()

	p := w.projects.Update(ctx, name, files, w.assets.All(), history)
	if p == nil {
		return nil, fmt.Errorf("update project failed: no current project after implicit create")
	}
	return p, nil
}

// LoadProject restores a saved project into the session: files, assets and
// the transcript verbatim.
func (w *Workspace) LoadProject(ctx context.Context, id string) (*model.Project, error) {
	var state project.State
	if !w.projects.Load(ctx, id, &state) {
		return nil, ErrProjectNotFound
	}

	p := w.projects.Current()
	if p == nil {
		return nil, ErrProjectNotFound
	}

	w.mu.Lock()
	w.files = state.Files
	w.transcript = append([]model.Message(nil), p.ChatHistory...)
	w.projectName = p.Name
	w.mu.Unlock()

	w.assets.Restore(state.Assets)
	return p, nil
}

func (w *Workspace) DeleteProject(ctx context.Context, id string) error {
	if !w.projects.Delete(ctx, id) {
		return ErrProjectNotFound
	}
	return nil
}

func (w *Workspace) ListProjects() []model.Project {
	return w.projects.List()
}

func (w *Workspace) CurrentProject() *model.Project {
	return w.projects.Current()
}

// PreviewHTML composes the live preview document.
func (w *Workspace) PreviewHTML() string {
	return compose.Preview(w.Files())
}

// ExportSingle composes the standalone document and its download filename.
func (w *Workspace) ExportSingle() (filename, html string, err error) {
	files := w.Files()
	if len(files) == 0 {
		return "", "", ErrNoFiles
	}

	w.mu.Lock()
	name := w.projectName
	w.mu.Unlock()

	return compose.ExportFilename(name), compose.Standalone(files, time.Now()), nil
}

func imageSize(img ai.ImageData) int64 {
	return int64(base64.StdEncoding.DecodedLen(len(img.Data)))
}
