package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genweb/internal/ai"
	"genweb/internal/asset"
	"genweb/internal/model"
	"genweb/internal/project"
)

type stubGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	delay   time.Duration
	lastReq ai.Request
	lastID  string
	calls   int
}

func (g *stubGenerator) Generate(_ context.Context, modelID string, req ai.Request) (string, error) {
	g.mu.Lock()
	g.lastReq = req
	g.lastID = modelID
	g.calls++
	g.mu.Unlock()
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	return g.reply, g.err
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []model.Message
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, msg model.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

type nullPersister struct{}

func (nullPersister) Load(context.Context) ([]byte, error) { return nil, nil }
func (nullPersister) Save(context.Context, []byte) error   { return nil }

func newTestWorkspace(t *testing.T, gen ai.Generator, pub AsyncMessagePublisher) *Workspace {
	t.Helper()
	assets := newAssetStore()
	projects := newProjectStore(t)
	return NewWorkspace(assets, projects, gen, pub, GenerationSettings{
		DefaultModel: "gemini-2.0-flash",
		MaxTokens:    8192,
		Temperature:  0.7,
		MaxContext:   10,
		MaxImageSize: 5 * 1024 * 1024,
		AutoEnhance:  false,
	})
}

const htmlReply = "Here you go:\n```html\n<html><head></head><body>hi</body></html>\n```"

func TestSendMessageExtractsFiles(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: htmlReply}
	w := newTestWorkspace(t, gen, nil)

	res, err := w.SendMessage(context.Background(), SendInput{Content: "make a page"})
	require.NoError(t, err)
	assert.True(t, res.Extracted)
	assert.Contains(t, res.Files[model.FileIndexHTML], "<body>hi</body>")
	assert.Equal(t, "gemini-2.0-flash", gen.lastID)

	transcript := w.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, model.RoleUser, transcript[0].Role)
	assert.Equal(t, "make a page", transcript[0].Content)
	assert.Equal(t, model.RoleAI, transcript[1].Role)
}

func TestSendMessageEmptyInput(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t, &stubGenerator{reply: "x"}, nil)
	_, err := w.SendMessage(context.Background(), SendInput{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendMessageImageOnlyUsesAnalyzePrompt(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: "nice image"}
	w := newTestWorkspace(t, gen, nil)

	_, err := w.SendMessage(context.Background(), SendInput{
		Images: []ai.ImageData{{MimeType: "image/png", Data: "aGVsbG8="}},
	})
	require.NoError(t, err)
	assert.Equal(t, analyzeImagePrompt, gen.lastReq.Prompt)
}

func TestSendMessageImageTooLarge(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t, &stubGenerator{reply: "x"}, nil)
	w.settings.MaxImageSize = 4

	_, err := w.SendMessage(context.Background(), SendInput{
		Content: "hi",
		Images:  []ai.ImageData{{MimeType: "image/png", Data: "aGVsbG8gd29ybGQ="}},
	})
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestSendMessageConcurrentGuard(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: "slow", delay: 200 * time.Millisecond}
	w := newTestWorkspace(t, gen, nil)

	done := make(chan error, 1)
	go func() {
		_, err := w.SendMessage(context.Background(), SendInput{Content: "first"})
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	_, err := w.SendMessage(context.Background(), SendInput{Content: "second"})
	assert.ErrorIs(t, err, ErrGenerationInProgress)

	require.NoError(t, <-done)

	// guard released, a later send goes through
	_, err = w.SendMessage(context.Background(), SendInput{Content: "third"})
	assert.NoError(t, err)
}

func TestSendMessageProviderError(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{err: errors.New("upstream down")}
	w := newTestWorkspace(t, gen, nil)

	_, err := w.SendMessage(context.Background(), SendInput{Content: "hello"})
	require.Error(t, err)

	transcript := w.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, model.RoleSystem, transcript[0].Role)
	assert.Contains(t, transcript[0].Content, "Sorry, I encountered an error: upstream down")

	// the failed turn is not replayed to the provider
	gen.err = nil
	gen.reply = "ok"
	_, err = w.SendMessage(context.Background(), SendInput{Content: "retry"})
	require.NoError(t, err)
	assert.Empty(t, gen.lastReq.History)
}

func TestSendMessageEmptyReplyFallback(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t, &stubGenerator{reply: "   "}, nil)
	res, err := w.SendMessage(context.Background(), SendInput{Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "The model returned an empty response.", res.Reply)
	assert.False(t, res.Extracted)
}

func TestSendMessageHistoryWindow(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: "回"}
	w := newTestWorkspace(t, gen, nil)
	w.settings.MaxContext = 4

	for i := 0; i < 5; i++ {
		_, err := w.SendMessage(context.Background(), SendInput{Content: "turn"})
		require.NoError(t, err)
	}

	// 8 non-system messages exist, only the last 4 are replayed
	assert.Len(t, gen.lastReq.History, 4)
}

func TestSendMessageMentionsUploadedAssets(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: "done"}
	w := newTestWorkspace(t, gen, nil)
	uploadAsset(t, w.assets, "logo.png")

	_, err := w.SendMessage(context.Background(), SendInput{Content: "use my logo"})
	require.NoError(t, err)
	assert.Contains(t, gen.lastReq.Prompt, "Include the following uploaded assets: logo.png")
}

func TestSendMessagePublishesTurns(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	w := newTestWorkspace(t, &stubGenerator{reply: "ok"}, pub)

	_, err := w.SendMessage(context.Background(), SendInput{Content: "hello"})
	require.NoError(t, err)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.msgs, 2)
	assert.Equal(t, model.RoleUser, pub.msgs[0].Role)
	assert.Equal(t, model.RoleAI, pub.msgs[1].Role)
}

func TestSendMessagePublisherFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{err: errors.New("broker gone")}
	w := newTestWorkspace(t, &stubGenerator{reply: "ok"}, pub)

	res, err := w.SendMessage(context.Background(), SendInput{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Reply)
}

func TestNewChatResetsSession(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t, &stubGenerator{reply: htmlReply}, nil)
	uploadAsset(t, w.assets, "sprite.png")

	_, err := w.SendMessage(context.Background(), SendInput{Content: "build"})
	require.NoError(t, err)
	require.NotEmpty(t, w.Files())

	p := w.NewChat(context.Background())
	require.NotNil(t, p)
	assert.Equal(t, "Untitled Project", p.Name)
	assert.Empty(t, w.Files())
	assert.Empty(t, w.Transcript())
	assert.Zero(t, w.assets.Count())
}

func TestSaveLoadProjectRoundTrip(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t, &stubGenerator{reply: htmlReply}, nil)
	uploadAsset(t, w.assets, "icon.svg")

	_, err := w.SendMessage(context.Background(), SendInput{Content: "build"})
	require.NoError(t, err)

	saved, err := w.SaveProject(context.Background(), "My Site")
	require.NoError(t, err)
	assert.Equal(t, "My Site", saved.Name)

	w.NewChat(context.Background())
	require.Empty(t, w.Files())

	loaded, err := w.LoadProject(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Site", loaded.Name)
	assert.Contains(t, w.Files()[model.FileIndexHTML], "<body>")
	assert.Len(t, w.Transcript(), 2)
	assert.Equal(t, 1, w.assets.Count())
}

func TestSaveProjectEmptyName(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t, &stubGenerator{reply: "x"}, nil)
	_, err := w.SaveProject(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoadProjectUnknown(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t, &stubGenerator{reply: "x"}, nil)
	_, err := w.LoadProject(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestDeleteProjectUnknown(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t, &stubGenerator{reply: "x"}, nil)
	err := w.DeleteProject(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestExportSingle(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t, &stubGenerator{reply: htmlReply}, nil)

	_, _, err := w.ExportSingle()
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = w.SendMessage(context.Background(), SendInput{Content: "build"})
	require.NoError(t, err)
	_, err = w.SaveProject(context.Background(), "Demo Page")
	require.NoError(t, err)

	name, html, err := w.ExportSingle()
	require.NoError(t, err)
	assert.Equal(t, "Demo Page.html", name)
	assert.Contains(t, html, "Generated by GenWeb AI")
}

func TestPreviewHTMLEmpty(t *testing.T) {
	t.Parallel()

	w := newTestWorkspace(t, &stubGenerator{reply: "x"}, nil)
	assert.Contains(t, w.PreviewHTML(), "No content to preview yet")
}

func newAssetStore() *asset.Store {
	return asset.NewStore(10*1024*1024, []string{".png", ".jpg", ".svg"})
}

func newProjectStore(t *testing.T) *project.Store {
	t.Helper()
	return project.NewStore(context.Background(), nullPersister{})
}

func uploadAsset(t *testing.T, store *asset.Store, name string) {
	t.Helper()
	_, err := store.Upload(name, "image/png", 4, strings.NewReader("data"))
	require.NoError(t, err)
}
