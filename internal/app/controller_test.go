package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/mintqr/internal/export"
	"github.com/cristianadrielbraun/mintqr/internal/history"
	"github.com/cristianadrielbraun/mintqr/internal/render"
	"github.com/cristianadrielbraun/mintqr/internal/settings"
	"github.com/cristianadrielbraun/mintqr/internal/share"
	"github.com/cristianadrielbraun/mintqr/internal/storage"
)

type fakeClipboard struct {
	mu    sync.Mutex
	err   error
	image []byte
	text  string
}

func (f *fakeClipboard) CopyImage(_ context.Context, png []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.image = png
	return nil
}

func (f *fakeClipboard) CopyText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

// countingStore counts writes to the underlying store.
type countingStore struct {
	storage.Store
	mu   sync.Mutex
	sets map[string]int
}

func (s *countingStore) Set(key, value string) error {
	s.mu.Lock()
	s.sets[key]++
	s.mu.Unlock()
	return s.Store.Set(key, value)
}

func (s *countingStore) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets[key]
}

type fixture struct {
	c     *Controller
	store *countingStore
	clip  *fakeClipboard
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	store := &countingStore{Store: storage.NewMemoryStore(), sets: map[string]int{}}
	clip := &fakeClipboard{}
	engine, err := render.NewEngine(render.EngineYeqown)
	require.NoError(t, err)

	opts.Renderer = render.NewRenderer(engine)
	opts.Local = storage.NewLocal(store, nil)
	opts.Clipboard = clip
	if opts.ShareBase == "" {
		opts.ShareBase = "http://localhost:8080/"
	}
	if opts.Now == nil {
		fixed := time.UnixMilli(1_700_000_000_000)
		opts.Now = func() time.Time { return fixed }
	}
	return &fixture{c: New(opts), store: store, clip: clip}
}

func pngBytes(t *testing.T, side int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestInitDefaults(t *testing.T) {
	f := newFixture(t, Options{})
	st := f.c.Init(nil)

	assert.Equal(t, settings.Defaults(), st.Settings)
	assert.Equal(t, "", st.Status)
	require.NotNil(t, st.Preview)
	assert.Equal(t, settings.DefaultSize, st.Preview.Bounds().Dx())
	assert.False(t, st.LowContrast)
	assert.Equal(t, 0, f.store.count(storage.KeySettings))
}

func TestInitPrecedence(t *testing.T) {
	f := newFixture(t, Options{})
	stored := settings.Defaults()
	stored.Text = "stored"
	f.c.local.SaveSettings(stored)

	shared := settings.Defaults()
	shared.Text = "shared"
	shared.ECLevel = settings.ECHigh
	token, err := share.Encode(shared)
	require.NoError(t, err)

	st := f.c.Init(url.Values{share.Param: {token}})
	assert.Equal(t, shared, st.Settings)

	st = f.c.Init(url.Values{share.Param: {"not base64 at all"}})
	assert.Equal(t, "stored", st.Settings.Text)

	f.c.local = storage.NewLocal(storage.NewMemoryStore(), nil)
	st = f.c.Init(url.Values{})
	assert.Equal(t, settings.Defaults(), st.Settings)
}

func TestUpdateEmptyText(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)

	f.c.Update(settings.Patch{Text: settings.Ptr("   ")})
	st := f.c.State()
	assert.Equal(t, StatusEnterContent, st.Status)
	assert.Nil(t, st.Preview)

	_, err := f.c.Export()
	assert.True(t, errors.Is(err, ErrNothingRendered))
}

func TestUpdateContrastStatus(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)

	st := f.c.Update(settings.Patch{ColorDark: settings.Ptr("#fff")})
	assert.Equal(t, StatusLowContrast, st.Status)
	assert.True(t, st.LowContrast)
	assert.InDelta(t, 1.0, st.Contrast, 1e-9)
	assert.Equal(t, StatusLowContrast, f.c.State().Status)

	st = f.c.Update(settings.Patch{ColorDark: settings.Ptr("#000000")})
	assert.Equal(t, "", st.Status)
	assert.Greater(t, st.Contrast, settings.MinContrast)
}

func TestUpdatePersistsOnlyChanges(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)

	f.c.Update(settings.Patch{Size: settings.Ptr(400)})
	assert.Equal(t, 1, f.store.count(storage.KeySettings))

	f.c.Update(settings.Patch{Size: settings.Ptr(400)})
	assert.Equal(t, 1, f.store.count(storage.KeySettings))

	// Clamped to the same value.
	f.c.Update(settings.Patch{Size: settings.Ptr(5000)})
	f.c.Update(settings.Patch{Size: settings.Ptr(9000)})
	assert.Equal(t, 2, f.store.count(storage.KeySettings))
	assert.Equal(t, settings.MaxSize, f.c.Settings().Size)
}

func TestMarginOnlyDoesNotRender(t *testing.T) {
	f := newFixture(t, Options{})
	before := f.c.Init(nil).Version

	f.c.Update(settings.Patch{Margin: settings.Ptr(0)})
	st := f.c.State()
	assert.Equal(t, before, st.Version)
	assert.Equal(t, 0, st.Settings.Margin)

	r, err := f.c.Export()
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultSize, r.Image.Bounds().Dx())
}

func TestDebouncedRender(t *testing.T) {
	var renders int
	var mu sync.Mutex
	f := newFixture(t, Options{
		Debounce: 40 * time.Millisecond,
		OnRender: func(State) {
			mu.Lock()
			renders++
			mu.Unlock()
		},
	})
	v0 := f.c.Init(nil).Version

	f.c.Update(settings.Patch{Text: settings.Ptr("a")})
	f.c.Update(settings.Patch{Text: settings.Ptr("ab")})
	f.c.Update(settings.Patch{Text: settings.Ptr("abc")})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return renders == 2
	}, time.Second, 10*time.Millisecond)

	st := f.c.State()
	assert.Equal(t, v0+1, st.Version)
	assert.Equal(t, "abc", st.Settings.Text)
}

func TestStateFlushesPendingRender(t *testing.T) {
	f := newFixture(t, Options{Debounce: time.Hour})
	v0 := f.c.Init(nil).Version

	f.c.Update(settings.Patch{Size: settings.Ptr(256)})
	st := f.c.State()
	assert.Equal(t, v0+1, st.Version)
	require.NotNil(t, st.Preview)
	assert.Equal(t, 256, st.Preview.Bounds().Dx())
}

func TestFlushWaitsForRenderInProgress(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var armed atomic.Bool
	var mu sync.Mutex
	var handled []string
	f := newFixture(t, Options{
		Debounce: 10 * time.Millisecond,
		OnRender: func(st State) {
			if armed.CompareAndSwap(true, false) {
				close(started)
				<-release
			}
			mu.Lock()
			handled = append(handled, st.Settings.Text)
			mu.Unlock()
		},
	})
	f.c.Init(nil)
	armed.Store(true)
	f.c.Update(settings.Patch{Text: settings.Ptr("last line")})
	<-started

	flushed := make(chan State, 1)
	go func() { flushed <- f.c.Flush() }()
	select {
	case <-flushed:
		t.Fatal("Flush returned before OnRender finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	st := <-flushed
	assert.Equal(t, "last line", st.Settings.Text)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{settings.DefaultText, "last line"}, handled)
}

func TestNewWithoutRenderer(t *testing.T) {
	c := New(Options{})
	st := c.Init(nil)
	require.NotNil(t, st.Preview)
	assert.Equal(t, settings.DefaultSize, st.Preview.Bounds().Dx())
	assert.Equal(t, st.Version, c.Flush().Version)
}

func TestGenerateTooLong(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)

	f.c.Update(settings.Patch{Text: settings.Ptr(strings.Repeat("x", 8000))})
	st := f.c.State()
	assert.Equal(t, StatusGenerateFailed, st.Status)
	assert.Nil(t, st.Preview)
}

func TestSaveCapsHistory(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)

	for i := 0; i < 40; i++ {
		f.c.Update(settings.Patch{Text: settings.Ptr("item " + string(rune('A'+i)))})
		_, err := f.c.Save()
		require.NoError(t, err)
	}

	list := f.c.History()
	require.Len(t, list, history.Limit)
	assert.Equal(t, "item "+string(rune('A'+39)), list[0].Label)
	for i := 1; i < len(list); i++ {
		assert.Greater(t, list[i-1].ID, list[i].ID)
	}
	assert.True(t, strings.HasPrefix(list[0].Preview, "data:image/png;base64,"))
	assert.Equal(t, StatusSaved, f.c.Status())
}

func TestSaveNothingRendered(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)
	f.c.Update(settings.Patch{Text: settings.Ptr("")})

	_, err := f.c.Save()
	assert.True(t, errors.Is(err, ErrNothingRendered))
	assert.Equal(t, StatusNothingToSave, f.c.Status())
	assert.Empty(t, f.c.History())
}

func TestLoadAndDeleteHistory(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)
	f.c.Update(settings.Patch{Text: settings.Ptr("first"), ECLevel: settings.Ptr(settings.ECQuartile)})
	first, err := f.c.Save()
	require.NoError(t, err)

	f.c.Update(settings.Patch{Text: settings.Ptr("second")})
	_, err = f.c.Save()
	require.NoError(t, err)

	st, err := f.c.LoadHistory(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", st.Settings.Text)
	assert.Equal(t, settings.ECQuartile, st.Settings.ECLevel)
	assert.NotNil(t, st.Preview)

	_, err = f.c.LoadHistory(42)
	assert.True(t, errors.Is(err, ErrNotFound))

	left := f.c.DeleteHistory(first.ID)
	require.Len(t, left, 1)
	assert.Equal(t, "second", left[0].Label)

	f.c.ClearHistory()
	assert.Empty(t, f.c.History())
}

func TestCopy(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)

	require.NoError(t, f.c.Copy(context.Background()))
	assert.Equal(t, StatusCopied, f.c.Status())
	img, err := png.Decode(bytes.NewReader(f.clip.image))
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultSize+2*settings.DefaultMargin, img.Bounds().Dx())

	assert.Eventually(t, func() bool { return f.c.Status() == "" }, 3*time.Second, 20*time.Millisecond)

	f.clip.err = export.ErrClipboardUnsupported
	assert.Error(t, f.c.Copy(context.Background()))
	assert.Equal(t, StatusClipboardUnavailable, f.c.Status())
}

func TestTransientStatusDoesNotClearNewerMessage(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)

	require.NoError(t, f.c.Copy(context.Background()))
	f.c.Update(settings.Patch{ColorLight: settings.Ptr("#0f172a")})
	time.Sleep(copiedTTL + 300*time.Millisecond)
	assert.Equal(t, StatusLowContrast, f.c.Status())
}

func TestShareLink(t *testing.T) {
	f := newFixture(t, Options{ShareBase: "https://qr.example.org/app.html?theme=dark"})
	f.c.Init(nil)
	f.c.Update(settings.Patch{Text: settings.Ptr("héllo wörld"), Margin: settings.Ptr(0)})

	link, err := f.c.CopyShareLink(context.Background())
	require.NoError(t, err)
	assert.Equal(t, link, f.clip.text)
	assert.Equal(t, StatusShareCopied, f.c.Status())
	assert.Contains(t, link, "theme=dark")

	got, err := share.FromURL(link, settings.Defaults())
	require.NoError(t, err)
	assert.Equal(t, f.c.Settings(), got)

	f.clip.err = errors.New("no display")
	link, err = f.c.CopyShareLink(context.Background())
	assert.Error(t, err)
	assert.NotEmpty(t, link)
	assert.Equal(t, StatusShareCopyFailed, f.c.Status())
}

func TestApplyLink(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)

	want := settings.Defaults()
	want.Text = "from a link"
	link, err := share.Link("http://localhost:8080/", want)
	require.NoError(t, err)

	st, err := f.c.ApplyLink(link)
	require.NoError(t, err)
	assert.Equal(t, want, st.Settings)

	_, err = f.c.ApplyLink("http://localhost:8080/?s=@@@")
	assert.True(t, errors.Is(err, share.ErrMalformed))
	assert.Equal(t, want, f.c.Settings())
}

func TestDownload(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)
	dir := t.TempDir()

	p1, err := f.c.Download(dir, "", export.PNG)
	require.NoError(t, err)
	p2, err := f.c.Download(dir, "", export.PNG)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mint-qr.png"), p1)
	assert.Equal(t, filepath.Join(dir, "mint-qr (1).png"), p2)

	p3, err := f.c.Download(dir, "", export.SVG)
	require.NoError(t, err)
	data, err := os.ReadFile(p3)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	f.c.Update(settings.Patch{Text: settings.Ptr("")})
	_, err = f.c.Download(dir, "", export.PNG)
	assert.True(t, errors.Is(err, ErrNothingRendered))
	assert.Equal(t, StatusNothingToDownload, f.c.Status())
}

func TestLogo(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)
	f.c.Update(settings.Patch{ECLevel: settings.Ptr(settings.ECHigh)})

	st, err := f.c.SetLogoData(pngBytes(t, 64, color.RGBA{220, 38, 38, 255}))
	require.NoError(t, err)
	assert.True(t, st.Settings.HasLogo())

	r, err := f.c.Export()
	require.NoError(t, err)
	side := r.Image.Bounds().Dx()
	center := r.Image.RGBAAt(side/2, side/2)
	assert.InDelta(t, 220, int(center.R), 2)
	assert.InDelta(t, 38, int(center.G), 2)

	ok, err := f.c.Readable()
	require.NoError(t, err)
	assert.True(t, ok)

	st = f.c.RemoveLogo()
	assert.False(t, st.Settings.HasLogo())
}

func TestLogoRejected(t *testing.T) {
	f := newFixture(t, Options{})
	f.c.Init(nil)

	_, err := f.c.SetLogoData([]byte("plain text, not an image"))
	assert.Error(t, err)
	assert.Equal(t, StatusLogoUnreadable, f.c.Status())
	assert.False(t, f.c.Settings().HasLogo())

	_, err = f.c.SetLogoFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
	assert.Equal(t, StatusLogoUnreadable, f.c.Status())
}
