// Package app holds the generator controller: the single owner of the
// current settings, the rendered preview and the status line. The HTTP
// handlers and the CLI both drive it.
package app

import (
	"errors"
	"image"
	"net/url"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/sirupsen/logrus"

	"github.com/cristianadrielbraun/mintqr/internal/export"
	"github.com/cristianadrielbraun/mintqr/internal/render"
	"github.com/cristianadrielbraun/mintqr/internal/settings"
	"github.com/cristianadrielbraun/mintqr/internal/share"
	"github.com/cristianadrielbraun/mintqr/internal/storage"
)

// DefaultDebounce is how long edits must pause before the preview is
// re-rendered.
const DefaultDebounce = 180 * time.Millisecond

// ErrNothingRendered is returned by export operations when there is no
// preview to export.
var ErrNothingRendered = errors.New("nothing rendered")

// State is a snapshot of the controller.
type State struct {
	Settings settings.Settings
	Status   string
	// Preview is the bare code at Settings.Size, nil when nothing could be
	// rendered.
	Preview     image.Image
	Contrast    float64
	LowContrast bool
	// Version increases with every render attempt.
	Version uint64
}

// Options configures a Controller. Renderer and Local are required.
type Options struct {
	Renderer  *render.Renderer
	Local     *storage.Local
	Clipboard export.Clipboard
	Log       logrus.FieldLogger
	// ShareBase is the page URL share links point at.
	ShareBase string
	// Debounce delays re-rendering after edits. Zero or less renders
	// synchronously.
	Debounce time.Duration
	// Now defaults to time.Now. History ids come from it.
	Now func() time.Time
	// OnRender is called after every render attempt, outside the lock.
	OnRender func(State)
}

// Controller owns the generator state. It is safe for concurrent use.
type Controller struct {
	renderer  *render.Renderer
	local     *storage.Local
	clipboard export.Clipboard
	log       logrus.FieldLogger
	shareBase string
	now       func() time.Time
	onRender  func(State)
	debounced func(func())

	mu        sync.Mutex
	settings  settings.Settings
	status    string
	statusGen uint64
	preview   image.Image
	version   uint64
	pending   bool
	// inflight counts OnRender calls that have not returned yet.
	inflight int
	idle     *sync.Cond

	logoURI string
	logo    image.Image
}

// New returns a controller with default settings. Call Init to load stored
// or shared settings and render the first preview.
func New(opts Options) *Controller {
	c := &Controller{
		renderer:  opts.Renderer,
		local:     opts.Local,
		clipboard: opts.Clipboard,
		log:       opts.Log,
		shareBase: opts.ShareBase,
		now:       opts.Now,
		onRender:  opts.OnRender,
		settings:  settings.Defaults(),
	}
	c.idle = sync.NewCond(&c.mu)
	if c.renderer == nil {
		c.renderer = render.NewRenderer(render.DefaultEngine())
	}
	if c.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		c.log = l
	}
	if c.local == nil {
		c.local = storage.NewLocal(storage.NewMemoryStore(), c.log)
	}
	if c.clipboard == nil {
		c.clipboard = export.NoClipboard{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.Debounce > 0 {
		c.debounced = debounce.New(opts.Debounce)
	} else {
		c.debounced = func(f func()) { f() }
	}
	return c
}

// Init picks the starting settings (a valid share token in query, then the
// stored settings, then defaults) and renders once.
func (c *Controller) Init(query url.Values) State {
	c.mu.Lock()
	c.settings = share.Resolve(query, c.local.LoadSettings)
	c.contrastStatusLocked()
	st := c.generateLocked()
	c.publishLocked(st)
	return st
}

// State returns the current state. A pending debounced render is run first
// so readers never see a preview older than the settings.
func (c *Controller) State() State {
	c.mu.Lock()
	if c.pending {
		st := c.generateLocked()
		c.publishLocked(st)
		return st
	}
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Flush runs a pending render and then waits until every OnRender call
// started so far, including one from the debounce timer, has returned.
func (c *Controller) Flush() State {
	c.mu.Lock()
	if c.pending {
		c.publishLocked(c.generateLocked())
		c.mu.Lock()
	}
	for c.inflight > 0 {
		c.idle.Wait()
	}
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Settings returns the current settings.
func (c *Controller) Settings() settings.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Status returns the status line.
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Update applies an edit. The contrast hint is refreshed, the settings are
// persisted when the normalized value changed, and a re-render is scheduled
// unless only the margin changed.
func (c *Controller) Update(p settings.Patch) State {
	c.mu.Lock()
	prev := c.settings
	c.settings = prev.Apply(p)
	c.contrastStatusLocked()
	if c.settings != prev {
		c.local.SaveSettings(c.settings)
	}
	schedule := !p.Empty() && !p.MarginOnly()
	if schedule {
		c.pending = true
	}
	st := c.stateLocked()
	c.mu.Unlock()

	if schedule {
		c.debounced(c.flush)
	}
	return st
}

// Generate renders the preview now.
func (c *Controller) Generate() State {
	c.mu.Lock()
	st := c.generateLocked()
	c.publishLocked(st)
	return st
}

// flush runs a render scheduled by Update unless State already did.
func (c *Controller) flush() {
	c.mu.Lock()
	if !c.pending {
		c.mu.Unlock()
		return
	}
	c.publishLocked(c.generateLocked())
}

func (c *Controller) generateLocked() State {
	c.pending = false
	c.version++

	s := c.settings
	if s.Text == "" {
		c.preview = nil
		c.setStatusLocked(StatusEnterContent, 0)
		return c.stateLocked()
	}

	img, err := c.renderer.Render(s)
	if err != nil {
		c.log.WithError(err).WithField("engine", c.renderer.Engine().Name()).Warn("QR generation failed")
		c.preview = nil
		c.setStatusLocked(StatusGenerateFailed, 0)
		return c.stateLocked()
	}
	c.preview = img
	c.contrastStatusLocked()
	c.log.WithFields(logrus.Fields{
		"size":  s.Size,
		"level": s.ECLevel,
	}).Debug("rendered preview")
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	ratio, low := settings.Contrast(c.settings)
	return State{
		Settings:    c.settings,
		Status:      c.status,
		Preview:     c.preview,
		Contrast:    ratio,
		LowContrast: low,
		Version:     c.version,
	}
}

// publishLocked releases c.mu and passes st to OnRender.
func (c *Controller) publishLocked(st State) {
	c.inflight++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inflight--
		if c.inflight == 0 {
			c.idle.Broadcast()
		}
		c.mu.Unlock()
	}()
	c.notify(st)
}

func (c *Controller) notify(st State) {
	if c.onRender != nil {
		c.onRender(st)
	}
}
