package editor

import (
	"context"

	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/geom"
	"github.com/muurk/boxes/internal/layout"
	"github.com/muurk/boxes/internal/zoom"
)

// Store persists the encoded document string under some handle.
type Store interface {
	// Load returns the stored string and whether one exists.
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, encoded string) error
	// Handle names the document for logs.
	Handle() string
}

// Prompter collects one line of text from the user. A new Prompt implicitly
// cancels any pending one; submit is never called for a cancelled prompt.
type Prompter interface {
	Prompt(initial string, submit func(text string))
	Cancel()
}

// Options configures a Session. Measure is required.
type Options struct {
	// Measure returns the unscaled width of a leaf label.
	Measure func(text string) float64
	Store   Store
	Prompt  Prompter
	// Viewport is the screen size in document pixels.
	Viewport geom.Point
	// OnFrameRequest is called when a frame becomes pending.
	OnFrameRequest func()
}

// Session is one open document and all interaction state around it.
type Session struct {
	tree   *boxtree.Tree
	zoom   *zoom.Controller
	layout *layout.Engine
	cursor Cursor

	pan     geom.Point
	tempPan geom.Point

	structureDirty bool
	zoomDirty      bool
	// zoomAnchor is the document point a pending zoom change is anchored
	// at; nil when the change is unanchored.
	zoomAnchor *geom.Point
	// zoomTarget, when set, is used as the anchor box instead of hit testing
	// zoomAnchor. Pinch sessions resolve it once at start.
	zoomTarget boxtree.ID

	sched    Scheduler
	measure  func(string) float64
	store    Store
	prompter Prompter
	saved    string
	viewport geom.Point
	gesture  gesture
}

// New returns a session with an empty document.
func New(opts Options) *Session {
	z := zoom.New()
	s := &Session{
		tree:       boxtree.New(),
		zoom:       z,
		layout:     layout.New(z),
		cursor:     NoCursor,
		zoomTarget: boxtree.NoBox,
		measure:    opts.Measure,
		store:      opts.Store,
		prompter:   opts.Prompt,
		viewport:   opts.Viewport,
	}
	s.sched.notify = opts.OnFrameRequest
	s.gesture.reset()
	return s
}

// Tree returns the live document. Callers must not mutate it directly.
func (s *Session) Tree() *boxtree.Tree { return s.tree }

// Zoom returns the zoom controller.
func (s *Session) Zoom() *zoom.Controller { return s.zoom }

// Layout returns the layout engine.
func (s *Session) Layout() *layout.Engine { return s.layout }

// Pan returns the committed pan offset.
func (s *Session) Pan() geom.Point { return s.pan }

// SetPan replaces the committed pan offset.
func (s *Session) SetPan(p geom.Point) {
	s.pan = p
	s.RequestFrame()
}

// Viewport returns the screen size in document pixels.
func (s *Session) Viewport() geom.Point { return s.viewport }

// SetViewport records a new screen size.
func (s *Session) SetViewport(w, h float64) {
	s.viewport = geom.Pt(w, h)
	s.RequestFrame()
}

// SetPrompter replaces the text prompt.
func (s *Session) SetPrompter(p Prompter) { s.prompter = p }

// ToDocument converts a screen point to document space.
func (s *Session) ToDocument(p geom.Point) geom.Point {
	return p.Sub(s.pan)
}

// ToScreen converts a document point to screen space.
func (s *Session) ToScreen(p geom.Point) geom.Point {
	return p.Add(s.pan)
}

func (s *Session) textWidth(text string) float64 {
	return layout.TextWidth(s.measure, text)
}

func (s *Session) markStructure() {
	s.structureDirty = true
	s.RequestFrame()
}
