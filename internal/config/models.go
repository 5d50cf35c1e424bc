package config

import (
	"sort"
	"time"
)

// CurrentVersion is the registry file format version.
const CurrentVersion = 1

// Document sources recorded in the registry.
const (
	SourceFile   = "file"
	SourceRemote = "remote"
)

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int                  `yaml:"version"`
	Documents   map[string]*Document `yaml:"documents,omitempty"` // Keyed by location (file path or server URL)
	Preferences *Preferences         `yaml:"preferences,omitempty"`
}

// Document records a recently opened document.
type Document struct {
	Handle     string    `yaml:"handle"`                // Store handle
	Source     string    `yaml:"source"`                // SourceFile or SourceRemote
	LastOpened time.Time `yaml:"last_opened,omitempty"` // Last time the editor opened it
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	ServerURL       string  `yaml:"server_url,omitempty"` // Default boxes-server for remote handles
	AutoDiscover    bool    `yaml:"auto_discover"`        // Look for servers via mDNS when no URL is set
	DiscoverTimeout int     `yaml:"discover_timeout"`     // mDNS discovery timeout in seconds
	CellWidth       float64 `yaml:"cell_width"`           // Document pixels per terminal column
	CellHeight      float64 `yaml:"cell_height"`          // Document pixels per terminal row
	WheelStep       float64 `yaml:"wheel_step"`           // Zoom change per mouse wheel notch
	MaxRecent       int     `yaml:"max_recent"`           // Recent documents to remember
}

// DefaultPreferences returns the preferences used when the file has none.
func DefaultPreferences() *Preferences {
	return &Preferences{
		AutoDiscover:    true,
		DiscoverTimeout: 5,
		CellWidth:       10,
		CellHeight:      20,
		WheelStep:       1,
		MaxRecent:       20,
	}
}

// fillDefaults replaces zero numeric preferences with their defaults.
func (p *Preferences) fillDefaults() {
	d := DefaultPreferences()
	if p.DiscoverTimeout <= 0 {
		p.DiscoverTimeout = d.DiscoverTimeout
	}
	if p.CellWidth <= 0 {
		p.CellWidth = d.CellWidth
	}
	if p.CellHeight <= 0 {
		p.CellHeight = d.CellHeight
	}
	if p.WheelStep <= 0 {
		p.WheelStep = d.WheelStep
	}
	if p.MaxRecent <= 0 {
		p.MaxRecent = d.MaxRecent
	}
}

// DiscoverDuration returns DiscoverTimeout as a duration.
func (p *Preferences) DiscoverDuration() time.Duration {
	return time.Duration(p.DiscoverTimeout) * time.Second
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Documents:   make(map[string]*Document),
		Preferences: DefaultPreferences(),
	}
}

// GetDocument retrieves a recent document by location.
// Returns nil if it is not in the registry.
func (r *Registry) GetDocument(location string) *Document {
	return r.Documents[location]
}

// RecordOpen notes that the document at location was just opened and
// drops the oldest entries beyond Preferences.MaxRecent.
func (r *Registry) RecordOpen(location, handle, source string) *Document {
	if r.Documents == nil {
		r.Documents = make(map[string]*Document)
	}
	doc, ok := r.Documents[location]
	if !ok {
		doc = &Document{}
		r.Documents[location] = doc
	}
	doc.Handle = handle
	doc.Source = source
	doc.LastOpened = time.Now()

	limit := DefaultPreferences().MaxRecent
	if r.Preferences != nil && r.Preferences.MaxRecent > 0 {
		limit = r.Preferences.MaxRecent
	}
	recent := r.Recent()
	for _, old := range recent[min(limit, len(recent)):] {
		delete(r.Documents, old)
	}
	return doc
}

// Forget removes a document from the recent list.
func (r *Registry) Forget(location string) {
	delete(r.Documents, location)
}

// Recent returns document locations, most recently opened first.
func (r *Registry) Recent() []string {
	out := make([]string, 0, len(r.Documents))
	for loc := range r.Documents {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := r.Documents[out[i]], r.Documents[out[j]]
		if !a.LastOpened.Equal(b.LastOpened) {
			return a.LastOpened.After(b.LastOpened)
		}
		return out[i] < out[j]
	})
	return out
}
