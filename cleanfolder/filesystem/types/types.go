package types

import (
	"sort"
	"time"

	"github.com/google/uuid"

	internal "github.com/vladstelmakh/clean-folder/cleanfolder"
)

// Category is a named bucket of lowercase file extensions (without the dot)
type Category struct {
	Name       string   `json:"name" mapstructure:"name"`
	Extensions []string `json:"extensions" mapstructure:"extensions"`
	Extract    bool     `json:"extract" mapstructure:"extract"`
}

// Matches reports whether ext belongs to the category. The comparison is
// exact: extensions are compared as stored on disk.
func (c Category) Matches(ext string) bool {
	for _, candidate := range c.Extensions {
		if candidate == ext {
			return true
		}
	}
	return false
}

// DefaultCategories returns the fixed category table in lookup order.
func DefaultCategories() []Category {
	return []Category{
		{Name: internal.DefaultImagesDir, Extensions: []string{"jpeg", "png", "jpg", "svg"}},
		{Name: internal.DefaultVideosDir, Extensions: []string{"avi", "mp4", "mov", "mkv"}},
		{Name: internal.DefaultDocumentsDir, Extensions: []string{"doc", "docx", "txt", "pdf", "xlsx", "pptx"}},
		{Name: internal.DefaultAudioDir, Extensions: []string{"mp3", "ogg", "wav", "amr"}},
		{Name: internal.DefaultArchivesDir, Extensions: []string{"zip", "gz", "tar"}, Extract: true},
	}
}

// Classify returns the first category in order whose extensions contain ext.
func Classify(categories []Category, ext string) (Category, bool) {
	for _, c := range categories {
		if c.Matches(ext) {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryNames returns the names of categories in table order
func CategoryNames(categories []Category) []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// Registry maps a category name to the files discovered for it, in
// discovery order. It is built once per run.
type Registry struct {
	order []string
	files map[string][]string
}

// NewRegistry creates an empty registry with a slot per category
func NewRegistry(categories []Category) *Registry {
	r := &Registry{
		order: CategoryNames(categories),
		files: make(map[string][]string, len(categories)),
	}
	for _, name := range r.order {
		r.files[name] = nil
	}
	return r
}

// Add appends path to the category list
func (r *Registry) Add(category, path string) {
	if _, ok := r.files[category]; !ok {
		r.order = append(r.order, category)
	}
	r.files[category] = append(r.files[category], path)
}

// Files returns the paths recorded for category
func (r *Registry) Files(category string) []string {
	return r.files[category]
}

// Categories returns the category names in table order
func (r *Registry) Categories() []string {
	return r.order
}

// Total returns the number of registered files across all categories
func (r *Registry) Total() int {
	total := 0
	for _, files := range r.files {
		total += len(files)
	}
	return total
}

// ExtensionSet is a deduplicated set of extensions
type ExtensionSet map[string]struct{}

// Add records ext
func (s ExtensionSet) Add(ext string) {
	s[ext] = struct{}{}
}

// Contains reports whether ext was recorded
func (s ExtensionSet) Contains(ext string) bool {
	_, ok := s[ext]
	return ok
}

// Sorted returns the recorded extensions in ascending order
func (s ExtensionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for ext := range s {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Inventory is the outcome of the classification pass
type Inventory struct {
	Registry *Registry
	All      ExtensionSet
	Unknown  ExtensionSet
}

// NewInventory creates an empty inventory for the given categories
func NewInventory(categories []Category) *Inventory {
	return &Inventory{
		Registry: NewRegistry(categories),
		All:      make(ExtensionSet),
		Unknown:  make(ExtensionSet),
	}
}

// RenameResult summarises the rename pass
type RenameResult struct {
	Renamed  int   `json:"renamed"`
	Aborted  bool  `json:"aborted"`
	AbortErr error `json:"-"`
}

// SortResult summarises the sort pass
type SortResult struct {
	Moved          map[string]int `json:"moved"`
	Extracted      int            `json:"extracted"`
	ExtractedBytes int64          `json:"extracted_bytes"`
	Skipped        int            `json:"skipped"`
}

// CleanupResult summarises the cleanup pass
type CleanupResult struct {
	Removed []string `json:"removed"`
	Failed  []string `json:"failed"`
	Errors  []error  `json:"-"`
}

// RunReport collects the results of one organizer run
type RunReport struct {
	RunID     uuid.UUID     `json:"run_id"`
	Root      string        `json:"root"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Rename    RenameResult  `json:"rename"`
	Inventory *Inventory    `json:"-"`
	Sort      SortResult    `json:"sort"`
	Cleanup   CleanupResult `json:"cleanup"`
	Events    []Event       `json:"events,omitempty"`
}

// Event represents a filesystem change made during a run
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Target    string    `json:"target,omitempty"`
	Category  string    `json:"category,omitempty"`
}

// EventType defines the kinds of changes a run makes
type EventType string

const (
	EventRenamed    EventType = "renamed"
	EventMoved      EventType = "moved"
	EventExtracted  EventType = "extracted"
	EventDirCreated EventType = "dir_created"
	EventDirDeleted EventType = "dir_deleted"
)

// EventHandler receives run events as they happen
type EventHandler func(Event)

// Emit calls h with e when h is set
func (h EventHandler) Emit(e Event) {
	if h != nil {
		h(e)
	}
}
