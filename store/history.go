package store

import (
	"sort"
	"time"
)

// DefaultTitle is recorded for pages that do not name themselves
const DefaultTitle = "Untitled"

// HistoryEntry is a visited page. URL is the identity key.
type HistoryEntry struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Icon      string `json:"icon,omitempty"`
	Timestamp int64  `json:"timestamp"` // last visit, unix milliseconds
	Visits    int    `json:"visits,omitempty"`
}

// LastVisit returns the entry's timestamp as a time
func (e HistoryEntry) LastVisit() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// History is the history view of the database, keyed by URL
type History struct {
	db *DB
}

// NewHistory creates the history view of db
func NewHistory(db *DB) *History {
	return &History{db: db}
}

// Get returns the entry for url
func (h *History) Get(url string) (HistoryEntry, bool) {
	var entry HistoryEntry
	var ok bool
	h.db.View(func(d *Data) {
		entry, ok = d.History[url]
	})
	return entry, ok
}

// Set stores entry under its URL
func (h *History) Set(entry HistoryEntry) error {
	return h.db.Update(func(d *Data) error {
		d.History[entry.URL] = entry
		return nil
	})
}

// Delete removes the entry for url, leaving every other entry untouched
func (h *History) Delete(url string) error {
	return h.db.Update(func(d *Data) error {
		delete(d.History, url)
		return nil
	})
}

// Record notes a successful page load. An existing entry keeps its identity
// and gets a fresh title, icon and timestamp.
func (h *History) Record(url, title, icon string, now time.Time) error {
	if title == "" {
		title = DefaultTitle
	}
	return h.db.Update(func(d *Data) error {
		entry := d.History[url]
		entry.URL = url
		entry.Title = title
		entry.Icon = icon
		entry.Timestamp = now.UnixMilli()
		if entry.Visits == 0 {
			entry.Visits = 1
		}
		d.History[url] = entry
		return nil
	})
}

// Visit counts a deliberate open of an entry, which is what frecency ranks on
func (h *History) Visit(url string, now time.Time) error {
	return h.db.Update(func(d *Data) error {
		entry, ok := d.History[url]
		if !ok {
			return nil
		}
		entry.Visits++
		entry.Timestamp = now.UnixMilli()
		d.History[url] = entry
		return nil
	})
}

// Entries returns all entries ordered by URL
func (h *History) Entries() []HistoryEntry {
	var entries []HistoryEntry
	h.db.View(func(d *Data) {
		entries = make([]HistoryEntry, 0, len(d.History))
		for _, e := range d.History {
			entries = append(entries, e)
		}
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].URL < entries[j].URL
	})
	return entries
}

// Ranked returns all entries, most frecent first
func (h *History) Ranked(now time.Time) []HistoryEntry {
	entries := h.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		si, sj := Frecency(entries[i], now), Frecency(entries[j], now)
		if si != sj {
			return si > sj
		}
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp > entries[j].Timestamp
		}
		return entries[i].URL < entries[j].URL
	})
	return entries
}

// Frecency scores an entry by visit count weighted by how recent the last visit was
func Frecency(e HistoryEntry, now time.Time) float64 {
	visits := e.Visits
	if visits < 1 {
		visits = 1
	}

	age := now.Sub(e.LastVisit())
	day := 24 * time.Hour
	var weight float64
	switch {
	case age <= 4*day:
		weight = 100
	case age <= 14*day:
		weight = 70
	case age <= 31*day:
		weight = 50
	case age <= 90*day:
		weight = 30
	default:
		weight = 10
	}
	return float64(visits) * weight
}
