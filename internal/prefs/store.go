// Package prefs holds per-user preference records with explicit and implicit
// update paths.
package prefs

import (
	"strings"
	"sync"
)

// Dietary holds dietary flags.
type Dietary struct {
	VegOnly      bool `json:"veg_only,omitempty"`
	StreetFoodOK bool `json:"street_food_ok,omitempty"`
}

// Preferences is a user's preference record. Explicit fields are overwritten
// by SetPreferences; counters and logs only ever grow.
type Preferences struct {
	Mood           string   `json:"mood,omitempty"`
	Interests      []string `json:"interests"`
	TimePreference string   `json:"time_preference,omitempty"`
	Companion      string   `json:"companion,omitempty"`
	Dietary        Dietary  `json:"dietary,omitempty"`
	Likes          []string `json:"likes"`
	LastQueries    []string `json:"last_queries"`
	TagCounts      *Counter `json:"tag_counts"`
	IntentCounts   *Counter `json:"intent_counts"`
}

// Update carries an explicit preference update; nil fields are left untouched.
type Update struct {
	Mood           *string   `json:"mood,omitempty"`
	Interests      *[]string `json:"interests,omitempty"`
	TimePreference *string   `json:"time_preference,omitempty"`
	Dietary        *Dietary  `json:"dietary,omitempty"`
	Companion      *string   `json:"companion,omitempty"`
}

func newPreferences() *Preferences {
	return &Preferences{
		Interests:    []string{},
		Likes:        []string{},
		LastQueries:  []string{},
		TagCounts:    NewCounter(),
		IntentCounts: NewCounter(),
	}
}

// Store is a concurrency-safe keyed preference store. Records are created
// lazily on first access and live for the process lifetime; updates for the
// same user are serialized so counter increments are never lost.
type Store struct {
	mu    sync.RWMutex
	users map[string]*userRecord
}

type userRecord struct {
	mu sync.Mutex
	p  *Preferences
}

// NewStore returns an empty preference store.
func NewStore() *Store {
	return &Store{users: make(map[string]*userRecord)}
}

func (s *Store) record(userID string) *userRecord {
	s.mu.RLock()
	rec, ok := s.users[userID]
	s.mu.RUnlock()
	if ok {
		return rec
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok = s.users[userID]; ok {
		return rec
	}
	rec = &userRecord{p: newPreferences()}
	s.users[userID] = rec
	return rec
}

// Get returns a copy of the user's preference record, creating it with
// defaults if absent. Never nil.
func (s *Store) Get(userID string) Preferences {
	rec := s.record(userID)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return copyPreferences(rec.p)
}

// SetPreferences overwrites the fields present in update and returns the
// resulting record. Interests are coerced to trimmed non-empty strings.
func (s *Store) SetPreferences(userID string, update Update) Preferences {
	rec := s.record(userID)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	p := rec.p
	if update.Mood != nil {
		p.Mood = *update.Mood
	}
	if update.Interests != nil {
		interests := make([]string, 0, len(*update.Interests))
		for _, in := range *update.Interests {
			if t := strings.TrimSpace(in); t != "" {
				interests = append(interests, t)
			}
		}
		p.Interests = interests
	}
	if update.TimePreference != nil {
		p.TimePreference = *update.TimePreference
	}
	if update.Dietary != nil {
		p.Dietary = *update.Dietary
	}
	if update.Companion != nil {
		p.Companion = *update.Companion
	}
	return copyPreferences(p)
}

// RecordInteraction learns implicitly from an exchange: it appends the query
// to the log and increments tag/intent counters for every vocabulary entry
// whose keyword appears in the lowercased query+answer text. Counters only
// grow; nothing is ever removed.
func (s *Store) RecordInteraction(userID, query, answer string) {
	rec := s.record(userID)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	p := rec.p
	p.LastQueries = append(p.LastQueries, query)

	text := strings.ToLower(query + " " + answer)
	for _, kw := range likeKeywords {
		if strings.Contains(text, kw) && !contains(p.Likes, kw) {
			p.Likes = append(p.Likes, kw)
		}
	}
	for _, entry := range tagVocab {
		if containsAny(text, entry.keywords) {
			p.TagCounts.Inc(entry.key)
		}
	}
	for _, entry := range intentVocab {
		if containsAny(text, entry.keywords) {
			p.IntentCounts.Inc(entry.key)
		}
	}
}

// TopTags returns the user's k most reinforced tags, insertion-stable on ties.
func (s *Store) TopTags(userID string, k int) []string {
	rec := s.record(userID)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.p.TagCounts.Top(k)
}

// TopIntents returns the user's k most reinforced intents.
func (s *Store) TopIntents(userID string, k int) []string {
	rec := s.record(userID)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.p.IntentCounts.Top(k)
}

// LowerInterests returns the user's explicit interests lowercased.
func (p *Preferences) LowerInterests() []string {
	out := make([]string, len(p.Interests))
	for i, in := range p.Interests {
		out[i] = strings.ToLower(in)
	}
	return out
}

func copyPreferences(p *Preferences) Preferences {
	out := *p
	out.Interests = append([]string{}, p.Interests...)
	out.Likes = append([]string{}, p.Likes...)
	out.LastQueries = append([]string{}, p.LastQueries...)
	out.TagCounts = p.TagCounts.clone()
	out.IntentCounts = p.IntentCounts.clone()
	return out
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
