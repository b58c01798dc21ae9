// Package store owns the mutable form state for one registration session.
//
// The store is the single source of truth for all collected answers.
// Mutation goes through Update so every change is auditable, keeps the
// derived children invariant, and fans out to subscribers through the
// pubsub broker — no implicit re-render triggers.
package store

import (
	"context"
	"sync"

	"regwiz/internal/log"
	"regwiz/internal/pubsub"
	"regwiz/internal/registration"
)

// Store is a mutable, single-owner container for registration.FormData.
type Store struct {
	mu     sync.RWMutex
	data   registration.FormData
	broker *pubsub.Broker[registration.FormData]
}

// New creates a store initialized with the session defaults.
func New() *Store {
	return &Store{
		data:   registration.Defaults(),
		broker: pubsub.NewBroker[registration.FormData](),
	}
}

// Data returns a deep-copied snapshot of the current form state.
func (s *Store) Data() registration.FormData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Update applies fn to the form state under the store lock, then restores
// the derived invariants and publishes the change. fn must not retain the
// pointer past the call.
func (s *Store) Update(fn func(*registration.FormData)) {
	s.mu.Lock()
	fn(&s.data)
	s.data.Normalize()
	snapshot := s.data.Clone()
	s.mu.Unlock()

	s.broker.Publish(pubsub.ChangedEvent, snapshot)
}

// SetBracketCounts reshapes the children list for the given per-bracket
// counts via the pure reducer. numberOfChildren tracks the sum of the
// counts; it is never set directly.
func (s *Store) SetBracketCounts(counts registration.BracketCounts) {
	log.Debug(log.CatForm, "Syncing children brackets",
		"above11", counts[registration.BracketAbove11],
		"6to11", counts[registration.Bracket6To11],
		"under6", counts[registration.BracketUnder6])
	s.Update(func(f *registration.FormData) {
		f.FamilyParticipation.Children = registration.SyncChildren(f.FamilyParticipation.Children, counts)
	})
}

// Replace swaps the entire form state, e.g. when a draft is loaded.
func (s *Store) Replace(data registration.FormData) {
	s.mu.Lock()
	s.data = data.Clone()
	s.data.Normalize()
	snapshot := s.data.Clone()
	s.mu.Unlock()

	log.Info(log.CatForm, "Form state replaced")
	s.broker.Publish(pubsub.LoadedEvent, snapshot)
}

// Reset restores the defaults, e.g. after a completed submission.
func (s *Store) Reset() {
	s.mu.Lock()
	s.data = registration.Defaults()
	snapshot := s.data.Clone()
	s.mu.Unlock()

	log.Info(log.CatForm, "Form state reset to defaults")
	s.broker.Publish(pubsub.ClearedEvent, snapshot)
}

// Subscribe returns a channel of state snapshots, closed when ctx ends.
func (s *Store) Subscribe(ctx context.Context) <-chan pubsub.Event[registration.FormData] {
	return s.broker.Subscribe(ctx)
}

// Close shuts down the change broker.
func (s *Store) Close() {
	s.broker.Close()
}
