package domain

import (
	"slices"
	"sync/atomic"
	"time"
)

// nationalSlot is one ingested national feed. Slots are never mutated after
// they are published.
type nationalSlot struct {
	records    []Record
	ingestedAt time.Time
	generation uint64
}

type statesSlot struct {
	byState    map[string][]Record
	codes      []string
	ingestedAt time.Time
	generation uint64
}

// RecordStore holds the national series and the per-state series, each in
// ascending date order. The two feeds land in separate atomically swapped
// slots, so a national ingest and a state ingest may run concurrently without
// locking. Slices returned by the store are shared and must not be modified.
type RecordStore struct {
	national   atomic.Pointer[nationalSlot]
	states     atomic.Pointer[statesSlot]
	generation atomic.Uint64
}

// NewRecordStore returns an empty store.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// IngestNational stores a newest-first national feed in ascending order.
// An empty feed is ignored and any previously ingested series is kept.
func (s *RecordStore) IngestNational(records []Record) {
	if len(records) == 0 {
		return
	}
	s.national.Store(&nationalSlot{
		records:    reversed(records),
		ingestedAt: clock.Now(),
		generation: s.generation.Add(1),
	})
}

// IngestStates stores a newest-first per-state feed, grouped by region code.
// Grouping is stable: records of one region keep their relative order after
// reversal. An empty feed is ignored.
func (s *RecordStore) IngestStates(records []Record) {
	if len(records) == 0 {
		return
	}
	byState := make(map[string][]Record)
	for _, r := range reversed(records) {
		byState[r.State] = append(byState[r.State], r)
	}
	codes := make([]string, 0, len(byState))
	for code := range byState {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	s.states.Store(&statesSlot{
		byState:    byState,
		codes:      codes,
		ingestedAt: clock.Now(),
		generation: s.generation.Add(1),
	})
}

// National returns the national series and whether it has been ingested.
func (s *RecordStore) National() ([]Record, bool) {
	slot := s.national.Load()
	if slot == nil {
		return nil, false
	}
	return slot.records, true
}

// State returns one region's series.
func (s *RecordStore) State(code string) ([]Record, bool) {
	slot := s.states.Load()
	if slot == nil {
		return nil, false
	}
	records, ok := slot.byState[code]
	return records, ok
}

// RegionCodes returns every region code in the per-state feed, sorted.
func (s *RecordStore) RegionCodes() []string {
	slot := s.states.Load()
	if slot == nil {
		return nil
	}
	return slices.Clone(slot.codes)
}

// ResolveScope returns scope if it names a stored region and NationalScope otherwise.
func (s *RecordStore) ResolveScope(scope string) string {
	if scope == NationalScope {
		return NationalScope
	}
	if _, ok := s.State(scope); ok {
		return scope
	}
	return NationalScope
}

// Series returns the series for a scope after resolving it. The national
// series is nil until the national feed has been ingested.
func (s *RecordStore) Series(scope string) (string, []Record) {
	resolved, records, _ := s.Snapshot(scope)
	return resolved, records
}

// Snapshot is Series plus the generation of the ingest that produced the
// returned records. Records and generation always come from the same ingest.
func (s *RecordStore) Snapshot(scope string) (string, []Record, uint64) {
	if scope != NationalScope {
		if slot := s.states.Load(); slot != nil {
			if records, ok := slot.byState[scope]; ok {
				return scope, records, slot.generation
			}
		}
	}
	slot := s.national.Load()
	if slot == nil {
		return NationalScope, nil, 0
	}
	return NationalScope, slot.records, slot.generation
}

// NationalReady reports whether a national feed has been ingested.
func (s *RecordStore) NationalReady() bool { return s.national.Load() != nil }

// StatesReady reports whether a per-state feed has been ingested.
func (s *RecordStore) StatesReady() bool { return s.states.Load() != nil }

// NationalIngestedAt returns when the current national series was stored.
func (s *RecordStore) NationalIngestedAt() time.Time {
	if slot := s.national.Load(); slot != nil {
		return slot.ingestedAt
	}
	return time.Time{}
}

// StatesIngestedAt returns when the current per-state series were stored.
func (s *RecordStore) StatesIngestedAt() time.Time {
	if slot := s.states.Load(); slot != nil {
		return slot.ingestedAt
	}
	return time.Time{}
}

// Generation increases by one on every successful ingest of either feed.
func (s *RecordStore) Generation() uint64 {
	return s.generation.Load()
}

func reversed(records []Record) []Record {
	out := slices.Clone(records)
	slices.Reverse(out)
	return out
}
