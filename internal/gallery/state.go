package gallery

import (
	"sync"

	"github.com/lumiforge/video-bridge/internal/backend"
)

// Phase of the most recent list load.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseRendered
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseRendered:
		return "rendered"
	case PhaseError:
		return "error"
	}
	return "idle"
}

// State is a copy of the client selection state and the current page of
// videos. Render functions take it by value.
type State struct {
	Videos         []backend.VideoRecord
	Total          int
	CurrentVideoID *int64
	CurrentPage    int
	StatusFilter   string
	Phase          Phase
	LoadErr        error
}

// Store owns State. Every list load gets a sequence number and only the
// latest one may publish its result.
type Store struct {
	mu    sync.Mutex
	state State
	seq   uint64
}

func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a copy safe to read without the lock.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Store) copyLocked() State {
	st := s.state
	st.Videos = append([]backend.VideoRecord(nil), s.state.Videos...)
	if s.state.CurrentVideoID != nil {
		id := *s.state.CurrentVideoID
		st.CurrentVideoID = &id
	}
	return st
}

// BeginLoad marks a new load and returns its sequence number and query.
func (s *Store) BeginLoad() (uint64, backend.ListParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state.Phase = PhaseLoading
	return s.seq, backend.ListParams{
		Skip:   s.state.CurrentPage * PageSize,
		Limit:  PageSize,
		Status: s.state.StatusFilter,
	}
}

// FinishLoad publishes a page. It reports false when a newer load started
// meanwhile; the result is then dropped.
func (s *Store) FinishLoad(seq uint64, list *backend.VideoList) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.state.Videos = append([]backend.VideoRecord(nil), list.Videos...)
	s.state.Total = list.Total
	s.state.Phase = PhaseRendered
	s.state.LoadErr = nil

	// выбранное видео могло исчезнуть со страницы
	if id := s.state.CurrentVideoID; id != nil && s.indexLocked(*id) < 0 {
		s.state.CurrentVideoID = nil
	}
	return true
}

func (s *Store) FailLoad(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.state.Phase = PhaseError
	s.state.LoadErr = err
	return true
}

// SetFilter changes the status filter and resets the page to 0.
func (s *Store) SetFilter(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.StatusFilter = status
	s.state.CurrentPage = 0
}

// SetPage moves to page p if it exists for the last loaded total. Page 0
// always exists, even for an empty gallery.
func (s *Store) SetPage(p int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p < 0 || (p > 0 && p >= TotalPages(s.state.Total)) {
		return false
	}
	s.state.CurrentPage = p
	return true
}

// Select marks id as featured if it is on the loaded page.
func (s *Store) Select(id int64) (backend.VideoRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return backend.VideoRecord{}, false
	}
	s.state.CurrentVideoID = &id
	return s.state.Videos[i], true
}

// ClearSelection drops the featured video if it is id.
func (s *Store) ClearSelection(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentVideoID == nil || *s.state.CurrentVideoID != id {
		return false
	}
	s.state.CurrentVideoID = nil
	return true
}

// IndexOf returns the position of id on the loaded page, or -1.
func (s *Store) IndexOf(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id)
}

func (s *Store) indexLocked(id int64) int {
	for i, v := range s.state.Videos {
		if v.ID == id {
			return i
		}
	}
	return -1
}
