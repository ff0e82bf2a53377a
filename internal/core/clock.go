package core

import (
	"time"

	"github.com/jamwave/jamroom/internal/domain"
)

// tick recomputes elapsed playback time from the wall clock. When the current
// track has run out it advances to the next queued track and reports true.
// Overshoot is not carried over; the next track starts at zero with a fresh
// StartedAt.
func (s *State) tick(now time.Time) bool {
	if !s.Playing || s.Current == nil || s.StartedAt == nil {
		return false
	}
	elapsed := now.Sub(*s.StartedAt).Milliseconds()
	if elapsed >= s.Current.DurationMS {
		s.advance(now)
		return true
	}
	s.CurrentMS = elapsed
	return false
}

// advance moves the queue head into the current slot, or clears playback
// entirely when the queue is empty. The DJ for the new track is derived while
// the track still sits at the queue head, so first-play attribution can see
// who added it.
func (s *State) advance(now time.Time) {
	if len(s.Queue) == 0 {
		s.Current = nil
		s.Playing = false
		s.CurrentMS = 0
		s.StartedAt = nil
		s.CurrentDJ = nil
		return
	}
	dj := s.nextDJ()
	head := s.Queue[0]
	s.Queue = append(make([]domain.Track, 0, len(s.Queue)-1), s.Queue[1:]...)
	s.Current = &head
	s.Playing = true
	s.CurrentMS = 0
	startedAt := now
	s.StartedAt = &startedAt
	s.CurrentDJ = dj
}

// resume restarts the clock treating the stored CurrentMS as the authoritative
// offset; paused intervals never count towards elapsed time.
func (s *State) resume(now time.Time) {
	if s.Current == nil {
		return
	}
	s.Playing = true
	startedAt := now.Add(-time.Duration(s.CurrentMS) * time.Millisecond)
	s.StartedAt = &startedAt
}

// pause captures the exact elapsed time at the pause instant, then stops the
// clock. StartedAt is left stale; resume recomputes it.
func (s *State) pause(now time.Time) {
	if s.Current == nil {
		return
	}
	s.tick(now)
	if s.Current != nil {
		s.Playing = false
	}
}
