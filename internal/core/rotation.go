package core

import "github.com/jamwave/jamroom/internal/domain"

// nextDJ picks the participant credited with the upcoming track.
//
// With no current DJ the credit goes to whoever added the track at the front
// of the queue, or nobody if they already disconnected. With a current DJ the
// credit rotates round-robin over roster positions, regardless of who queued
// the track. A DJ that already left the roster rotates to position zero.
func (s *State) nextDJ() *domain.ParticipantID {
	if len(s.Queue) == 0 {
		return nil
	}
	if s.CurrentDJ == nil {
		adder := s.Queue[0].AddedBy
		if s.rosterIndex(adder) >= 0 {
			return &adder
		}
		return nil
	}
	if len(s.Roster) == 0 {
		return nil
	}
	i := s.rosterIndex(*s.CurrentDJ)
	next := s.Roster[(i+1)%len(s.Roster)].ID
	return &next
}
