package core

import (
	"time"

	"github.com/jamwave/jamroom/internal/domain"
)

// State is the authoritative per-room playback snapshot. It is a plain value
// holder; Room serializes all access to it.
//
// Invariant: Current == nil implies Playing == false, CurrentMS == 0,
// StartedAt == nil and CurrentDJ == nil.
type State struct {
	Current   *domain.Track
	Queue     []domain.Track
	Roster    []domain.Participant
	CurrentDJ *domain.ParticipantID
	Playing   bool
	CurrentMS int64
	StartedAt *time.Time
}

// Snapshot is the full state pushed to clients after every mutation.
// StartedAt is unix milliseconds, null while nothing plays.
type Snapshot struct {
	RoomID       domain.RoomID         `json:"roomId"`
	CurrentTrack *domain.Track         `json:"currentTrack"`
	Queue        []domain.Track        `json:"queue"`
	Users        []domain.Participant  `json:"users"`
	CurrentDJ    *domain.ParticipantID `json:"currentDJ"`
	IsPlaying    bool                  `json:"isPlaying"`
	CurrentTime  int64                 `json:"currentTime"`
	StartedAt    *int64                `json:"startedAt"`
}

func (s *State) snapshot(roomID domain.RoomID) Snapshot {
	queue := make([]domain.Track, len(s.Queue))
	copy(queue, s.Queue)
	users := make([]domain.Participant, len(s.Roster))
	copy(users, s.Roster)

	var startedAt *int64
	if s.StartedAt != nil {
		ms := s.StartedAt.UnixMilli()
		startedAt = &ms
	}
	var current *domain.Track
	if s.Current != nil {
		c := *s.Current
		current = &c
	}
	var dj *domain.ParticipantID
	if s.CurrentDJ != nil {
		d := *s.CurrentDJ
		dj = &d
	}

	return Snapshot{
		RoomID:       roomID,
		CurrentTrack: current,
		Queue:        queue,
		Users:        users,
		CurrentDJ:    dj,
		IsPlaying:    s.Playing,
		CurrentTime:  s.CurrentMS,
		StartedAt:    startedAt,
	}
}

func (s *State) rosterIndex(id domain.ParticipantID) int {
	for i, p := range s.Roster {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// upsertParticipant replaces an existing roster entry in place so rotation
// order survives a reconnect with the same id; otherwise it appends.
func (s *State) upsertParticipant(p domain.Participant) {
	if i := s.rosterIndex(p.ID); i >= 0 {
		s.Roster[i] = p
		return
	}
	s.Roster = append(s.Roster, p)
}

func (s *State) removeParticipant(id domain.ParticipantID) bool {
	i := s.rosterIndex(id)
	if i < 0 {
		return false
	}
	s.Roster = append(s.Roster[:i], s.Roster[i+1:]...)
	return true
}

// removeQueued drops the first queued track matching id. The currently
// playing track is not in the queue, so it can never be removed here.
func (s *State) removeQueued(trackID string) bool {
	for i, t := range s.Queue {
		if t.ID == trackID {
			s.Queue = append(s.Queue[:i], s.Queue[i+1:]...)
			return true
		}
	}
	return false
}
