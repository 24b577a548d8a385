package assessment

import (
	"context"
	"time"
)

// SessionRepository stores respondent sessions until they expire.
// Implementations store and return copies; callers never share a Session.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	// Save replaces an existing, unexpired session wholesale.
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// storedSession is the serialised form of a Session.
type storedSession struct {
	ID          string          `json:"id"`
	Submitted   bool            `json:"submitted"`
	Sections    []SectionRecord `json:"sections,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	SubmittedAt *time.Time      `json:"submitted_at,omitempty"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

func toStored(s *Session) storedSession {
	st := storedSession{
		ID:          s.ID,
		Submitted:   s.Submitted,
		CreatedAt:   s.CreatedAt,
		SubmittedAt: s.SubmittedAt,
		ExpiresAt:   s.ExpiresAt,
	}
	if s.Record != nil {
		st.Sections = s.Record.Clone().Sections
	}
	return st
}

func (st storedSession) toSession() *Session {
	s := &Session{
		ID:          st.ID,
		Submitted:   st.Submitted,
		CreatedAt:   st.CreatedAt,
		SubmittedAt: st.SubmittedAt,
		ExpiresAt:   st.ExpiresAt,
	}
	if st.Submitted {
		s.Record = (&Record{Sections: st.Sections}).Clone()
	}
	return s
}
