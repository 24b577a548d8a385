package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/tcm/intake/internal/domain/catalog"
	"github.com/tcm/intake/internal/platform/export"
	"github.com/tcm/intake/internal/platform/fhir"
)

type Service struct {
	cat  *catalog.Catalog
	repo SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewService(cat *catalog.Catalog, repo SessionRepository, ttl time.Duration) *Service {
	return &Service{cat: cat, repo: repo, ttl: ttl, now: time.Now}
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.cat
}

// Evaluate checks the answers against the catalog and assembles a record
// without touching any session.
func (s *Service) Evaluate(a Answers) (*Record, error) {
	if err := Conform(s.cat, a); err != nil {
		return nil, err
	}
	return Assemble(s.cat, a, s.now())
}

func (s *Service) StartSession(ctx context.Context) (*Session, error) {
	now := s.now()
	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) GetSession(ctx context.Context, id string) (*Session, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) EndSession(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Submit runs a submission attempt. On success the session's record is
// replaced and marked submitted in one write; on any failure the stored
// session is left as it was.
func (s *Service) Submit(ctx context.Context, id string, a Answers) (*Record, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rec, err := s.Evaluate(a)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess.Record = rec
	sess.Submitted = true
	sess.SubmittedAt = &now
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return rec, nil
}

// Current returns the session and its record, failing with ErrNotSubmitted
// until a submission has been accepted.
func (s *Service) Current(ctx context.Context, id string) (*Session, *Record, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !sess.Submitted || sess.Record == nil {
		return sess, nil, goerr.Wrap(ErrNotSubmitted, "session has no record", goerr.V("session_id", id))
	}
	return sess, sess.Record, nil
}

func (s *Service) Rows(ctx context.Context, id string) ([]FlatRow, error) {
	_, rec, err := s.Current(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Flatten(), nil
}

func (s *Service) Summary(ctx context.Context, id string) (*Summary, error) {
	_, rec, err := s.Current(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Summary(), nil
}

func (s *Service) Export(ctx context.Context, id string, f export.Format) (*Download, error) {
	_, rec, err := s.Current(ctx, id)
	if err != nil {
		return nil, err
	}
	return Export(s.cat, rec, f)
}

func (s *Service) QuestionnaireResponse(ctx context.Context, id string) (*fhir.QuestionnaireResponse, error) {
	sess, rec, err := s.Current(ctx, id)
	if err != nil {
		return nil, err
	}
	authored := sess.CreatedAt
	if sess.SubmittedAt != nil {
		authored = *sess.SubmittedAt
	}
	return rec.ToFHIR(sess.ID, authored), nil
}
