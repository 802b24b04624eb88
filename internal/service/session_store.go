package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"ai-studyguide-be/internal/constant"
	"ai-studyguide-be/internal/entity"
	"ai-studyguide-be/internal/mapper"
	"ai-studyguide-be/internal/repository/memory"
	"ai-studyguide-be/internal/repository/specification"
	"ai-studyguide-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// SessionStore is the single access path to session state. It layers the
// in-process cache over the snapshot table: FILE_UPLOAD sessions live only in
// the cache, every other state is written through to the database so progress
// survives a restart.
type SessionStore struct {
	cache      *memory.SessionCache
	uowFactory unitofwork.RepositoryFactory

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewSessionStore(cache *memory.SessionCache, uowFactory unitofwork.RepositoryFactory) *SessionStore {
	return &SessionStore{
		cache:      cache,
		uowFactory: uowFactory,
		locks:      make(map[uuid.UUID]*sync.Mutex),
	}
}

// lock returns the mutex serializing access to one session. Request handlers
// and the pipeline goroutine both mutate sessions, so every read-modify-write
// goes through Mutate.
func (s *SessionStore) lock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// NewSession builds a fresh FILE_UPLOAD session.
func NewSession(id uuid.UUID) *entity.StudySession {
	return &entity.StudySession{
		Id:              id,
		State:           entity.StateFileUpload,
		BackgroundTopic: constant.BackgroundUpload,
		SelectedModel:   constant.DefaultModel,
		CreatedAt:       time.Now(),
	}
}

// Load returns the session, falling back to the snapshot row on a cache
// miss. A snapshot that fails to decode is discarded and the session starts
// over in FILE_UPLOAD with the same id. A missing session returns nil.
func (s *SessionStore) Load(ctx context.Context, id uuid.UUID) (*entity.StudySession, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.StudySessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		if errors.Is(err, mapper.ErrCorruptSnapshot) {
			if delErr := uow.StudySessionRepository().Delete(ctx, id); delErr != nil {
				return nil, delErr
			}
			fresh := NewSession(id)
			s.cache.Save(fresh)
			return fresh, nil
		}
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	s.cache.Save(session)
	return session, nil
}

// Save writes the session to the cache and, unless it is in FILE_UPLOAD,
// through to the database. Returning to FILE_UPLOAD deletes the row, so a
// restored session never resumes into a cleared state.
func (s *SessionStore) Save(ctx context.Context, session *entity.StudySession) error {
	now := time.Now()
	session.UpdatedAt = &now
	s.cache.Save(session)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.StudySessionRepository()

	if session.State == entity.StateFileUpload {
		return repo.Delete(ctx, session.Id)
	}

	existing, err := repo.FindOne(ctx, specification.ByID{ID: session.Id})
	if err != nil && !errors.Is(err, mapper.ErrCorruptSnapshot) {
		return err
	}
	if existing == nil {
		return repo.Create(ctx, session)
	}
	return repo.Update(ctx, session)
}

// Reset returns the session to a fresh FILE_UPLOAD while holding its lock.
// Embeddings and the snapshot row are removed in the same critical section,
// so a concurrent Load never sees the session missing mid-reset. A nil
// session means not found.
func (s *SessionStore) Reset(ctx context.Context, id uuid.UUID) (*entity.StudySession, error) {
	l := s.lock(id)
	l.Lock()
	defer l.Unlock()

	session, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	fresh := NewSession(id)
	fresh.CreatedAt = session.CreatedAt

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.GuideEmbeddingRepository().DeleteBySessionId(ctx, id); err != nil {
		return nil, err
	}
	// Save on FILE_UPLOAD caches the fresh session and deletes the row.
	if err := s.Save(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Mutate runs fn on the session under its lock and saves the result. fn
// returning an error aborts the save. A nil session means not found.
func (s *SessionStore) Mutate(ctx context.Context, id uuid.UUID, fn func(*entity.StudySession) error) (*entity.StudySession, error) {
	l := s.lock(id)
	l.Lock()
	defer l.Unlock()

	session, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
