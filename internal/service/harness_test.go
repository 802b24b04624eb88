package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"ai-studyguide-be/internal/dto"
	"ai-studyguide-be/internal/entity"
	"ai-studyguide-be/internal/mapper"
	"ai-studyguide-be/internal/model"
	"ai-studyguide-be/internal/repository/contract"
	"ai-studyguide-be/internal/repository/memory"
	"ai-studyguide-be/internal/repository/specification"
	"ai-studyguide-be/internal/repository/unitofwork"
	"ai-studyguide-be/pkg/extract"
	"ai-studyguide-be/pkg/genai"
	"ai-studyguide-be/pkg/study"
)

// fakeSessionRepo keeps snapshot rows in memory, going through the real
// mapper so serialization faults surface the same way they would with the
// database.
type fakeSessionRepo struct {
	mu     sync.Mutex
	rows   map[uuid.UUID]*model.StudySession
	mapper *mapper.SessionMapper
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		rows:   make(map[uuid.UUID]*model.StudySession),
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.StudySession) error {
	m, err := r.mapper.ToModel(session)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[m.Id] = m
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.StudySession) error {
	return r.Create(ctx, session)
}

func (r *fakeSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.StudySession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			row, found := r.rows[byId.ID]
			if !found {
				return nil, nil
			}
			return r.mapper.ToEntity(row)
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.StudySession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.StudySession, 0, len(r.rows))
	for _, row := range r.rows {
		e, err := r.mapper.ToEntity(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *fakeSessionRepo) row(id uuid.UUID) (*model.StudySession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	return row, ok
}

func (r *fakeSessionRepo) put(row *model.StudySession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[row.Id] = row
}

type fakeEmbeddingRepo struct {
	mu      sync.Mutex
	chunks  map[uuid.UUID][]*entity.GuideEmbedding
	scored  []*contract.ScoredGuideEmbedding
	lastQuery struct {
		limit     int
		threshold float64
		sessionId uuid.UUID
	}
}

func newFakeEmbeddingRepo() *fakeEmbeddingRepo {
	return &fakeEmbeddingRepo{chunks: make(map[uuid.UUID][]*entity.GuideEmbedding)}
}

func (r *fakeEmbeddingRepo) CreateBulk(_ context.Context, embeddings []*entity.GuideEmbedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range embeddings {
		r.chunks[e.SessionId] = append(r.chunks[e.SessionId], e)
	}
	return nil
}

func (r *fakeEmbeddingRepo) DeleteBySessionId(_ context.Context, sessionId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chunks, sessionId)
	return nil
}

func (r *fakeEmbeddingRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.GuideEmbedding, error) {
	return nil, nil
}

func (r *fakeEmbeddingRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, c := range r.chunks {
		total += len(c)
	}
	return int64(total), nil
}

func (r *fakeEmbeddingRepo) SearchSimilarWithScore(_ context.Context, _ []float32, limit int, sessionId uuid.UUID, threshold float64) ([]*contract.ScoredGuideEmbedding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery.limit = limit
	r.lastQuery.threshold = threshold
	r.lastQuery.sessionId = sessionId
	return r.scored, nil
}

type fakeUnitOfWork struct {
	sessions   *fakeSessionRepo
	embeddings *fakeEmbeddingRepo
}

func (u *fakeUnitOfWork) Begin(_ context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                 { return nil }
func (u *fakeUnitOfWork) Rollback() error               { return nil }

func (u *fakeUnitOfWork) StudySessionRepository() contract.StudySessionRepository {
	return u.sessions
}

func (u *fakeUnitOfWork) GuideEmbeddingRepository() contract.GuideEmbeddingRepository {
	return u.embeddings
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type recorderNotifier struct {
	mu     sync.Mutex
	events []dto.ProgressEvent
}

func (n *recorderNotifier) NotifyProgress(_ uuid.UUID, event dto.ProgressEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recorderNotifier) all() []dto.ProgressEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]dto.ProgressEvent, len(n.events))
	copy(out, n.events)
	return out
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *recordingPublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

type fakeEmbedder struct {
	mu       sync.Mutex
	lastText string
	lastTask string
}

func (f *fakeEmbedder) Generate(_ context.Context, text string, taskType string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastText = text
	f.lastTask = taskType
	return []float32{0.1, 0.2, 0.3}, nil
}

// scriptedClient answers GenerateStructured calls in order from a queue of
// canned JSON payloads, optionally blocking on a gate first.
type scriptedClient struct {
	mu        sync.Mutex
	responses []scriptedResponse
	calls     int
}

type scriptedResponse struct {
	gate chan struct{} // when non-nil, the call blocks until the gate closes
	json string
	err  error
}

func (f *scriptedClient) GenerateStructured(_ context.Context, _ string, _ string, _ *genai.Schema, out interface{}) error {
	f.mu.Lock()
	if len(f.responses) == 0 {
		f.mu.Unlock()
		panic("scriptedClient: no response scripted for this call")
	}
	res := f.responses[0]
	f.responses = f.responses[1:]
	f.calls++
	f.mu.Unlock()

	if res.gate != nil {
		<-res.gate
	}
	if res.err != nil {
		return res.err
	}
	return json.Unmarshal([]byte(res.json), out)
}

func (f *scriptedClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const (
	verdictContinue = `{"detected_domain":"dentistry","confidence":0.96,"decision":"continue"}`
	verdictMismatch = `{"detected_domain":"computer_science","confidence":0.91,"decision":"stop_domain_mismatch"}`

	guideJSON = `{
		"quick_summary": "Summary of the material.",
		"primary_study": [{"topic_id":"caries","objectives":["o1"],"key_points":["k1"],"examples":[],"citations":[{"page":1,"quote":"q"}]}],
		"secondary_study": [],
		"glossary": [],
		"concept_map": [],
		"micro_quizzes": [{"topic_id":"caries","items":[
			{"qid":"q1","type":"mcq","stem":"What causes caries?","choices":["Bacteria","Wind"],"answer":"Bacteria","explanation":"acid production","citation":{"page":1,"quote":"q"},"bloom":"remember"},
			{"qid":"q2","type":"truefalse","stem":"Enamel regrows.","choices":["True","False"],"answer":"False","explanation":"no cells","citation":{"page":2,"quote":"q"},"bloom":"understand"}
		]}],
		"final_assessment": {"items":[
			{"qid":"f1","type":"mcq","stem":"Pick A.","choices":["A","B"],"answer":"A","explanation":"because","citation":{"page":1,"quote":"q"},"bloom":"apply"}
		],"time_suggestion_minutes":10}
	}`
)

// harness wires the service layer onto in-memory fakes.
type harness struct {
	sessions   *fakeSessionRepo
	embeddings *fakeEmbeddingRepo
	store      *SessionStore
	client     *scriptedClient
	notifier   *recorderNotifier
	publisher  *recordingPublisher
	embedder   *fakeEmbedder

	sessionService ISessionService
	studyService   IStudyService
	quizService    IQuizService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	h := &harness{
		sessions:   newFakeSessionRepo(),
		embeddings: newFakeEmbeddingRepo(),
		client:     &scriptedClient{},
		notifier:   &recorderNotifier{},
		publisher:  &recordingPublisher{},
		embedder:   &fakeEmbedder{},
	}

	factory := &fakeFactory{uow: &fakeUnitOfWork{sessions: h.sessions, embeddings: h.embeddings}}
	h.store = NewSessionStore(memory.NewSessionCache(), factory)

	extractor := extract.NewExtractor(nil, "gemini-2.5-flash")
	guides := study.NewService(h.client, study.Config{})

	h.sessionService = NewSessionService(h.store, nil)
	h.studyService = NewStudyService(h.store, extractor, guides, h.publisher, h.embedder, nil, h.notifier, nopLogger{})
	h.quizService = NewQuizService(h.store)
	return h
}

// newSession saves a fresh FILE_UPLOAD session and returns its id.
func (h *harness) newSession(t *testing.T) uuid.UUID {
	t.Helper()
	res, err := h.sessionService.Create(context.Background())
	require.NoError(t, err)
	return res.Id
}

// seedGuide prepares a STUDY_TOPICS session holding a parsed guide.
func (h *harness) seedGuide(t *testing.T) uuid.UUID {
	t.Helper()
	id := h.newSession(t)
	_, err := h.store.Mutate(context.Background(), id, func(s *entity.StudySession) error {
		var guide study.StudyGuide
		require.NoError(t, json.Unmarshal([]byte(guideJSON), &guide))
		guide.OriginalContent = "seeded source text"
		s.Guide = &guide
		s.State = entity.StateStudyTopics
		return nil
	})
	require.NoError(t, err)
	return id
}

// waitForState polls until the session reaches the expected state.
func (h *harness) waitForState(t *testing.T, id uuid.UUID, state entity.AppState) *entity.StudySession {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		session, err := h.store.Load(context.Background(), id)
		require.NoError(t, err)
		if session != nil && session.State == state {
			return session
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("session %s never reached state %s", id, state)
	return nil
}
