package mapper

import (
	"encoding/json"
	"errors"
	"fmt"

	"ai-studyguide-be/internal/entity"
	"ai-studyguide-be/internal/model"
	"ai-studyguide-be/pkg/quiz"
	"ai-studyguide-be/pkg/study"

	"gorm.io/datatypes"
)

// ErrCorruptSnapshot marks a stored snapshot that no longer decodes. Callers
// discard the row and start the session over instead of failing.
var ErrCorruptSnapshot = errors.New("corrupt session snapshot")

// SessionMapper is the serialize/deserialize pair for the persisted snapshot.
// All snapshot encoding lives here so persistence logic can be tested without
// the database.
type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToModel(s *entity.StudySession) (*model.StudySession, error) {
	if s == nil {
		return nil, nil
	}

	out := &model.StudySession{
		Id:                s.Id,
		State:             string(s.State),
		ProcessingMessage: s.ProcessingMessage,
		LastError:         s.LastError,
		BackgroundTopic:   s.BackgroundTopic,
		SelectedModel:     s.SelectedModel,
		ProcessingRunId:   s.ProcessingRunId,
		CreatedAt:         s.CreatedAt,
	}
	if s.UpdatedAt != nil {
		out.UpdatedAt = *s.UpdatedAt
	}

	if s.Guide != nil {
		raw, err := json.Marshal(s.Guide)
		if err != nil {
			return nil, err
		}
		out.Guide = datatypes.JSON(raw)
	}
	if s.ActiveQuiz != nil {
		raw, err := json.Marshal(s.ActiveQuiz)
		if err != nil {
			return nil, err
		}
		out.ActiveQuiz = datatypes.JSON(raw)
	}

	return out, nil
}

// ToEntity decodes a stored snapshot. A decode failure is returned to the
// caller, which treats the snapshot as corrupt and discards it.
func (m *SessionMapper) ToEntity(s *model.StudySession) (*entity.StudySession, error) {
	if s == nil {
		return nil, nil
	}

	updatedAt := s.UpdatedAt
	out := &entity.StudySession{
		Id:                s.Id,
		State:             entity.AppState(s.State),
		ProcessingMessage: s.ProcessingMessage,
		LastError:         s.LastError,
		BackgroundTopic:   s.BackgroundTopic,
		SelectedModel:     s.SelectedModel,
		ProcessingRunId:   s.ProcessingRunId,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         &updatedAt,
	}

	if !out.State.Valid() {
		return nil, fmt.Errorf("%w: unknown state %q", ErrCorruptSnapshot, s.State)
	}

	if len(s.Guide) > 0 {
		var guide study.StudyGuide
		if err := json.Unmarshal(s.Guide, &guide); err != nil {
			return nil, fmt.Errorf("%w: guide: %v", ErrCorruptSnapshot, err)
		}
		out.Guide = &guide
	}
	if len(s.ActiveQuiz) > 0 {
		var q quiz.Session
		if err := json.Unmarshal(s.ActiveQuiz, &q); err != nil {
			return nil, fmt.Errorf("%w: quiz: %v", ErrCorruptSnapshot, err)
		}
		if q.Answers == nil {
			q.Answers = map[int]string{}
		}
		out.ActiveQuiz = &q
	}

	return out, nil
}
