package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-studyguide-be/internal/constant"
	"ai-studyguide-be/internal/dto"
	"ai-studyguide-be/internal/entity"
)

func TestStartFinalAssessment(t *testing.T) {
	h := newHarness(t)
	id := h.seedGuide(t)

	res, err := h.quizService.Start(context.Background(), id, &dto.StartQuizRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Final Assessment", res.Title)
	assert.Equal(t, 1, res.TotalQuestions)
	require.NotNil(t, res.TimeSuggestionMinutes)
	assert.Equal(t, 10.0, *res.TimeSuggestionMinutes)
	assert.Equal(t, "Pick A.", res.Question.Stem)

	session, err := h.store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.StateQuizInProgress, session.State)
	assert.Equal(t, constant.BackgroundQuiz, session.BackgroundTopic)
}

func TestStartMicroQuiz(t *testing.T) {
	h := newHarness(t)
	id := h.seedGuide(t)

	res, err := h.quizService.Start(context.Background(), id, &dto.StartQuizRequest{TopicId: "caries"})
	require.NoError(t, err)
	assert.Equal(t, "Quiz: caries", res.Title)
	assert.Equal(t, 2, res.TotalQuestions)
	// Micro quizzes carry no time suggestion.
	assert.Nil(t, res.TimeSuggestionMinutes)
}

func TestStartUnknownTopic(t *testing.T) {
	h := newHarness(t)
	id := h.seedGuide(t)

	_, err := h.quizService.Start(context.Background(), id, &dto.StartQuizRequest{TopicId: "orthodontics"})
	require.Error(t, err)
	assert.Equal(t, CodeValidation, appErrorCode(t, err))
}

func TestStartWithoutGuide(t *testing.T) {
	h := newHarness(t)
	id := h.newSession(t)

	_, err := h.quizService.Start(context.Background(), id, &dto.StartQuizRequest{})
	require.Error(t, err)
	assert.Equal(t, CodeConflict, appErrorCode(t, err))
}

func TestAnswerWithoutActiveQuiz(t *testing.T) {
	h := newHarness(t)
	id := h.seedGuide(t)

	_, err := h.quizService.Answer(context.Background(), id, &dto.AnswerQuizRequest{Selected: "A"})
	require.Error(t, err)
	assert.Equal(t, CodeConflict, appErrorCode(t, err))
}

func TestQuizFullFlow(t *testing.T) {
	h := newHarness(t)
	id := h.seedGuide(t)

	_, err := h.quizService.Start(context.Background(), id, &dto.StartQuizRequest{TopicId: "caries"})
	require.NoError(t, err)

	// Q1 answered correctly.
	answer, err := h.quizService.Answer(context.Background(), id, &dto.AnswerQuizRequest{Selected: "Bacteria"})
	require.NoError(t, err)
	assert.True(t, answer.Correct)
	assert.Equal(t, 1, answer.Score)

	// Re-answering is a re-reveal, never a second score.
	answer, err = h.quizService.Answer(context.Background(), id, &dto.AnswerQuizRequest{Selected: "Wind"})
	require.NoError(t, err)
	assert.True(t, answer.Correct)
	assert.True(t, answer.AlreadyChecked)
	assert.Equal(t, 1, answer.Score)

	next, err := h.quizService.Next(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, next.Finished)
	require.NotNil(t, next.Question)
	assert.Equal(t, "Enamel regrows.", next.Question.Stem)

	// Q2 answered wrong.
	answer, err = h.quizService.Answer(context.Background(), id, &dto.AnswerQuizRequest{Selected: "True"})
	require.NoError(t, err)
	assert.False(t, answer.Correct)
	assert.Equal(t, "False", answer.CorrectAnswer)

	next, err = h.quizService.Next(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, next.Finished)
	assert.Equal(t, "QUIZ_RESULTS", next.State)

	results, err := h.quizService.Results(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Quiz: caries", results.Title)
	assert.Equal(t, 1, results.Score)
	assert.Equal(t, 2, results.Total)
	assert.Equal(t, 50.0, results.ScorePercent)
	require.Len(t, results.IncorrectAnswers, 1)
	assert.Equal(t, "Enamel regrows.", results.IncorrectAnswers[0].Stem)
	assert.Equal(t, "True", results.IncorrectAnswers[0].UserAnswer)

	// The finished quiz state survives a process restart via the snapshot.
	row, ok := h.sessions.row(id)
	require.True(t, ok)
	assert.Equal(t, "QUIZ_RESULTS", row.State)

	back, err := h.quizService.BackToStudy(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "STUDY_TOPICS", back.State)

	session, err := h.store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, session.ActiveQuiz)
	assert.Equal(t, constant.BackgroundStudy, session.BackgroundTopic)
}

func TestRetakeFromResults(t *testing.T) {
	h := newHarness(t)
	id := h.seedGuide(t)

	_, err := h.quizService.Start(context.Background(), id, &dto.StartQuizRequest{})
	require.NoError(t, err)
	_, err = h.quizService.Answer(context.Background(), id, &dto.AnswerQuizRequest{Selected: "B"})
	require.NoError(t, err)
	next, err := h.quizService.Next(context.Background(), id)
	require.NoError(t, err)
	require.True(t, next.Finished)

	// Starting again from the results view discards the old run entirely.
	res, err := h.quizService.Start(context.Background(), id, &dto.StartQuizRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Question.Index)
	assert.False(t, res.Question.Checked)

	session, err := h.store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, session.ActiveQuiz.Score)
	assert.Empty(t, session.ActiveQuiz.Answers)
}

func TestResultsOnlyAfterFinish(t *testing.T) {
	h := newHarness(t)
	id := h.seedGuide(t)

	_, err := h.quizService.Start(context.Background(), id, &dto.StartQuizRequest{})
	require.NoError(t, err)

	_, err = h.quizService.Results(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, CodeConflict, appErrorCode(t, err))
}

func TestAnswerRequiresSelection(t *testing.T) {
	h := newHarness(t)
	id := h.seedGuide(t)

	_, err := h.quizService.Start(context.Background(), id, &dto.StartQuizRequest{})
	require.NoError(t, err)

	_, err = h.quizService.Answer(context.Background(), id, &dto.AnswerQuizRequest{Selected: ""})
	require.Error(t, err)
	assert.Equal(t, CodeValidation, appErrorCode(t, err))
}

func TestBackToStudyRequiresQuizState(t *testing.T) {
	h := newHarness(t)
	id := h.seedGuide(t)

	_, err := h.quizService.BackToStudy(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, CodeConflict, appErrorCode(t, err))
}
