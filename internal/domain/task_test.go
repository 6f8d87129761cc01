package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuiz() *Quiz {
	quiz := &Quiz{}
	for i := 0; i < QuestionsPerQuiz; i++ {
		quiz.Questions = append(quiz.Questions, Question{
			Question:      "What does the video explain?",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % OptionsPerQuestion,
		})
	}
	return quiz
}

func TestNewTask(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	task := NewTask(now)

	assert.NotEqual(t, uuid.Nil, task.ID())
	assert.Equal(t, now, task.CreatedAt())

	snap := task.Snapshot()
	assert.Equal(t, TaskStatusPending, snap.Status)
	assert.Equal(t, 0, snap.Progress)
	assert.Nil(t, snap.Result)
	assert.Empty(t, snap.Error)
}

func TestTaskAdvanceFollowsStageOrder(t *testing.T) {
	t.Parallel()

	task := NewTask(time.Now().UTC())

	require.NoError(t, task.Advance(TaskStatusExtracting, 20))
	require.NoError(t, task.Advance(TaskStatusProcessing, 40))
	require.NoError(t, task.Advance(TaskStatusGenerating, 60))

	snap := task.Snapshot()
	assert.Equal(t, TaskStatusGenerating, snap.Status)
	assert.Equal(t, 60, snap.Progress)
}

func TestTaskAdvanceRejectsBackwardTransitions(t *testing.T) {
	t.Parallel()

	task := NewTask(time.Now().UTC())
	require.NoError(t, task.Advance(TaskStatusProcessing, 40))

	err := task.Advance(TaskStatusExtracting, 20)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Repeating the current stage is also not a forward move.
	err = task.Advance(TaskStatusProcessing, 40)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTaskAdvanceRejectsTerminalTargets(t *testing.T) {
	t.Parallel()

	task := NewTask(time.Now().UTC())

	err := task.Advance(TaskStatusCompleted, 100)
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)

	err = task.Advance(TaskStatusFailed, 0)
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)
}

func TestTaskAdvanceRejectsProgressRegression(t *testing.T) {
	t.Parallel()

	task := NewTask(time.Now().UTC())
	require.NoError(t, task.Advance(TaskStatusExtracting, 20))

	err := task.Advance(TaskStatusProcessing, 10)
	assert.ErrorIs(t, err, ErrProgressDecreased)

	err = task.Advance(TaskStatusProcessing, 101)
	assert.ErrorIs(t, err, ErrInvalidProgress)
}

func TestTaskCompleteIsTerminal(t *testing.T) {
	t.Parallel()

	task := NewTask(time.Now().UTC())
	require.NoError(t, task.Advance(TaskStatusExtracting, 20))

	quiz := validQuiz()
	require.NoError(t, task.Complete(quiz))

	snap := task.Snapshot()
	assert.Equal(t, TaskStatusCompleted, snap.Status)
	assert.Equal(t, 100, snap.Progress)
	assert.Same(t, quiz, snap.Result)
	assert.Empty(t, snap.Error)

	// No further mutation after completion.
	assert.ErrorIs(t, task.Advance(TaskStatusGenerating, 60), ErrTaskTerminal)
	assert.ErrorIs(t, task.Fail("too late"), ErrTaskTerminal)
	assert.ErrorIs(t, task.Complete(quiz), ErrTaskTerminal)

	// Repeated reads observe identical state.
	again := task.Snapshot()
	assert.Equal(t, snap, again)
}

func TestTaskCompleteRequiresQuiz(t *testing.T) {
	t.Parallel()

	task := NewTask(time.Now().UTC())
	assert.ErrorIs(t, task.Complete(nil), ErrNilQuiz)
}

func TestTaskFailFreezesProgress(t *testing.T) {
	t.Parallel()

	task := NewTask(time.Now().UTC())
	require.NoError(t, task.Advance(TaskStatusExtracting, 20))
	require.NoError(t, task.Fail("no subtitles available"))

	snap := task.Snapshot()
	assert.Equal(t, TaskStatusFailed, snap.Status)
	assert.Equal(t, 20, snap.Progress, "progress should freeze at its last value")
	assert.Equal(t, "no subtitles available", snap.Error)
	assert.Nil(t, snap.Result)

	assert.ErrorIs(t, task.Fail("again"), ErrTaskTerminal)
}

func TestTaskTouchPolled(t *testing.T) {
	t.Parallel()

	task := NewTask(time.Now().UTC())
	assert.True(t, task.Snapshot().LastPolled.IsZero())

	polled := time.Now().UTC()
	task.TouchPolled(polled)
	assert.Equal(t, polled, task.Snapshot().LastPolled)
}

func TestTaskStatusIsTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, TaskStatusCompleted.IsTerminal())
	assert.True(t, TaskStatusFailed.IsTerminal())
	assert.False(t, TaskStatusPending.IsTerminal())
	assert.False(t, TaskStatusExtracting.IsTerminal())
	assert.False(t, TaskStatusProcessing.IsTerminal())
	assert.False(t, TaskStatusGenerating.IsTerminal())
}
