package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Anshpatel2434/Demaze-task/internal/model"
)

func TestProjectKeyMatches(t *testing.T) {
	open := model.Project{ID: "p1", AssignedUserID: "u1"}
	done := model.Project{ID: "p2", AssignedUserID: "u2", IsCompleted: true}

	require.True(t, DefaultProjectKey(5).Matches(open))
	require.True(t, DefaultProjectKey(5).Matches(done))

	col := AssigneeKey("u1", 5)
	require.True(t, col.Matches(open))
	require.False(t, col.Matches(done))

	require.True(t, ProjectKey{Completion: CompletionDone, Limit: 5}.Matches(done))
	require.False(t, ProjectKey{Completion: CompletionDone, Limit: 5}.Matches(open))
	require.True(t, ProjectKey{Completion: CompletionOpen, Limit: 5}.Matches(open))
}

func TestProjectKeyQuery(t *testing.T) {
	q := ProjectKey{AssignedUserID: "u1", Completion: CompletionOpen, Limit: 5}.Query(10)
	require.Equal(t, "u1", q.AssignedUserID)
	require.NotNil(t, q.IsCompleted)
	require.False(t, *q.IsCompleted)
	require.Equal(t, 10, q.Offset)
	require.Equal(t, 5, q.Limit)

	require.Nil(t, DefaultProjectKey(5).Query(0).IsCompleted)
}

func TestCompletionCycles(t *testing.T) {
	require.Equal(t, CompletionOpen, CompletionAny.Next())
	require.Equal(t, CompletionDone, CompletionOpen.Next())
	require.Equal(t, CompletionAny, CompletionDone.Next())

	require.Equal(t, "all", CompletionAny.String())
	require.Equal(t, "open", CompletionOpen.String())
	require.Equal(t, "completed", CompletionDone.String())
}

func TestProfileKeyNormalization(t *testing.T) {
	a := NormalizedProfileKey("  Alice@Example.com ", 5)
	b := NormalizedProfileKey("alice@example.com", 5)
	require.Equal(t, a, b)

	require.True(t, a.Matches(model.UserProfile{Email: "ALICE@example.com"}))
	require.False(t, a.Matches(model.UserProfile{Email: "bob@example.com"}))
	require.True(t, NormalizedProfileKey("", 5).Matches(model.UserProfile{Email: "x@y.z"}))
}
