package projects

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftmyprep-backend/apperrors"
	"craftmyprep-backend/logger"
	projectmodel "craftmyprep-backend/models/projects"
	"craftmyprep-backend/models/users"
	"craftmyprep-backend/services/ai"
	"craftmyprep-backend/services/ai/aitest"
	"craftmyprep-backend/testutil"
)

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

const projectJSON = `{"title":"Chat server","description":"TCP chat.","techStack":"Go","steps":["listen","broadcast"]}`

func setup(t *testing.T, stub *aitest.Stub) (*Service, *countingInvalidator, *testutil.Fixture) {
	t.Helper()
	f := testutil.NewFixture(t)
	inv := &countingInvalidator{}
	gen := ai.NewGenerator(stub, time.Second, logger.NewNop())
	return NewService(f.DB, gen, inv, logger.NewNop()), inv, f
}

func TestGenerate(t *testing.T) {
	svc, _, f := setup(t, aitest.Text(projectJSON))
	user := f.User("ana", 0)

	p, err := svc.Generate(context.Background(), user.ID, GenerateRequest{Timeline: "2 weeks", Languages: "Go", Difficulty: "medium"})
	require.NoError(t, err)

	assert.Equal(t, "Chat server", p.Title)
	assert.Equal(t, projectmodel.Medium, p.Difficulty)
	assert.Equal(t, "2 weeks", p.Timeline)
	assert.Equal(t, []string{"listen", "broadcast"}, []string(p.Steps))
	assert.False(t, p.IsCompleted)
}

func TestGenerate_Fallback(t *testing.T) {
	svc, _, f := setup(t, aitest.Failing(ai.ErrProviderDisabled))
	user := f.User("ana", 0)

	p, err := svc.Generate(context.Background(), user.ID, GenerateRequest{Timeline: "3 days", Languages: "Python", Difficulty: "Hard"})
	require.NoError(t, err)

	assert.Equal(t, "Personal Task Manager", p.Title)
	assert.Equal(t, "Python", p.TechStack)
	assert.Equal(t, projectmodel.Hard, p.Difficulty)
	assert.Equal(t, "3 days", p.Timeline)
}

func TestGenerate_RejectsUnknownDifficulty(t *testing.T) {
	stub := aitest.Text(projectJSON)
	svc, _, f := setup(t, stub)
	user := f.User("ana", 0)

	_, err := svc.Generate(context.Background(), user.ID, GenerateRequest{Difficulty: "Extreme"})

	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Zero(t, stub.Calls())
}

func TestMarkComplete_AwardsXPOnce(t *testing.T) {
	svc, inv, f := setup(t, aitest.Text(projectJSON))
	user := f.User("ana", 10)
	ctx := context.Background()

	p, err := svc.Generate(ctx, user.ID, GenerateRequest{Difficulty: "Easy"})
	require.NoError(t, err)

	done, err := svc.MarkComplete(ctx, user.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)

	_, err = svc.MarkComplete(ctx, user.ID, p.ID)
	require.NoError(t, err)

	var stored users.User
	require.NoError(t, f.DB.First(&stored, user.ID).Error)
	assert.Equal(t, 10+users.XPPerProject, stored.XP)
	assert.Equal(t, 1, inv.n)
}

func TestMarkComplete_Ownership(t *testing.T) {
	svc, inv, f := setup(t, aitest.Text(projectJSON))
	owner := f.User("owner", 0)
	other := f.User("other", 0)
	ctx := context.Background()

	p, err := svc.Generate(ctx, owner.ID, GenerateRequest{Difficulty: "Easy"})
	require.NoError(t, err)

	_, err = svc.MarkComplete(ctx, other.ID, p.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = svc.MarkComplete(ctx, owner.ID, 777)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	var stored users.User
	require.NoError(t, f.DB.First(&stored, other.ID).Error)
	assert.Zero(t, stored.XP)
	assert.Zero(t, inv.n)
}

func TestListAndGet(t *testing.T) {
	svc, _, f := setup(t, aitest.Text(projectJSON))
	owner := f.User("owner", 0)
	other := f.User("other", 0)
	ctx := context.Background()

	first, err := svc.Generate(ctx, owner.ID, GenerateRequest{Difficulty: "Easy"})
	require.NoError(t, err)
	second, err := svc.Generate(ctx, owner.ID, GenerateRequest{Difficulty: "Hard"})
	require.NoError(t, err)

	list, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	got, err := svc.Get(ctx, owner.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, projectmodel.Easy, got.Difficulty)

	_, err = svc.Get(ctx, other.ID, first.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}
