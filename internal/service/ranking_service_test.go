package service

import (
	"context"
	"fmt"
	"testing"

	"promptly/internal/models"
	"promptly/internal/repository"
	"promptly/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankingService_Limits(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"default", 0, 3},
		{"negative", -4, 3},
		{"explicit", 10, 10},
		{"capped", 1000, repository.MaxLeaderboardSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got int
			svc := NewRankingService(&userRepoStub{
				topFn: func(_ context.Context, limit int) ([]models.User, error) {
					got = limit
					return nil, nil
				},
			}, 3)
			users, err := svc.TopContributors(context.Background(), tt.in)
			require.NoError(t, err)
			assert.NotNil(t, users)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRankingService_TopContributorsReadsLiveCounter(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := repository.NewUserRepository(db)
	prompts := repository.NewPromptRepository(db)
	svc := NewRankingService(users, 3)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")
	c := testutil.CreateUser(t, db, "carol")
	testutil.CreateUser(t, db, "dave")

	create := func(author uint, n int) {
		for i := 0; i < n; i++ {
			require.NoError(t, prompts.CreateWithAuthorCount(ctx, &models.Prompt{
				UserID: author, Title: fmt.Sprintf("p%d", i), Input: "in", Tags: []string{"AI"},
				AIModel: "gpt-4o", Output: "out",
			}))
		}
	}
	create(a.ID, 5)
	create(b.ID, 2)
	create(c.ID, 5)

	top, err := svc.TopContributors(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"alice", "carol", "bob"}, []string{top[0].Username, top[1].Username, top[2].Username})
	assert.Equal(t, []int{5, 5, 2}, []int{top[0].TotalPrompts, top[1].TotalPrompts, top[2].TotalPrompts})

	again, err := svc.TopContributors(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, top, again, "ranking is stable and read-only")

	create(b.ID, 4)
	top, err = svc.TopContributors(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "bob", top[0].Username)
	assert.Equal(t, 6, top[0].TotalPrompts)
}
