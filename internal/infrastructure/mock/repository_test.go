// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/model"
	pkgerrors "github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockRepository_SampleData(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	assert.Same(t, repo, NewMockRepository())

	members, err := NewMockSourceDirectory(repo).ListMembers(ctx, "engineering@example.org")
	require.NoError(t, err)
	assert.Len(t, members, 3)

	id, found, err := NewMockSubscriberList(repo).FindListByName(ctx, "Engineering Announcements")
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotEmpty(t, id)
}

func TestMockSubscriberList(t *testing.T) {
	ctx := context.Background()
	repo := NewEmptyMockRepository()
	list := NewMockSubscriberList(repo)

	listID := repo.AddList("News")
	repo.AddSubscribers(listID, "Old@x.com", "keep@x.com")

	t.Run("find unknown list", func(t *testing.T) {
		_, found, err := list.FindListByName(ctx, "Missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("list members are normalized", func(t *testing.T) {
		emails, err := list.ListMembers(ctx, listID)
		require.NoError(t, err)
		assert.Equal(t, []model.MemberEmail{"keep@x.com", "old@x.com"}, emails)
	})

	t.Run("remove then upsert", func(t *testing.T) {
		err := list.BatchRemove(ctx, listID, []model.MemberEmail{"OLD@x.com"}, model.SilentRemove())
		require.NoError(t, err)

		result, err := list.BatchUpsert(ctx, listID, []model.SourceMember{
			{Email: "keep@x.com", FirstName: "Kee"},
			{Email: "new@x.com"},
		}, model.SilentUpsert())
		require.NoError(t, err)
		assert.Equal(t, &model.UpsertResult{Added: 1, Updated: 1}, result)
		assert.Equal(t, []model.MemberEmail{"keep@x.com", "new@x.com"}, repo.Subscribers(listID))

		member, ok := repo.Subscriber(listID, "KEEP@x.com")
		require.True(t, ok)
		assert.Equal(t, "Kee", member.FirstName)
	})

	t.Run("upsert without update existing", func(t *testing.T) {
		result, err := list.BatchUpsert(ctx, listID, []model.SourceMember{{Email: "keep@x.com"}}, model.UpsertOptions{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Errored)
	})

	t.Run("unknown list id", func(t *testing.T) {
		_, err := list.ListMembers(ctx, "list-404")
		var notFound pkgerrors.NotFound
		assert.True(t, errors.As(err, &notFound))
	})
}

func TestErrorSimulation(t *testing.T) {
	ctx := context.Background()
	repo := NewEmptyMockRepository()
	repo.AddGroup("g")
	listID := repo.AddList("News")

	expectedErr := pkgerrors.NewServiceUnavailable("simulated outage")

	t.Run("source directory", func(t *testing.T) {
		repo.SetError(OpListGroupMembers, expectedErr)
		defer repo.SetError(OpListGroupMembers, nil)

		_, err := NewMockSourceDirectory(repo).ListMembers(ctx, "g")
		require.Error(t, err)
		assert.True(t, errors.Is(err, expectedErr))
	})

	t.Run("batch remove", func(t *testing.T) {
		repo.SetError(OpBatchRemove, expectedErr)
		defer repo.SetError(OpBatchRemove, nil)

		err := NewMockSubscriberList(repo).BatchRemove(ctx, listID, []model.MemberEmail{"a@x.com"}, model.SilentRemove())
		assert.True(t, errors.Is(err, expectedErr))
	})

	t.Run("cleared error", func(t *testing.T) {
		_, err := NewMockSourceDirectory(repo).ListMembers(ctx, "g")
		assert.NoError(t, err)
	})
}

func TestCallJournal(t *testing.T) {
	ctx := context.Background()
	repo := NewEmptyMockRepository()
	listID := repo.AddList("News")
	list := NewMockSubscriberList(repo)

	_, _, _ = list.FindListByName(ctx, "News")
	_ = list.BatchRemove(ctx, listID, []model.MemberEmail{"a@x.com"}, model.SilentRemove())

	assert.Equal(t, []string{OpFindListByName, OpBatchRemove}, repo.Ops())
	calls := repo.Calls()
	assert.Equal(t, listID, calls[1].Target)
	assert.Equal(t, []model.MemberEmail{"a@x.com"}, calls[1].Emails)

	repo.ClearAll()
	assert.Empty(t, repo.Calls())
}
