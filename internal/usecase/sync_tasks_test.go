package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/della/internal/domain"
	"github.com/runoshun/della/internal/testutil"
	"github.com/runoshun/della/internal/usecase"
)

func TestParseSyncDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    usecase.SyncDirection
		wantErr bool
	}{
		{"", usecase.SyncAuto, false},
		{"PULL", usecase.SyncPull, false},
		{"push", usecase.SyncPush, false},
		{"sideways", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := usecase.ParseSyncDirection(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSyncTasks_RemoteDisabled(t *testing.T) {
	uc := usecase.NewSyncTasks(testutil.NewMockTaskRepository(), nil, nil)

	_, err := uc.Execute(context.Background(), usecase.SyncTasksInput{})

	assert.ErrorIs(t, err, domain.ErrRemoteDisabled)
}

func TestSyncTasks_Auto(t *testing.T) {
	tests := []struct {
		name       string
		local      int64 // 0 = no local file
		remote     int64 // 0 = no remote file
		wantAction usecase.SyncAction
	}{
		{"both missing", 0, 0, usecase.SyncUpToDate},
		{"remote missing", 10, 0, usecase.SyncPushed},
		{"local missing", 0, 10, usecase.SyncPulled},
		{"local newer", 20, 10, usecase.SyncPushed},
		{"remote newer", 10, 20, usecase.SyncPulled},
		{"same", 10, 10, usecase.SyncUpToDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			repo := testutil.NewMockTaskRepository()
			remote := &testutil.MockRemote{}
			if tt.local != 0 {
				require.NoError(t, repo.Put(treeWith(t, "local"), domain.Meta{Timestamp: tt.local}))
			}
			if tt.remote != 0 {
				remote.Data = encode(t, repo, treeWith(t, "remote"), domain.Meta{Timestamp: tt.remote})
			}
			before := append([]byte(nil), repo.Data...)
			uc := usecase.NewSyncTasks(repo, remote, nil)

			// Execute
			out, err := uc.Execute(context.Background(), usecase.SyncTasksInput{Direction: usecase.SyncAuto})

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantAction, out.Action)
			assert.False(t, repo.Locked)
			switch tt.wantAction {
			case usecase.SyncPulled:
				assert.Equal(t, remote.Data, repo.Data)
				assert.Empty(t, remote.Pushed)
			case usecase.SyncPushed:
				require.Len(t, remote.Pushed, 1)
				assert.Equal(t, before, remote.Pushed[0])
			default:
				assert.Empty(t, remote.Pushed)
			}
		})
	}
}

func TestSyncTasks_ForcedDirections(t *testing.T) {
	t.Run("pull overwrites newer local", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository()
		require.NoError(t, repo.Put(treeWith(t, "local"), domain.Meta{Timestamp: 99}))
		remote := &testutil.MockRemote{}
		remote.Data = encode(t, repo, treeWith(t, "remote"), domain.Meta{Timestamp: 1})

		out, err := usecase.NewSyncTasks(repo, remote, nil).Execute(context.Background(), usecase.SyncTasksInput{Direction: usecase.SyncPull})

		require.NoError(t, err)
		assert.Equal(t, usecase.SyncPulled, out.Action)
		assert.Equal(t, remote.Data, repo.Data)
	})

	t.Run("pull without remote copy", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository()

		_, err := usecase.NewSyncTasks(repo, &testutil.MockRemote{}, nil).Execute(context.Background(), usecase.SyncTasksInput{Direction: usecase.SyncPull})

		assert.ErrorIs(t, err, domain.ErrNoTaskFile)
	})

	t.Run("push without local file", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository()

		_, err := usecase.NewSyncTasks(repo, &testutil.MockRemote{}, nil).Execute(context.Background(), usecase.SyncTasksInput{Direction: usecase.SyncPush})

		assert.ErrorIs(t, err, domain.ErrNoTaskFile)
	})

	t.Run("push overwrites newer remote", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository()
		require.NoError(t, repo.Put(treeWith(t, "local"), domain.Meta{Timestamp: 1}))
		remote := &testutil.MockRemote{}
		remote.Data = encode(t, repo, treeWith(t, "remote"), domain.Meta{Timestamp: 99})

		out, err := usecase.NewSyncTasks(repo, remote, nil).Execute(context.Background(), usecase.SyncTasksInput{Direction: usecase.SyncPush})

		require.NoError(t, err)
		assert.Equal(t, usecase.SyncPushed, out.Action)
		assert.Equal(t, repo.Data, remote.Data)
	})
}

func TestSyncTasks_FetchError(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	remote := &testutil.MockRemote{FetchErr: assert.AnError}

	_, err := usecase.NewSyncTasks(repo, remote, nil).Execute(context.Background(), usecase.SyncTasksInput{})

	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, repo.Locked)
}
