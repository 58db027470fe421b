package repository

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot() *entity.Snapshot {
	return &entity.Snapshot{
		BoardSize:  10,
		WinLength:  5,
		Turn:       entity.ColorBlack,
		Winner:     entity.ColorNone,
		WhiteCells: []entity.Cell{entity.NewCell(4, 4), entity.NewCell(0, 9)},
		BlackCells: []entity.Cell{entity.NewCell(5, 5)},
	}
}

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	t.Run("CreateOrUpdate_Create", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: a snapshot is stored
		err := gameRepo.CreateOrUpdate(ctx, "123", newSnapshot())

		// Then: no error is returned and the key has no expiry
		require.NoError(t, err)

		ttl, err := st.Storage.TTL(ctx, "game:123").Result()
		require.NoError(t, err)
		assert.Equal(t, time.Duration(-1), ttl)
	})

	t.Run("CreateOrUpdate_Overwrite", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored snapshot
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, "123", newSnapshot()))

		// When: the game moves on and is stored again
		updated := newSnapshot()
		updated.BlackCells = append(updated.BlackCells, entity.NewCell(6, 6))
		updated.Turn = entity.ColorWhite
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, "123", updated))

		// Then: the latest version is read back
		retrieved, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, updated, retrieved)
	})

	t.Run("CreateOrUpdate_WithTTL", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, time.Hour)

		// When: a snapshot is stored with a ttl
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, "123", newSnapshot()))

		// Then: the key expires
		ttl, err := st.Storage.TTL(ctx, "game:123").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Hour)
	})
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored snapshot
		snapshot := newSnapshot()
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, "123", snapshot))

		// When: GetByID is called with existing ID
		retrieved, err := gameRepo.GetByID(ctx, "123")

		// Then: the snapshot matches the stored one, cell order included
		require.NoError(t, err)
		require.Equal(t, snapshot, retrieved)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: GetByID is called with non-existent ID
		retrieved, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, retrieved)
	})

	t.Run("GetByID_Corrupted", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a value that lacks snapshot fields
		require.NoError(t, st.Storage.Set(ctx, "game:123", `{"board_size":10}`, 0).Err())

		// When: GetByID is called
		retrieved, err := gameRepo.GetByID(ctx, "123")

		// Then: the broken snapshot is reported
		require.ErrorIs(t, err, apperror.ErrInvalidSnapshot)
		assert.Nil(t, retrieved)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored snapshot
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, "123", newSnapshot()))

		// When: DeleteByID is called with existing ID
		err := gameRepo.DeleteByID(ctx, "123")

		// Then: no error should be returned and the game is gone
		require.NoError(t, err)

		_, err = gameRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: DeleteByID is called with non-existent ID
		err := gameRepo.DeleteByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}
