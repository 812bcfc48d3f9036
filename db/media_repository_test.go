package db

import (
	"path/filepath"
	"testing"
	"time"

	errs "github.com/circlehq/circle-api/errors"
	"github.com/circlehq/circle-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) MediaRepository {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB))
	return NewMediaRepo(&GormDB{DB: gormDB})
}

func TestCreateStampsUploadDateOnce(t *testing.T) {
	repo := newTestRepo(t)

	m := &models.Media{Title: "stamped"}
	require.NoError(t, repo.Create(m))
	assert.False(t, m.UploadDate.IsZero())

	preset := time.Date(2001, 6, 1, 0, 0, 0, 0, time.UTC)
	m2 := &models.Media{Title: "preset", UploadDate: preset}
	require.NoError(t, repo.Create(m2))
	assert.True(t, m2.UploadDate.Equal(preset), "an existing upload date must not be overwritten")
}

func TestListOrdersByRecency(t *testing.T) {
	repo := newTestRepo(t)

	for _, title := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, repo.Create(&models.Media{Title: title}))
	}

	records, err := repo.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "newest", records[0].Title)
	assert.Equal(t, "oldest", records[2].Title)
}

func TestListEmptyStore(t *testing.T) {
	repo := newTestRepo(t)

	records, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(999)
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}

func TestGetByFilename(t *testing.T) {
	repo := newTestRepo(t)

	m := &models.Media{Title: "owned", Filename: "abc123.jpg"}
	require.NoError(t, repo.Create(m))

	got, err := repo.GetByFilename("abc123.jpg")
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = repo.GetByFilename("nope.jpg")
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}

func TestUpdatePersistsChanges(t *testing.T) {
	repo := newTestRepo(t)

	m := &models.Media{Title: "before"}
	require.NoError(t, repo.Create(m))

	m.Title = "after"
	m.Tags = "1990"
	require.NoError(t, repo.Update(m))

	got, err := repo.GetByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "1990", got.Tags)
}

func TestDeleteNotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Delete(999)
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}

func TestDeleteThenCount(t *testing.T) {
	repo := newTestRepo(t)

	m := &models.Media{Title: "doomed"}
	require.NoError(t, repo.Create(m))
	require.NoError(t, repo.Delete(m.ID))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTableCountsIncludesCircleTable(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Create(&models.Media{Title: "counted"}))

	counts, err := repo.TableCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["circle_table"])
}

func TestTextOnlyEntriesShareEmptyFilename(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Create(&models.Media{Title: "one"}))
	require.NoError(t, repo.Create(&models.Media{Title: "two"}))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
