package listing_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/listing"
)

type note struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"type:varchar(100)"`
	Body  string `gorm:"type:varchar(500)"`
}

var noteFields = map[string]string{
	"title": "title",
	"body":  "body",
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&note{}))
	return db
}

func seedNotes(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, db.Create(&note{
			Title: fmt.Sprintf("note-%02d", i),
			Body:  fmt.Sprintf("body %d", i),
		}).Error)
	}
}

func TestFindRejectsBadParamsWithoutQuerying(t *testing.T) {
	// A nil DB proves no storage call happens before validation.
	cases := []listing.Params{
		{Page: 0, PageSize: 10},
		{Page: -1, PageSize: 10},
		{Page: 1, PageSize: 0},
		{Page: 1, PageSize: 101},
	}
	for _, params := range cases {
		_, _, err := listing.Find[note](nil, params, noteFields, "title")
		assert.Error(t, err, "params %+v", params)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}
}

func TestFindRejectsUnknownFields(t *testing.T) {
	_, _, err := listing.Find[note](nil, listing.Params{
		Page: 1, PageSize: 10, OrderBy: "secret",
	}, noteFields, "title")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, _, err = listing.Find[note](nil, listing.Params{
		Page: 1, PageSize: 10, Search: map[string]string{"secret": "x"},
	}, noteFields, "title")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, _, err = listing.Find[note](nil, listing.Params{
		Page: 1, PageSize: 10, OrderDir: "sideways",
	}, noteFields, "title")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestFindPaginates(t *testing.T) {
	db := newTestDB(t)
	seedNotes(t, db, 11)

	rows, pagination, err := listing.Find[note](db, listing.Params{Page: 1, PageSize: 10}, noteFields, "title")
	require.NoError(t, err)
	assert.Len(t, rows, 10)
	assert.Equal(t, int64(11), pagination.Total)
	assert.Equal(t, 2, pagination.TotalPages)
	assert.Equal(t, "note-01", rows[0].Title)

	rows, pagination, err = listing.Find[note](db, listing.Params{Page: 2, PageSize: 10}, noteFields, "title")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "note-11", rows[0].Title)
	assert.Equal(t, 2, pagination.Page)
}

func TestFindSearchAndOrder(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&note{Title: "alpha", Body: "first entry"}).Error)
	require.NoError(t, db.Create(&note{Title: "beta", Body: "second entry"}).Error)
	require.NoError(t, db.Create(&note{Title: "gamma", Body: "third"}).Error)

	rows, pagination, err := listing.Find[note](db, listing.Params{
		Page: 1, PageSize: 10,
		Search: map[string]string{"body": "entry"},
	}, noteFields, "title")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(2), pagination.Total)
	assert.Equal(t, 1, pagination.TotalPages)

	rows, _, err = listing.Find[note](db, listing.Params{
		Page: 1, PageSize: 10,
		OrderBy: "title", OrderDir: "desc",
	}, noteFields, "title")
	require.NoError(t, err)
	assert.Equal(t, "gamma", rows[0].Title)
	assert.Equal(t, "alpha", rows[2].Title)
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{2, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 1, 100},
		{101, 100, 2},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, listing.TotalPages(c.total, c.pageSize),
			"total=%d pageSize=%d", c.total, c.pageSize)
	}
}
