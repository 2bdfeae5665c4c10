package recurly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCriteria_Set(t *testing.T) {
	t.Parallel()

	t.Run("keeps first insertion position on overwrite", func(t *testing.T) {
		t.Parallel()

		f := NewFilterCriteria().
			WithState("active").
			WithPerPage(50).
			WithState("closed")

		assert.Equal(t, "state=closed&per_page=50", f.Encode())
		assert.Equal(t, 2, f.Len())
	})

	t.Run("empty value removes the key", func(t *testing.T) {
		t.Parallel()

		f := NewFilterCriteria().WithState("active").WithCursor("abc").WithState("")

		_, ok := f.Get(FilterState)
		assert.False(t, ok)
		assert.Equal(t, "cursor=abc", f.Encode())
	})

	t.Run("removed key is appended when set again", func(t *testing.T) {
		t.Parallel()

		f := NewFilterCriteria().WithState("active").WithCursor("abc")
		f.WithState("").WithState("past_due")

		assert.Equal(t, "cursor=abc&state=past_due", f.Encode())
	})

	t.Run("non-positive page size removes it", func(t *testing.T) {
		t.Parallel()

		f := NewFilterCriteria().WithPerPage(20).WithPerPage(0)
		assert.Equal(t, 0, f.Len())

		f.WithPerPage(-3)
		assert.Equal(t, "", f.Encode())
	})

	t.Run("times are sent in UTC", func(t *testing.T) {
		t.Parallel()

		zone := time.FixedZone("PDT", -7*60*60)
		f := NewFilterCriteria().
			WithBeginTime(time.Date(2024, 3, 1, 17, 0, 0, 0, zone)).
			WithEndTime(time.Time{})

		value, ok := f.Get(FilterBeginTime)
		require.True(t, ok)
		assert.Equal(t, "2024-03-02T00:00:00Z", value)

		_, ok = f.Get(FilterEndTime)
		assert.False(t, ok)
	})

	t.Run("zero value and nil are usable", func(t *testing.T) {
		t.Parallel()

		var zero FilterCriteria
		zero.WithSort(SortByCreatedAt).WithOrder(SortDescending)
		assert.Equal(t, "sort=created_at&order=desc", zero.Encode())

		var missing *FilterCriteria
		assert.Equal(t, 0, missing.Len())
		assert.Equal(t, "", missing.Encode())
		assert.Equal(t, "/accounts", missing.AppendTo("/accounts"))
		assert.Empty(t, missing.ToValues())

		built := missing.WithState("active").WithPerPage(20)
		require.NotNil(t, built)
		assert.Equal(t, "state=active&per_page=20", built.Encode())
		assert.Nil(t, missing)
	})
}

func TestFilterCriteria_Encode(t *testing.T) {
	t.Parallel()

	f := NewFilterCriteria().
		WithType("charge & credit").
		WithCursor("a/b=c")

	assert.Equal(t, "type=charge+%26+credit&cursor=a%2Fb%3Dc", f.Encode())
	assert.Equal(t, f.Encode(), f.String())

	values := f.ToValues()
	assert.Equal(t, "charge & credit", values.Get("type"))
	assert.Equal(t, "a/b=c", values.Get("cursor"))
}

func TestFilterCriteria_AppendTo(t *testing.T) {
	t.Parallel()

	f := NewFilterCriteria().WithState("active")

	assert.Equal(t, "/accounts?state=active", f.AppendTo("/accounts"))
	assert.Equal(t, "/accounts?per_page=5&state=active", f.AppendTo("/accounts?per_page=5"))
	assert.Equal(t, "/accounts", NewFilterCriteria().AppendTo("/accounts"))
}

func TestParseFilterCriteria(t *testing.T) {
	t.Parallel()

	original := NewFilterCriteria().
		WithEndTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)).
		WithState("past_due").
		WithType("charge & credit")

	parsed, err := ParseFilterCriteria("?" + original.Encode())
	require.NoError(t, err)
	assert.Equal(t, original.Encode(), parsed.Encode())

	parsed, err = ParseFilterCriteria("unknown=1&&state=active&cursor=")
	require.NoError(t, err)
	assert.Equal(t, "state=active", parsed.Encode())

	_, err = ParseFilterCriteria("state=%zz")
	require.Error(t, err)
}

func TestParseFilterKey(t *testing.T) {
	t.Parallel()

	key, err := ParseFilterKey("per_page")
	require.NoError(t, err)
	assert.Equal(t, FilterPerPage, key)

	_, err = ParseFilterKey("limit")
	require.ErrorIs(t, err, ErrUnknownFilterKey)
}

func TestListOptions_Criteria(t *testing.T) {
	t.Parallel()

	opts := ListOptions{
		PerPage:   200,
		State:     "active",
		Sort:      SortByUpdatedAt,
		Order:     SortAscending,
		BeginTime: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t,
		"state=active&sort=updated_at&order=asc&per_page=200&begin_time=2023-12-31T00%3A00%3A00Z",
		opts.Criteria().Encode(),
	)
	assert.Equal(t, 0, ListOptions{}.Criteria().Len())
}
