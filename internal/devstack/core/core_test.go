package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/common"
)

func TestGenderTypes_ReturnsCopy(t *testing.T) {
	a := GenderTypes()
	require.Len(t, a, 3)
	a[0].GenderName = "changed"
	assert.NotEqual(t, "changed", GenderTypes()[0].GenderName)
}

func TestSuggestCategories(t *testing.T) {
	got := SuggestCategories("Huge POTHOLE next to the broken lamp")
	require.Len(t, got, 2)
	assert.Equal(t, "Roads and potholes", got[0].TicketCategoryName)
	assert.Equal(t, "Street lighting", got[1].TicketCategoryName)

	assert.Len(t, SuggestCategories("something odd"), len(categories))
}

func TestDetailsStore(t *testing.T) {
	ctx := context.Background()
	s := NewDetailsStore()

	assert.Empty(t, s.List(ctx, 7, 1, 30).Data)

	d, err := s.Create(ctx, 7, api.UserDetails{FirstName: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), d.UserID)
	assert.True(t, d.Exists())

	_, err = s.Create(ctx, 7, api.UserDetails{})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	upd, err := s.Update(ctx, 7, api.UserDetails{FirstName: "Janet", Creator: 99})
	require.NoError(t, err)
	assert.Equal(t, "Janet", upd.FirstName)
	assert.Equal(t, int64(7), upd.Creator)

	_, err = s.Update(ctx, 8, api.UserDetails{})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	page := s.List(ctx, 7, 1, 1)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Janet", page.Data[0].FirstName)
}

func TestDetailsStore_Paging(t *testing.T) {
	ctx := context.Background()
	s := NewDetailsStore()
	for id := int64(1); id <= 5; id++ {
		_, err := s.Create(ctx, id, api.UserDetails{})
		require.NoError(t, err)
	}

	p1 := s.List(ctx, 0, 1, 2)
	assert.Equal(t, []int64{1, 2}, ids(p1.Data))
	assert.True(t, p1.HasMore)

	p3 := s.List(ctx, 0, 3, 2)
	assert.Equal(t, []int64{5}, ids(p3.Data))
	assert.False(t, p3.HasMore)

	assert.Empty(t, s.List(ctx, 0, 4, 2).Data)
}

func ids(ds []api.UserDetails) []int64 {
	out := make([]int64, len(ds))
	for i, d := range ds {
		out[i] = d.UserID
	}
	return out
}
