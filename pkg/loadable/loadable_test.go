package loadable

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
)

func req(base, id string) catalogtypes.ResourceRequest {
	return catalogtypes.ResourceRequest{Base: base, Path: catalogtypes.ResourcePath{Resource: "catalog", Type: "movie", ID: id}}
}

func TestUpdatePlanPreservesOverlappingContent(t *testing.T) {
	ready := Ready[[]string, ResourceError]([]string{"a"})
	existing := []ResourceLoadable[[]string]{
		{Request: req("a", "top"), Content: &ready},
	}
	next := UpdatePlan(existing, []catalogtypes.ResourceRequest{req("a", "top"), req("a", "new")})

	require.Len(t, next, 2)
	assert.True(t, next[0].Content.IsReady())
	assert.True(t, next[1].Content.IsLoading())
}

func TestUpdatePlanDropsRequestsNoLongerPlanned(t *testing.T) {
	ready := Ready[[]string, ResourceError]([]string{"a"})
	existing := []ResourceLoadable[[]string]{{Request: req("a", "gone"), Content: &ready}}
	next := UpdatePlan(existing, []catalogtypes.ResourceRequest{req("a", "top")})
	require.Len(t, next, 1)
	assert.Equal(t, "top", next[0].Request.Path.ID)
	assert.True(t, next[0].Content.IsLoading())
}

func TestFoldResultMapsErrorAndEmptiness(t *testing.T) {
	l := FoldResult[[]string](nil, errors.New("boom"), nil)
	require.True(t, l.IsErr())
	assert.Equal(t, Other, l.Err.Kind)

	empty := FoldResult([]string{}, nil, func(v []string) bool { return len(v) == 0 })
	require.True(t, empty.IsErr())
	assert.Equal(t, EmptyContent, empty.Err.Kind)

	ok := FoldResult([]string{"x"}, nil, func(v []string) bool { return len(v) == 0 })
	assert.True(t, ok.IsReady())
}

func TestApplyResponseOnlyTouchesMatchingSlot(t *testing.T) {
	loading1 := Loading[[]string, ResourceError]()
	loading2 := Loading[[]string, ResourceError]()
	loadables := []ResourceLoadable[[]string]{
		{Request: req("a", "top"), Content: &loading1},
		{Request: req("a", "new"), Content: &loading2},
	}
	updated := ApplyResponse(loadables, req("a", "top"), Ready[[]string, ResourceError]([]string{"x"}))
	assert.True(t, updated[0].Content.IsReady())
	assert.True(t, updated[1].Content.IsLoading())
}

func TestApplyResponseIgnoresStaleRequest(t *testing.T) {
	loading := Loading[[]string, ResourceError]()
	loadables := []ResourceLoadable[[]string]{{Request: req("a", "top"), Content: &loading}}
	updated := ApplyResponse(loadables, req("a", "no-longer-planned"), Ready[[]string, ResourceError]([]string{"x"}))
	assert.True(t, updated[0].Content.IsLoading())
}

func TestResourceCacheStoresOnlyReadyAndEvictsOldest(t *testing.T) {
	c := NewResourceCache[[]string](1, 0)
	c.Put("a", Ready[[]string, ResourceError]([]string{"a"}))
	c.Put("b", Ready[[]string, ResourceError]([]string{"b"}))

	_, ok := c.Get("a")
	assert.False(t, ok, "a should have been evicted at capacity 1")
	v, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, v.Value)

	c.Put("c", Loading[[]string, ResourceError]())
	_, ok = c.Get("c")
	assert.False(t, ok, "non-Ready results are never cached")
}

func TestResourceCacheRespectsTTL(t *testing.T) {
	c := NewResourceCache[[]string](10, time.Millisecond)
	c.Put("a", Ready[[]string, ResourceError]([]string{"a"}))
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestResourceCacheZeroCapacityDisabled(t *testing.T) {
	c := NewResourceCache[[]string](0, 0)
	c.Put("a", Ready[[]string, ResourceError]([]string{"a"}))
	_, ok := c.Get("a")
	assert.False(t, ok)
}
