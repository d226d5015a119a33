package viewmodels

import (
	"github.com/tomtom215/catalogcore/pkg/aggr"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

// CatalogsWithExtraMsg names the Internal message every row's fetch
// future resolves to.
const CatalogsWithExtraMsg = "CatalogsWithExtraResourceReceived"

// CatalogsWithExtra is the board/home-screen projection: one row per
// (addon, catalog) pair across every installed addon, each independently
// loaded and independently stale-discarded, in addon-install order.
type CatalogsWithExtra[T any] struct {
	Type  *string
	Extra []catalogtypes.ExtraValue
	Rows  []loadable.ResourceLoadable[[]T]
}

// NewCatalogsWithExtra builds an empty, unloaded home-screen view model.
func NewCatalogsWithExtra[T any]() *CatalogsWithExtra[T] {
	return &CatalogsWithExtra[T]{}
}

// Load (re)plans every (addon, catalog) row matching typeFilter/extra and
// fetches whichever rows aren't already resolved, preserving already-Ready
// or already-in-flight rows whose plan slot survives unchanged.
func (m *CatalogsWithExtra[T]) Load(environ env.Environment, addons []catalogtypes.Descriptor, typeFilter *string, extra []catalogtypes.ExtraValue) effects.Effects {
	m.Type = typeFilter
	m.Extra = extra

	requests := aggr.Plan(addons, aggr.AggrRequest{Kind: aggr.AllCatalogs, TypeForAllCatalogs: typeFilter, ExtraForAllCatalogs: extra})

	existingByKey := make(map[string]*loadable.Loadable[[]T, loadable.ResourceError], len(m.Rows))
	for i := range m.Rows {
		existingByKey[m.Rows[i].Request.Key()] = m.Rows[i].Content
	}

	m.Rows = loadable.UpdatePlan[[]T](m.Rows, requests)

	var futures []effects.Future
	for i := range m.Rows {
		if prior, ok := existingByKey[m.Rows[i].Request.Key()]; ok && prior != nil && !prior.IsLoading() {
			continue
		}
		futures = append(futures, fetchResourceSlice[T](environ, m.Rows[i].Request, CatalogsWithExtraMsg))
	}
	if len(futures) == 0 {
		return effects.Changed()
	}
	return effects.Effects{Changed: true, Futures: futures}
}

// HandleResourceReceived writes a resolved row into its matching slot,
// discarding responses for requests the current plan no longer contains.
func (m *CatalogsWithExtra[T]) HandleResourceReceived(result ResourceResult[[]T]) effects.Effects {
	for i := range m.Rows {
		if m.Rows[i].Request.Equal(result.Request) {
			m.Rows = loadable.ApplyResponse(m.Rows, result.Request, result.Loadable)
			return effects.Changed()
		}
	}
	return effects.None()
}
