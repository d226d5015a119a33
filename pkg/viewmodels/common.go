// Package viewmodels implements the stateful projections view models
// hold (§4.7): catalog-with-filters, library-with-filters, meta-details,
// player, streaming-server, continue-watching, installed addons, addon
// details, local search, data export and link. Each view model is
// created lazily on Load and exposes a Selectable description the host
// UI renders controls from, plus Loadable content.
package viewmodels

import (
	"context"
	"strconv"

	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

func itoa(n int) string { return strconv.Itoa(n) }

// CatalogPageSize is the page size Load's skip is quantised to, and the
// threshold below which a page is inferred last even without hasMore.
const CatalogPageSize = 100

// fetchResource spawns a future that resolves the given ResourceRequest
// through the matching addon's transport and folds its response into a
// ResourceResult[T] message, using decode to pick the matching union arm
// out of addon.ResourceResponse (so each call site only handles the
// shapes relevant to it).
func fetchResource[T any](environ env.Environment, req catalogtypes.ResourceRequest, msgName string, decode func(addon.ResourceResponse) (T, bool)) effects.Future {
	return func(ctx context.Context) effects.Msg {
		transport := addon.NewFactory(environ, req.Base).Build()
		resp, err := transport.Resource(ctx, req.Path)
		if err != nil {
			return effects.NewInternal(msgName, ResourceResult[T]{Request: req, Loadable: loadable.FoldResult[T](zero[T](), err, nil)})
		}
		value, ok := decode(resp)
		if !ok {
			return effects.NewInternal(msgName, ResourceResult[T]{Request: req, Loadable: loadable.Errored[T, loadable.ResourceError](loadable.ResourceError{Kind: loadable.UnexpectedResp})})
		}
		return effects.NewInternal(msgName, ResourceResult[T]{Request: req, Loadable: loadable.FoldResult[T](value, nil, isEmptySlice[T])})
	}
}

// decodeMetaPreviews extracts the []addon.MetaPreview arm from a catalog
// resource response, accepting either the metas or metasDetailed shape
// (some addons serve full Meta objects directly from a catalog call).
func decodeMetaPreviews(resp addon.ResourceResponse) ([]addon.MetaPreview, bool) {
	switch resp.Kind {
	case addon.RespMetas:
		return resp.Metas, true
	case addon.RespMetasDetailed:
		out := make([]addon.MetaPreview, 0, len(resp.MetasDetailed))
		for _, m := range resp.MetasDetailed {
			out = append(out, addon.MetaPreview{ID: m.ID, Type: m.Type, Name: m.Name})
		}
		return out, true
	default:
		return nil, false
	}
}

// decodeSlice decodes a catalog-shaped resource response into []T for
// whichever concrete item type T this CatalogWithFilters was
// instantiated with. The only item type catalog resources ever decode
// to in this module is addon.MetaPreview; the type switch keys off a
// zero T value so instantiating with any other type simply fails to
// decode rather than panicking.
func decodeSlice[T any](resp addon.ResourceResponse) ([]T, bool) {
	switch any(zero[T]()).(type) {
	case addon.MetaPreview:
		previews, ok := decodeMetaPreviews(resp)
		if !ok {
			return nil, false
		}
		out, ok := any(previews).([]T)
		return out, ok
	default:
		return nil, false
	}
}

// fetchResourceSlice is fetchResource specialized to decodeSlice, the
// shape every CatalogWithFilters[T] instance fetches (one page of T
// items).
func fetchResourceSlice[T any](environ env.Environment, req catalogtypes.ResourceRequest, msgName string) effects.Future {
	return fetchResource[[]T](environ, req, msgName, decodeSlice[T])
}

func zero[T any]() T {
	var z T
	return z
}

// isEmptySlice treats a decoded-but-empty slice result as EmptyContent,
// matching "empty vectors (where semantically meaningless) become
// EmptyContent". Non-slice T (e.g. a single Meta) is never considered
// empty this way; callers compose their own emptiness rule when needed.
func isEmptySlice[T any](v T) bool {
	switch s := any(v).(type) {
	case []addon.MetaPreview:
		return len(s) == 0
	case []addon.Meta:
		return len(s) == 0
	case []catalogtypes.Stream:
		return len(s) == 0
	case []addon.Subtitle:
		return len(s) == 0
	case []catalogtypes.Descriptor:
		return len(s) == 0
	default:
		return false
	}
}

// ResourceResult is the Internal message payload every fetchResource
// future resolves to.
type ResourceResult[T any] struct {
	Request  catalogtypes.ResourceRequest
	Loadable loadable.Loadable[T, loadable.ResourceError]
}

// quantisePage snaps skip down to the nearest page boundary.
func quantisePage(skip int) int {
	if skip < 0 {
		return 0
	}
	return (skip / CatalogPageSize) * CatalogPageSize
}

// paginate returns the contiguous slice [skip, skip+pageSize) of items,
// clamped to bounds.
func paginate[T any](items []T, skip, pageSize int) []T {
	if skip >= len(items) {
		return nil
	}
	end := skip + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}
