// Package loadable implements the tri-state Loadable[R,E] value and the
// ResourceLoadable/DescriptorLoadable planning helpers the view-model and
// Ctx layers use to track in-flight addon fetches.
package loadable

import "github.com/tomtom215/catalogcore/pkg/catalogtypes"

// Kind discriminates the Loadable union.
type Kind int

const (
	StateLoading Kind = iota
	StateReady
	StateErr
)

// Loadable is a tri-state value: a fetch that hasn't resolved yet, a
// successfully decoded value, or a typed error.
type Loadable[R any, E any] struct {
	Kind  Kind
	Value R
	Err   E
}

// Loading builds a Loadable in its Loading state.
func Loading[R any, E any]() Loadable[R, E] {
	return Loadable[R, E]{Kind: StateLoading}
}

// Ready builds a Loadable carrying a successfully resolved value.
func Ready[R any, E any](value R) Loadable[R, E] {
	return Loadable[R, E]{Kind: StateReady, Value: value}
}

// Errored builds a Loadable carrying a typed error.
func Errored[R any, E any](err E) Loadable[R, E] {
	return Loadable[R, E]{Kind: StateErr, Err: err}
}

func (l Loadable[R, E]) IsLoading() bool { return l.Kind == StateLoading }
func (l Loadable[R, E]) IsReady() bool   { return l.Kind == StateReady }
func (l Loadable[R, E]) IsErr() bool     { return l.Kind == StateErr }

// ResourceErrorKind discriminates ResourceError.
type ResourceErrorKind int

const (
	EmptyContent ResourceErrorKind = iota
	UnexpectedResp
	Other
)

// ResourceError is the error type every ResourceLoadable/DescriptorLoadable
// resolves to on failure.
type ResourceError struct {
	Kind    ResourceErrorKind
	Message string
}

func (e ResourceError) Error() string {
	switch e.Kind {
	case EmptyContent:
		return "empty content"
	case UnexpectedResp:
		return "unexpected response shape"
	default:
		return e.Message
	}
}

// ResourceLoadable tracks one planned ResourceRequest and, once resolved,
// its decoded content. Content is nil until the request is first planned
// (distinct from a Loading state, which means an effect is in flight).
type ResourceLoadable[T any] struct {
	Request catalogtypes.ResourceRequest
	Content *Loadable[T, ResourceError]
}

// DescriptorLoadable tracks a single manifest fetch for one addon base URL.
type DescriptorLoadable struct {
	TransportURL string
	Content      *Loadable[catalogtypes.Manifest, ResourceError]
}

// UpdatePlan rebuilds a ResourceLoadable slice from a freshly planned
// request list: requests present in both old and new plans keep their
// existing content (so an already-Ready slot is not re-fetched merely
// because its position in the plan changed), brand-new requests start in
// the Loading state. Requests dropped from the plan are simply absent
// from the result.
func UpdatePlan[T any](existing []ResourceLoadable[T], requests []catalogtypes.ResourceRequest) []ResourceLoadable[T] {
	byKey := make(map[string]*Loadable[T, ResourceError], len(existing))
	for i := range existing {
		byKey[existing[i].Request.Key()] = existing[i].Content
	}

	out := make([]ResourceLoadable[T], len(requests))
	for i, r := range requests {
		content := byKey[r.Key()]
		if content == nil {
			loading := Loading[T, ResourceError]()
			content = &loading
		}
		out[i] = ResourceLoadable[T]{Request: r, Content: content}
	}
	return out
}

// FoldResult maps a plain (value, error) outcome onto the ResourceError
// taxonomy: a transport/decode error becomes Other, a nil error whose
// value the caller judges semantically empty becomes EmptyContent,
// anything else is Ready.
func FoldResult[T any](value T, err error, isEmpty func(T) bool) Loadable[T, ResourceError] {
	if err != nil {
		return Errored[T, ResourceError](ResourceError{Kind: Other, Message: err.Error()})
	}
	if isEmpty != nil && isEmpty(value) {
		return Errored[T, ResourceError](ResourceError{Kind: EmptyContent})
	}
	return Ready[T, ResourceError](value)
}

// ApplyResponse writes result into the slot whose request is structurally
// equal to request, leaving every other slot untouched. A request with no
// matching slot (the plan changed between dispatch and response) is
// silently dropped, matching the "stale response discarding" rule.
func ApplyResponse[T any](loadables []ResourceLoadable[T], request catalogtypes.ResourceRequest, result Loadable[T, ResourceError]) []ResourceLoadable[T] {
	out := make([]ResourceLoadable[T], len(loadables))
	copy(out, loadables)
	for i := range out {
		if out[i].Request.Equal(request) {
			r := result
			out[i].Content = &r
		}
	}
	return out
}

// ApplyManifestResponse is the DescriptorLoadable equivalent of
// ApplyResponse, matched by transport URL instead of full request
// structural equality.
func ApplyManifestResponse(loadables []DescriptorLoadable, transportURL string, result Loadable[catalogtypes.Manifest, ResourceError]) []DescriptorLoadable {
	out := make([]DescriptorLoadable, len(loadables))
	copy(out, loadables)
	for i := range out {
		if out[i].TransportURL == transportURL {
			r := result
			out[i].Content = &r
		}
	}
	return out
}
