package ctx

import "fmt"

// APIError is a server-authored failure from the platform API. Code 1 on
// the events endpoint means "benignly rejected"; any other code is
// transport-retriable.
type APIError struct {
	Code    uint64 `json:"code"`
	Message string `json:"message"`
}

func (e APIError) Error() string { return fmt.Sprintf("api error %d: %s", e.Code, e.Message) }

// OtherErrorKind enumerates the domain rules CtxError can carry that
// don't originate from the API or the environment.
type OtherErrorKind int

const (
	UserNotLoggedIn OtherErrorKind = iota
	LibraryItemNotFound
	AddonAlreadyInstalled
	AddonNotInstalled
	AddonIsProtected
	AddonConfigurationRequired
	UserAddonsAreLocked
	UserLibraryIsMissing
	ServerURLNotFound
	ServerURLIsDefault
)

func (k OtherErrorKind) String() string {
	switch k {
	case UserNotLoggedIn:
		return "UserNotLoggedIn"
	case LibraryItemNotFound:
		return "LibraryItemNotFound"
	case AddonAlreadyInstalled:
		return "AddonAlreadyInstalled"
	case AddonNotInstalled:
		return "AddonNotInstalled"
	case AddonIsProtected:
		return "AddonIsProtected"
	case AddonConfigurationRequired:
		return "AddonConfigurationRequired"
	case UserAddonsAreLocked:
		return "UserAddonsAreLocked"
	case UserLibraryIsMissing:
		return "UserLibraryIsMissing"
	case ServerURLNotFound:
		return "ServerURLNotFound"
	case ServerURLIsDefault:
		return "ServerURLIsDefault"
	default:
		return "Unknown"
	}
}

// OtherError wraps an OtherErrorKind as an error.
type OtherError struct {
	Kind OtherErrorKind
}

func (e OtherError) Error() string { return e.Kind.String() }

// CtxErrorKind discriminates CtxError.
type CtxErrorKind int

const (
	FromAPI CtxErrorKind = iota
	FromEnv
	FromOther
)

// CtxError is the union every Ctx action can fail with.
type CtxError struct {
	Kind  CtxErrorKind
	API   *APIError
	Env   error
	Other *OtherError
}

func (e CtxError) Error() string {
	switch e.Kind {
	case FromAPI:
		return e.API.Error()
	case FromEnv:
		return e.Env.Error()
	default:
		return e.Other.Error()
	}
}

func apiErr(e APIError) CtxError   { return CtxError{Kind: FromAPI, API: &e} }
func envErr(err error) CtxError    { return CtxError{Kind: FromEnv, Env: err} }
func otherErr(k OtherErrorKind) CtxError {
	o := OtherError{Kind: k}
	return CtxError{Kind: FromOther, Other: &o}
}
