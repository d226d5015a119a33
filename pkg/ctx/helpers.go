package ctx

import "github.com/tomtom215/catalogcore/pkg/env"

// toCtxError classifies a raw error returned from an apiClient call into
// the CtxError taxonomy: an APIError stays an APIError, an env.Error
// becomes FromEnv, anything else is wrapped as FromOther/Other(msg)-style
// via a generic API error with code 0 (no structured code available).
func toCtxError(err error) CtxError {
	if err == nil {
		return CtxError{}
	}
	switch e := err.(type) {
	case CtxError:
		return e
	case APIError:
		return apiErr(e)
	case *env.Error:
		return envErr(e)
	default:
		return apiErr(APIError{Message: err.Error()})
	}
}

// errorEventPayload is the payload shape for Event::Error{error, source}.
type errorPayload struct {
	Error  CtxError
	Source string
}

func errorEventPayload(err CtxError, source string) errorPayload {
	return errorPayload{Error: err, Source: source}
}
