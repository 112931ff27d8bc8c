package console

import (
	"net/http"
)

// Response is the outcome of one HTTP action against one server. Equality is
// structural so aggregate outcomes can be compared by value.
type Response struct {
	Code int
	Body string
}

// StatusClientTimeout doubles as the synthetic status for servers that are
// unreachable at the transport level and for servers already marked inactive.
const StatusClientTimeout = http.StatusRequestTimeout

// SuccessResponse is the synthetic all-good aggregate outcome.
func SuccessResponse() Response {
	return Response{Code: http.StatusOK, Body: ""}
}

// IsBadResponse classifies a status code as a deployment failure. 404 is
// acceptable when the caller expects the resource to possibly be missing. A
// client timeout (408) is never bad: an unreachable server must not fail an
// operation for the rest of the fleet, that is the inactive flag's job. A
// genuine 4xx/5xx from a reachable server always is.
func IsBadResponse(code int, missingIsOK bool) bool {
	if code == http.StatusNotFound {
		return !missingIsOK
	}
	if code >= 200 {
		return !(code < 400 || code == StatusClientTimeout)
	}
	return true
}
