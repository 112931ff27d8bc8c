package console

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestIsBadResponse(t *testing.T) {
	// 2xx and 3xx are good
	for _, code := range []int{200, 201, 204, 301, 302, 304, 399} {
		assert.False(t, IsBadResponse(code, false), "code %d", code)
	}

	// a client timeout is not a deployment failure, the down server is
	// handled by the circuit breaker instead
	assert.False(t, IsBadResponse(408, false))
	assert.False(t, IsBadResponse(408, true))

	// 404 depends on whether the caller tolerates absence
	assert.True(t, IsBadResponse(404, false))
	assert.False(t, IsBadResponse(404, true))

	// everything else >= 400 is bad, tolerant or not
	for _, code := range []int{400, 401, 403, 405, 407, 409, 410, 500, 502, 503} {
		assert.True(t, IsBadResponse(code, false), "code %d", code)
		assert.True(t, IsBadResponse(code, true), "code %d", code)
	}

	// synthetic or malformed codes below 200 are bad
	for _, code := range []int{-1, 0, 100, 199} {
		assert.True(t, IsBadResponse(code, false), "code %d", code)
	}
}

func TestResponseEquality(t *testing.T) {
	assert.Equal(t, Response{Code: 200, Body: "x"}, Response{Code: 200, Body: "x"})
	assert.NotEqual(t, Response{Code: 200, Body: "x"}, Response{Code: 200, Body: "y"})
	assert.Equal(t, SuccessResponse(), Response{Code: 200, Body: ""})
}
