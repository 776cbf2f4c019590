package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireNoCall fails the test when any intercepted request matched
// method and a URL substring. Used for preconditions that must short
// circuit before the network (empty-cart checkout).
func RequireNoCall(t *testing.T, mt *MockTransport, method, match string) {
	t.Helper()
	require.Zero(t, mt.CallCount(method, match),
		"expected no %s request to %q to be issued", method, match)
}

// AssertBodyField decodes a recorded request body as JSON and checks a
// single top-level field.
func AssertBodyField(t *testing.T, call Call, field string, want interface{}) {
	t.Helper()

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(call.Body, &payload),
		"request body to %s is not valid JSON: %s", call.URL, call.Body)
	assert.Equal(t, want, payload[field], "field %q in request to %s", field, call.URL)
}
