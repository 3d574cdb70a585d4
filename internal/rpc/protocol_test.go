package rpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageWithIDIsNotANotification(t *testing.T) {
	msg := Message{JSONRPC: jsonrpcVersion, ID: json.RawMessage(`1`)}
	assert.False(t, msg.isNotification())
}

func TestMessageWithoutIDIsANotification(t *testing.T) {
	msg := Message{JSONRPC: jsonrpcVersion, Method: "query_changed"}
	assert.True(t, msg.isNotification())
}

func TestNotificationCarriesNoID(t *testing.T) {
	msg := notification("results", map[string]int{"count": 3})
	assert.Empty(t, msg.ID)
	assert.Equal(t, "results", msg.Method)

	var params map[string]int
	require.NoError(t, json.Unmarshal(msg.Params, &params))
	assert.Equal(t, 3, params["count"])
}

func TestSuccessResponseEchoesID(t *testing.T) {
	id := json.RawMessage(`42`)
	msg := successResponse(id, registerResult{SessionID: "abc"})
	assert.Equal(t, id, msg.ID)
	assert.Nil(t, msg.Error)

	var result registerResult
	require.NoError(t, json.Unmarshal(msg.Result, &result))
	assert.Equal(t, "abc", result.SessionID)
}

func TestErrorResponseEchoesID(t *testing.T) {
	id := json.RawMessage(`7`)
	msg := errorResponse(id, protocolErrorCode, "bad request")
	assert.Equal(t, id, msg.ID)
	require.NotNil(t, msg.Error)
	assert.Equal(t, protocolErrorCode, msg.Error.Code)
	assert.Equal(t, "bad request", msg.Error.Message)
}
