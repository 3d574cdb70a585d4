// Package rpc multiplexes UI and plugin connections on a single Unix-domain
// control socket, speaking newline-delimited JSON-RPC 2.0 (spec §4.6, §6):
// one accept loop owns the connection table, a per-connection write pump
// owns outbound framing, and every inbound event is handed to the engine in
// arrival order.
package rpc

import "encoding/json"

const jsonrpcVersion = "2.0"

// protocolErrorCode is herrors.KindProtocolError's JSON-RPC code, inlined
// here since this package's own malformed-message errors never carry a
// plugin id or wrapped error -- not worth constructing a full herrors.Error
// just to read its code back off.
const protocolErrorCode = -32001

// Message is the wire envelope for every direction of traffic. A request
// carries a non-nil ID and expects a matching response; a notification has
// no ID and expects none (spec §6 "A record with id=null is a
// notification").
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func notification(method string, params any) Message {
	data, _ := json.Marshal(params)
	return Message{JSONRPC: jsonrpcVersion, Method: method, Params: data}
}

func successResponse(id json.RawMessage, result any) Message {
	data, _ := json.Marshal(result)
	return Message{JSONRPC: jsonrpcVersion, ID: id, Result: data}
}

func errorResponse(id json.RawMessage, code int, message string) Message {
	return Message{JSONRPC: jsonrpcVersion, ID: id, Error: &RPCError{Code: code, Message: message}}
}

func (m Message) isNotification() bool { return len(m.ID) == 0 }

// registerParams is the payload of the handshake request described in spec
// §6: "client issues a register request with role = ui{name} or
// plugin{id}" -- role picks the peer class, name carries the UI's display
// name or the plugin's id.
type registerParams struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

const (
	roleUI     = "ui"
	rolePlugin = "plugin"
)

// registerResult hands the caller back the session id the spec promises
// ("server returns a session id").
type registerResult struct {
	SessionID string `json:"sessionId"`
}
