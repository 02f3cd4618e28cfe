package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
)

// frame encodes JSON-RPC messages as a client would send them.
func frame(t *testing.T, msgs ...map[string]any) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, m := range msgs {
		m["jsonrpc"] = "2.0"
		payload, err := json.Marshal(m)
		if err != nil {
			t.Fatal(err)
		}
		if err := writeMessage(&buf, payload); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

// readAll decodes every framed message the server wrote.
func readAll(t *testing.T, out *bytes.Buffer) []rpcMessage {
	t.Helper()
	r := bufio.NewReader(bytes.NewReader(out.Bytes()))
	var msgs []rpcMessage
	for {
		payload, err := readMessage(r)
		if err != nil {
			return msgs
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("bad server message %s: %v", payload, err)
		}
		msgs = append(msgs, msg)
	}
}

func responseByID(t *testing.T, msgs []rpcMessage, id int) rpcMessage {
	t.Helper()
	want, _ := json.Marshal(id)
	for _, m := range msgs {
		if m.Method == "" && bytes.Equal(m.ID, want) {
			return m
		}
	}
	t.Fatalf("no response with id %d", id)
	return rpcMessage{}
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}
