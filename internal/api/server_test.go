package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"automator/internal/config"
	"automator/internal/input"
	"automator/internal/input/inputtest"
	"automator/internal/protocol"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, token string) (*httptest.Server, *inputtest.Recorder) {
	t.Helper()

	cfgMgr := config.NewManagerAt(filepath.Join(t.TempDir(), "config.json"))
	cfg := cfgMgr.Get()
	cfg.Server.Token = token
	cfgMgr.Set(cfg)

	rec := inputtest.NewRecorder()
	s := NewServer(cfgMgr, input.NewDispatcher(rec, rec))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.wsMgr.stop()
	})
	return ts, rec
}

func post(t *testing.T, ts *httptest.Server, command, body string) (int, protocol.Result) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/commands/"+command, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", command, err)
	}
	defer resp.Body.Close()

	var res protocol.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("Decode %s response failed: %v", command, err)
	}
	return resp.StatusCode, res
}

func TestMoveAndGetPosition(t *testing.T) {
	ts, _ := newTestServer(t, "")

	status, res := post(t, ts, protocol.CmdMoveMouseTo, `{"position":{"x":100,"y":200}}`)
	if status != http.StatusOK || !res.OK || res.Result != true {
		t.Fatalf("move_mouse_to: status %d, result %+v", status, res)
	}
	if res.ID == "" {
		t.Error("Expected a generated request ID")
	}

	status, res = post(t, ts, protocol.CmdGetMousePosition, "")
	if status != http.StatusOK || !res.OK {
		t.Fatalf("get_mouse_position: status %d, result %+v", status, res)
	}
	want := map[string]any{"x": 100.0, "y": 200.0}
	if !reflect.DeepEqual(res.Result, want) {
		t.Errorf("Expected position %v, got %v", want, res.Result)
	}
}

func TestMoveOffScreenReportsFalse(t *testing.T) {
	ts, _ := newTestServer(t, "")

	status, res := post(t, ts, protocol.CmdMoveMouseTo, `{"x":-5,"y":-5}`)
	if res.OK || res.Result != false {
		t.Errorf("Expected ok=false and result=false, got %+v", res)
	}
	if res.Error == nil || res.Error.Code != input.ReasonInvalidTarget {
		t.Errorf("Expected invalid_target, got %+v", res.Error)
	}
	if status != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", status)
	}
}

func TestCheckMousePosition(t *testing.T) {
	ts, _ := newTestServer(t, "")

	_, res := post(t, ts, protocol.CmdCheckMousePosition, `{"position":{"x":10,"y":10}}`)
	if res.Result != true {
		t.Errorf("Expected visible point, got %+v", res)
	}
	_, res = post(t, ts, protocol.CmdCheckMousePosition, `{"position":{"x":5000,"y":10}}`)
	if !res.OK || res.Result != false {
		t.Errorf("Expected ok with result=false, got %+v", res)
	}
}

func TestPressKeyCombination(t *testing.T) {
	ts, rec := newTestServer(t, "")

	body := `{"combination":{"hold_ctrl":true,"hold_shift":false,"hold_alt":false,"key_code":65,"use_unicode":false}}`
	status, res := post(t, ts, protocol.CmdPressKeyCombination, body)
	if status != http.StatusOK || !res.OK {
		t.Fatalf("press_key_combination: status %d, result %+v", status, res)
	}

	want := []string{"press Ctrl", "click code 65", "release Ctrl"}
	if got := rec.Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestPressShortcut(t *testing.T) {
	ts, rec := newTestServer(t, "")

	if _, res := post(t, ts, protocol.CmdPressShortcut, `{"shortcut":"Ctrl+Shift+S"}`); !res.OK {
		t.Fatalf("press_shortcut failed: %+v", res.Error)
	}
	want := []string{"press Ctrl", "press Shift", "click code 83", "release Shift", "release Ctrl"}
	if got := rec.Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestClickAndWrite(t *testing.T) {
	ts, rec := newTestServer(t, "")

	if _, res := post(t, ts, protocol.CmdClick, `{"button":"Right"}`); !res.OK {
		t.Fatalf("click failed: %+v", res.Error)
	}
	if _, res := post(t, ts, protocol.CmdWrite, `{"text":"olá"}`); !res.OK {
		t.Fatalf("write failed: %+v", res.Error)
	}
	if _, res := post(t, ts, protocol.CmdWrite, `{"text":""}`); !res.OK {
		t.Fatalf("empty write failed: %+v", res.Error)
	}

	want := []string{"click Right", `text "olá"`}
	if got := rec.Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestBadRequests(t *testing.T) {
	ts, _ := newTestServer(t, "")

	tests := []struct {
		command, body string
		status        int
		code          string
	}{
		{"no_such_command", `{}`, http.StatusNotFound, protocol.CodeUnknownCommand},
		{protocol.CmdWrite, `{"text":42}`, http.StatusBadRequest, protocol.CodeBadRequest},
		{protocol.CmdWrite, ``, http.StatusBadRequest, protocol.CodeBadRequest},
		{protocol.CmdClick, `{"button":"Back"}`, http.StatusUnprocessableEntity, input.ReasonInvalidTarget},
		{protocol.CmdPressShortcut, `{"shortcut":"Hyper+Q"}`, http.StatusUnprocessableEntity, input.ReasonInvalidTarget},
	}

	for _, tt := range tests {
		status, res := post(t, ts, tt.command, tt.body)
		if status != tt.status {
			t.Errorf("%s %s: expected status %d, got %d", tt.command, tt.body, tt.status, status)
		}
		if res.OK || res.Error == nil || res.Error.Code != tt.code {
			t.Errorf("%s %s: expected code %s, got %+v", tt.command, tt.body, tt.code, res.Error)
		}
	}
}

func TestAuth(t *testing.T) {
	ts, _ := newTestServer(t, "secret")

	status, res := post(t, ts, protocol.CmdGetMousePosition, "")
	if status != http.StatusUnauthorized || res.Error == nil || res.Error.Code != protocol.CodeUnauthorized {
		t.Errorf("Expected 401 unauthorized, got %d %+v", status, res.Error)
	}

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/commands/get_mouse_position", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 with token, got %d", resp.StatusCode)
	}

	// Health stays open
	resp, err = http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 for /health, got %d", resp.StatusCode)
	}
}

func TestListCommands(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp, err := http.Get(ts.URL + "/api/commands")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Commands []string `json:"commands"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Commands) != 8 {
		t.Errorf("Expected 8 commands, got %v", body.Commands)
	}
}

func dialWS(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("Dial %s failed: %v", u, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketInvoke(t *testing.T) {
	ts, rec := newTestServer(t, "secret")
	conn := dialWS(t, ts, "?token=secret")

	msgs := []protocol.Message{
		{Type: protocol.TypeInvoke, ID: "1", Command: protocol.CmdMoveMouseTo, Payload: json.RawMessage(`{"position":{"x":3,"y":4}}`)},
		{Type: protocol.TypeInvoke, ID: "2", Command: protocol.CmdClick, Payload: json.RawMessage(`{"button":"Left"}`)},
	}
	results := make(map[string]protocol.Result)
	for _, msg := range msgs {
		if err := conn.WriteJSON(msg); err != nil {
			t.Fatalf("WriteJSON failed: %v", err)
		}
		// Wait for each result so the OS events keep their order
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var res protocol.Result
		if err := conn.ReadJSON(&res); err != nil {
			t.Fatalf("ReadJSON failed: %v", err)
		}
		results[res.ID] = res
	}

	if r := results["1"]; !r.OK || r.Result != true || r.Command != protocol.CmdMoveMouseTo {
		t.Errorf("Unexpected move result: %+v", r)
	}
	if r := results["2"]; !r.OK || r.Command != protocol.CmdClick {
		t.Errorf("Unexpected click result: %+v", r)
	}

	want := []string{"move (3, 4)", "click Left"}
	if got := rec.Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestWebSocketPing(t *testing.T) {
	ts, _ := newTestServer(t, "")
	conn := dialWS(t, ts, "")

	if err := conn.WriteJSON(protocol.Message{Type: protocol.TypePing, ID: "p"}); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg protocol.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != protocol.TypePong || msg.ID != "p" {
		t.Errorf("Expected pong p, got %+v", msg)
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	ts, _ := newTestServer(t, "")

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"https://example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(u, header)
	if err == nil {
		t.Fatal("Expected foreign origin to be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %v", resp)
	}
}
