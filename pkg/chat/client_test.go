package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tooloo/tooloo-go/pkg/stream"
)

func TestClient_StreamFillsSessionIDAndMode(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/stream", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"chunk\":\"hi\"}\ndata: {\"done\":true,\"provider\":\"openai\"}\n")
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Stream(context.Background(), Request{Message: "hello"}, stream.Callbacks{})

	require.NoError(t, err)
	assert.Equal(t, "hi", res.Content)
	assert.Equal(t, "openai", res.Metadata.Provider)
	assert.Equal(t, "hello", got.Message)
	assert.Equal(t, ModeQuick, got.Mode)
	assert.NotEmpty(t, got.SessionID, "client must generate a session id")
}

func TestClient_StreamRejectsEmptyMessage(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.Stream(context.Background(), Request{}, stream.Callbacks{})
	require.Error(t, err)
}

func TestClient_StreamSendsBearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		fmt.Fprint(w, "data: {\"done\":true}\n")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithToken("sekrit"))
	_, err := c.Stream(context.Background(), Request{Message: "x"}, stream.Callbacks{})

	require.NoError(t, err)
	assert.Equal(t, "Bearer sekrit", auth)
}

func TestClient_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/system/status", r.URL.Path)
		fmt.Fprint(w, `{"ok":true,"data":{"status":"healthy","version":"4.2.0","uptimeSeconds":1234.5,"activeModel":"gpt-4o"}}`)
	}))
	defer srv.Close()

	st, err := NewClient(srv.URL).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", st.Status)
	assert.Equal(t, "4.2.0", st.Version)
	assert.Equal(t, 1234.5, st.UptimeSeconds)
}

func TestClient_ProvidersSuccessFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":[{"name":"openai","models":["gpt-4o"],"available":true,"default":true},{"name":"anthropic","models":["claude-3-5"],"available":false}]}`)
	}))
	defer srv.Close()

	providers, err := NewClient(srv.URL).Providers(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "openai", providers[0].Name)
	assert.True(t, providers[0].Default)
	assert.False(t, providers[1].Available)
}

func TestClient_BackendReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error":"database offline"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Status(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database offline")
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_SaveAndListArtifacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/artifacts":
			var a Artifact
			require.NoError(t, json.NewDecoder(r.Body).Decode(&a))
			a.ID = "art-1"
			data, _ := json.Marshal(a)
			fmt.Fprintf(w, `{"success":true,"data":%s}`, data)
		case r.Method == http.MethodGet && r.URL.Path == "/artifacts":
			fmt.Fprint(w, `{"success":true,"data":[{"id":"art-1","title":"Plan","category":"technical","content":"..."}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	saved, err := c.SaveArtifact(context.Background(), Artifact{Title: "Plan", Category: "technical", Content: "..."})
	require.NoError(t, err)
	assert.Equal(t, "art-1", saved.ID)

	list, err := c.ListArtifacts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Plan", list[0].Title)
}
