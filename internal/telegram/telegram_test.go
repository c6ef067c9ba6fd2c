package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beginnings/internal/admins"
	"beginnings/internal/notify"
)

type fakeAdmins struct {
	chats  []string
	linked map[string]int64
}

func (f *fakeAdmins) ChatIDs(context.Context) ([]string, error) { return f.chats, nil }

func (f *fakeAdmins) LinkTelegram(_ context.Context, id string, chatID int64) (string, error) {
	if id != "6f1c1d4e-8a47-4e43-9a3c-1a2b3c4d5e6f" {
		return "", admins.ErrNotFound
	}
	if f.linked == nil {
		f.linked = map[string]int64{}
	}
	f.linked[id] = chatID
	return "robin", nil
}

type sent struct {
	mu   sync.Mutex
	msgs []map[string]string
}

func (s *sent) server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		s.mu.Lock()
		s.msgs = append(s.msgs, body)
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewWithoutTokenIsNoop(t *testing.T) {
	assert.IsType(t, notify.Noop{}, New(&fakeAdmins{}, "", ""))
}

func TestNotifyAdminsAndGroup(t *testing.T) {
	var s sent
	srv := s.server(t)

	n := New(&fakeAdmins{chats: []string{"11", "22"}}, "tok", "-100").(*Notifier)
	n.apiBase = srv.URL
	n.client = srv.Client()

	n.NotifyAdmins(context.Background(), "New inquiry")
	n.NotifyGroup(context.Background(), "hello group")

	require.Len(t, s.msgs, 3)
	assert.Equal(t, "11", s.msgs[0]["chat_id"])
	assert.Equal(t, "22", s.msgs[1]["chat_id"])
	assert.Equal(t, "-100", s.msgs[2]["chat_id"])
	assert.Equal(t, "New inquiry", s.msgs[0]["text"])
}

func TestRegister(t *testing.T) {
	f := &fakeAdmins{}
	p := NewPoller(f, "tok")
	require.NotNil(t, p)

	assert.Contains(t, p.register(context.Background(), 7, "/register"), "Usage")
	assert.Contains(t, p.register(context.Background(), 7, "/register not-a-uuid"), "valid admin ID")
	assert.Contains(t, p.register(context.Background(), 7, "/register 00000000-0000-0000-0000-000000000001"), "couldn't find")
	assert.Equal(t, "Thanks robin! New inquiry alerts will arrive here.",
		p.register(context.Background(), 7, "/register 6f1c1d4e-8a47-4e43-9a3c-1a2b3c4d5e6f"))
	assert.Equal(t, int64(7), f.linked["6f1c1d4e-8a47-4e43-9a3c-1a2b3c4d5e6f"])

	assert.Nil(t, NewPoller(f, " "))
}
