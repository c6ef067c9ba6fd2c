package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"beginnings/internal/notify"
)

const defaultAPIBase = "https://api.telegram.org"

// ChatDirectory lists the chats admin notifications go to.
type ChatDirectory interface {
	ChatIDs(ctx context.Context) ([]string, error)
}

type Notifier struct {
	admins      ChatDirectory
	botToken    string
	groupChatID string
	apiBase     string
	client      *http.Client
}

func New(admins ChatDirectory, botToken, groupChatID string) notify.Notifier {
	if strings.TrimSpace(botToken) == "" {
		return notify.Noop{}
	}
	return &Notifier{
		admins:      admins,
		botToken:    strings.TrimSpace(botToken),
		groupChatID: strings.TrimSpace(groupChatID),
		apiBase:     defaultAPIBase,
		client:      defaultHTTPClient,
	}
}

func (n *Notifier) NotifyAdmins(ctx context.Context, msg string) {
	if n == nil || n.botToken == "" || n.admins == nil {
		return
	}
	chats, err := n.admins.ChatIDs(ctx)
	if err != nil {
		slog.Warn("telegram.admin_query_failed", "err", err)
		return
	}
	for _, chatID := range chats {
		n.send(ctx, chatID, msg)
	}
}

func (n *Notifier) NotifyGroup(ctx context.Context, msg string) {
	if n == nil || n.botToken == "" || n.groupChatID == "" {
		return
	}
	n.send(ctx, n.groupChatID, msg)
}

func (n *Notifier) send(ctx context.Context, chatID, msg string) {
	sendMessage(ctx, n.client, n.apiBase, n.botToken, chatID, msg)
}

var defaultHTTPClient = &http.Client{
	Timeout: 5 * time.Second,
}

func sendMessage(ctx context.Context, client *http.Client, apiBase, token, chatID, msg string) {
	if token == "" || chatID == "" {
		return
	}
	if client == nil {
		client = defaultHTTPClient
	}
	body, err := json.Marshal(map[string]string{
		"chat_id": chatID,
		"text":    msg,
	})
	if err != nil {
		slog.Warn("telegram.marshal", "err", err)
		return
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(apiBase, "/"), token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		slog.Warn("telegram.request", "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("telegram.send", "err", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		slog.Warn("telegram.send.status", "status", resp.Status)
	}
}
