package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"beginnings/internal/admins"
)

// Linker stores an admin's telegram chat id.
type Linker interface {
	LinkTelegram(ctx context.Context, adminID string, chatID int64) (string, error)
}

// Poller answers "/register <admin-id>" so staff can receive inquiry alerts.
type Poller struct {
	admins   Linker
	botToken string
	apiBase  string
	client   *http.Client
}

type update struct {
	UpdateID int              `json:"update_id"`
	Message  *incomingMessage `json:"message"`
}

type incomingMessage struct {
	MessageID int    `json:"message_id"`
	Text      string `json:"text"`
	Chat      struct {
		ID   int64  `json:"id"`
		Type string `json:"type"`
	} `json:"chat"`
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []update `json:"result"`
}

func NewPoller(linker Linker, token string) *Poller {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return &Poller{
		admins:   linker,
		botToken: strings.TrimSpace(token),
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 35 * time.Second},
	}
}

func (p *Poller) Run(ctx context.Context) {
	if p == nil {
		return
	}
	slog.Info("telegram.poller.start")
	defer slog.Info("telegram.poller.stop")
	var offset int
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		updates, err := p.fetchUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("telegram.poller.fetch", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}
		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			p.handleUpdate(ctx, upd)
		}
	}
}

func (p *Poller) fetchUpdates(ctx context.Context, offset int) ([]update, error) {
	data := url.Values{}
	if offset > 0 {
		data.Set("offset", strconv.Itoa(offset))
	}
	data.Set("timeout", "30")
	endpoint := fmt.Sprintf("%s/bot%s/getUpdates", p.apiBase, p.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var res updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, fmt.Errorf("telegram api returned not ok")
	}
	return res.Result, nil
}

func (p *Poller) handleUpdate(ctx context.Context, upd update) {
	if upd.Message == nil || upd.Message.Text == "" {
		return
	}
	text := strings.TrimSpace(upd.Message.Text)
	if strings.HasPrefix(strings.ToLower(text), "/register") {
		p.reply(ctx, upd.Message.Chat.ID, p.register(ctx, upd.Message.Chat.ID, text))
	}
}

// register links the chat to the admin named in the command and returns the
// reply text.
func (p *Poller) register(ctx context.Context, chatID int64, text string) string {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		return "Usage: /register <your-admin-id>"
	}
	if _, err := uuid.Parse(parts[1]); err != nil {
		return "That doesn't look like a valid admin ID."
	}
	ctxDB, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	username, err := p.admins.LinkTelegram(ctxDB, parts[1], chatID)
	if err != nil {
		if !errors.Is(err, admins.ErrNotFound) {
			slog.Warn("telegram.register", "err", err)
		}
		return "We couldn't find that admin ID. Double-check and try again."
	}
	return fmt.Sprintf("Thanks %s! New inquiry alerts will arrive here.", username)
}

func (p *Poller) reply(ctx context.Context, chatID int64, message string) {
	sendMessage(ctx, p.client, p.apiBase, p.botToken, strconv.FormatInt(chatID, 10), message)
}
