package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Source yields the raw bytes of one dataset document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(s.Path)
}

func (s FileSource) String() string { return s.Path }

type HTTPSource struct {
	URL    string
	Client *http.Client
}

const maxDocumentBytes = 4 << 20

var ErrTooLarge = errors.New("document too large")

func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: %s", s.URL, resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxDocumentBytes {
		return nil, fmt.Errorf("GET %s: %w (limit %d bytes)", s.URL, ErrTooLarge, maxDocumentBytes)
	}
	return b, nil
}

func (s HTTPSource) String() string { return s.URL }

// NewSource picks an HTTP source for http(s) references and a file source otherwise.
func NewSource(ref string, timeout time.Duration) Source {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return HTTPSource{URL: ref, Client: &http.Client{Timeout: timeout}}
	}
	return FileSource{Path: ref}
}
