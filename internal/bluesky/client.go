package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tikvault/internal/post"
)

const defaultHTTPTimeout = 120 * time.Second

// Config captures the settings needed to reach a PDS.
type Config struct {
	Host           string
	Identifier     string
	Password       string
	TimeoutSeconds int
}

// Client talks XRPC to a single PDS. It is not safe for concurrent use;
// the uploader publishes sequentially.
type Client struct {
	cfg        Config
	httpClient *http.Client

	accessJWT string
	did       string
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a client for the configured PDS.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			Host:           strings.TrimRight(strings.TrimSpace(cfg.Host), "/"),
			Identifier:     strings.TrimSpace(cfg.Identifier),
			Password:       cfg.Password,
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.Host == "" {
		client.cfg.Host = "https://bsky.social"
	}
	return client
}

type sessionResponse struct {
	AccessJwt string `json:"accessJwt"`
	Did       string `json:"did"`
}

// Login creates an app-password session and stores the access token for
// subsequent calls.
func (c *Client) Login(ctx context.Context) error {
	if c.cfg.Identifier == "" || c.cfg.Password == "" {
		return errors.New("bluesky login: identifier and password required")
	}
	body, err := json.Marshal(map[string]string{
		"identifier": c.cfg.Identifier,
		"password":   c.cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("bluesky login: encode body: %w", err)
	}

	var session sessionResponse
	if err := c.postJSON(ctx, "com.atproto.server.createSession", "application/json", bytes.NewReader(body), &session); err != nil {
		return fmt.Errorf("bluesky login: %w", err)
	}
	if session.AccessJwt == "" || session.Did == "" {
		return errors.New("bluesky login: response missing session credentials")
	}
	c.accessJWT = session.AccessJwt
	c.did = session.Did
	return nil
}

type blobResponse struct {
	Blob json.RawMessage `json:"blob"`
}

// UploadVideo uploads raw MP4 bytes and returns the opaque blob reference
// to embed in the record.
func (c *Client) UploadVideo(ctx context.Context, data []byte) (json.RawMessage, error) {
	if c.accessJWT == "" {
		return nil, errors.New("bluesky upload: not logged in")
	}
	if len(data) == 0 {
		return nil, errors.New("bluesky upload: empty video data")
	}

	var resp blobResponse
	if err := c.postJSON(ctx, "com.atproto.repo.uploadBlob", "video/mp4", bytes.NewReader(data), &resp); err != nil {
		return nil, fmt.Errorf("bluesky upload: %w", err)
	}
	if len(resp.Blob) == 0 {
		return nil, errors.New("bluesky upload: response missing blob")
	}
	return resp.Blob, nil
}

// VideoPost is everything needed to publish one video record.
type VideoPost struct {
	Payload post.Payload
	Video   []byte
	Width   int
	Height  int
}

// PostRef identifies a created record.
type PostRef struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

type aspectRatio struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type videoEmbed struct {
	Type        string          `json:"$type"`
	Video       json.RawMessage `json:"video"`
	Alt         string          `json:"alt,omitempty"`
	AspectRatio *aspectRatio    `json:"aspectRatio,omitempty"`
}

type feedPost struct {
	Type      string      `json:"$type"`
	Text      string      `json:"text"`
	Facets    []Facet     `json:"facets,omitempty"`
	Embed     *videoEmbed `json:"embed,omitempty"`
	Langs     []string    `json:"langs,omitempty"`
	CreatedAt string      `json:"createdAt"`
}

// PublishVideoPost logs in when needed, uploads the video blob, and creates
// the feed post record with tag facets and a video embed.
func (c *Client) PublishVideoPost(ctx context.Context, input VideoPost) (PostRef, error) {
	if c.accessJWT == "" {
		if err := c.Login(ctx); err != nil {
			return PostRef{}, err
		}
	}

	blob, err := c.UploadVideo(ctx, input.Video)
	if err != nil {
		return PostRef{}, err
	}

	text, facets := BuildText(input.Payload)
	record := feedPost{
		Type:      "app.bsky.feed.post",
		Text:      text,
		Facets:    facets,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Embed: &videoEmbed{
			Type:  "app.bsky.embed.video",
			Video: blob,
			Alt:   input.Payload.AltText,
		},
	}
	if input.Width > 0 && input.Height > 0 {
		record.Embed.AspectRatio = &aspectRatio{Width: input.Width, Height: input.Height}
	}

	body, err := json.Marshal(map[string]any{
		"repo":       c.did,
		"collection": "app.bsky.feed.post",
		"record":     record,
	})
	if err != nil {
		return PostRef{}, fmt.Errorf("bluesky publish: encode record: %w", err)
	}

	var ref PostRef
	if err := c.postJSON(ctx, "com.atproto.repo.createRecord", "application/json", bytes.NewReader(body), &ref); err != nil {
		return PostRef{}, fmt.Errorf("bluesky publish: %w", err)
	}
	return ref, nil
}

func (c *Client) postJSON(ctx context.Context, method, contentType string, body io.Reader, out any) error {
	url := c.cfg.Host + "/xrpc/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.accessJWT != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessJWT)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("http %d from %s: %s", resp.StatusCode, method, snippet(payload))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}

func snippet(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 200
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
