package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	openai "github.com/sashabaranov/go-openai"
)

// ErrMissingAPIKey is returned by NewClient when no key is configured.
var ErrMissingAPIKey = errors.New("openai api key is required (set OPENAI_API_KEY)")

// ErrEmptyAudio is returned when the service answers with an empty body.
var ErrEmptyAudio = errors.New("synthesis returned no audio")

// ClientConfig holds the connection settings for Client.
type ClientConfig struct {
	APIKey string

	// BaseURL overrides the API root, e.g. for a proxy or a test server.
	BaseURL string
	OrgID   string

	// HTTPClient is optional; http.DefaultClient semantics apply when nil.
	HTTPClient *http.Client

	Logger *log.Logger
}

// Client implements Synthesizer on top of the OpenAI speech endpoint.
type Client struct {
	api    *openai.Client
	logger *log.Logger
}

// NewClient builds a client from cfg. The configuration is used as given;
// nothing is read from the environment here.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.OrgID != "" {
		oc.OrgID = cfg.OrgID
	}
	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Client{
		api:    openai.NewClientWithConfig(oc),
		logger: logger.WithPrefix("openai"),
	}, nil
}

// Synthesize sends req to the speech endpoint and reads the full response body.
func (c *Client) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c.logger.Debug("Requesting speech",
		"model", req.Model,
		"voice", req.Voice,
		"format", req.Format,
		"speed", req.Speed,
		"chars", utf8.RuneCountInString(req.Text))

	start := time.Now()
	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(req.Model),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(req.Voice),
		Instructions:   req.Instructions,
		ResponseFormat: openai.SpeechResponseFormat(req.Format),
		Speed:          req.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("create speech: %w", err)
	}
	defer resp.Close() //nolint:errcheck

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyAudio
	}

	c.logger.Debug("Speech received",
		"size", humanize.Bytes(uint64(len(data))),
		"took", time.Since(start).Round(time.Millisecond))

	return &Audio{Data: data, Format: req.Format}, nil
}

// Check verifies the credentials by listing the models visible to the key.
func (c *Client) Check(ctx context.Context) (int, error) {
	models, err := c.api.ListModels(ctx)
	if err != nil {
		return 0, fmt.Errorf("list models: %w", err)
	}
	return len(models.Models), nil
}

// StatusCode extracts the HTTP status from an error returned by Client, or 0.
func StatusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

var _ Synthesizer = (*Client)(nil)
