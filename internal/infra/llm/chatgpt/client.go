package chatgpt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Message mirrors the OpenAI chat message structure. Content is either a
// plain string or a list of ContentPart for multimodal requests.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one entry of a multimodal message payload.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an inline or remote image reference.
type ImageURL struct {
	URL string `json:"url"`
}

// TextMessage builds a plain text chat message.
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: text}
}

// VisionMessage builds a multimodal message embedding the image inline as a
// base64 data URL alongside the instruction text.
func VisionMessage(role, text, mimeType string, image []byte) Message {
	encoded := base64.StdEncoding.EncodeToString(image)
	return Message{
		Role: role,
		Content: []ContentPart{
			{Type: "text", Text: text},
			{Type: "image_url", ImageURL: &ImageURL{URL: "data:" + mimeType + ";base64," + encoded}},
		},
	}
}

// ChatCompletionRequest is the payload sent to the ChatGPT API.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// ChatCompletionResponse captures the response for sync calls.
type ChatCompletionResponse struct {
	Choices []Choice `json:"choices"`
}

// Choice wraps one generated message.
type Choice struct {
	Message ResponseMessage `json:"message"`
}

// ResponseMessage is the generated assistant message.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client performs HTTP requests to the ChatGPT API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a ChatGPT client.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("chatgpt api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// CreateChatCompletion triggers a sync ChatGPT call.
func (c *Client) CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	var out ChatCompletionResponse
	body, err := c.doRequest(ctx, req)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode chat completion: %w", err)
	}
	return out, nil
}

func (c *Client) doRequest(ctx context.Context, req ChatCompletionRequest) ([]byte, error) {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("chatgpt request failed: status=%d body=%s", resp.StatusCode, string(payload))
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) newHTTPRequest(ctx context.Context, req ChatCompletionRequest) (*http.Request, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chat completion request: %w", err)
	}
	endpoint := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}
