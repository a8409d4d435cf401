package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mensahub/backend/internal/domain"
	"golang.org/x/time/rate"
)

// scorePrompt asks the model for a bare 0-100 rating of one dish. The reply
// must contain nothing but the number so it can be parsed directly.
const scorePrompt = "Bewerte das folgende Gericht auf einer Skala von 0 bis 100, " +
	"wobei 100 die perfekte Übereinstimmung mit dem hinterlegten Geschmacksprofil darstellt:\n\n" +
	"Gericht: %s\n\n" +
	"Gib nur eine Zahl zwischen 0 und 100 zurück, die die Bewertung darstellt. Kein zusätzlicher Text."

// Client calls an OpenAI-compatible chat completions endpoint to rate meal
// descriptions. Transient failures (429, 5xx, timeouts) are retried with
// exponential backoff; anything else fails the call immediately.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	maxAttempts int
	baseDelay   time.Duration
}

// NewClient creates a scoring client.
func NewClient(apiKey, baseURL, model string) *Client {
	// One call every 500ms keeps us under the upstream rate limit even
	// when a long backlog of unscored meals is worked through.
	limiter := rate.NewLimiter(rate.Every(500*time.Millisecond), 1)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		rateLimiter: limiter,
		maxAttempts: 3,
		baseDelay:   2 * time.Second,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ScoreMeal rates a meal description, retrying transient failures up to
// three attempts total.
func (c *Client) ScoreMeal(ctx context.Context, description string) (float64, error) {
	if c.apiKey == "" {
		return 0, fmt.Errorf("%w: no API key configured", domain.ErrScoringFatal)
	}

	prompt := fmt.Sprintf(scorePrompt, description)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("rate limiter error: %w", err)
		}

		score, err := c.scoreOnce(ctx, prompt)
		if err == nil {
			return score, nil
		}
		if !errors.Is(err, domain.ErrScoringTransient) {
			return 0, err
		}

		lastErr = err
		if attempt < c.maxAttempts {
			delay := exponentialBackoff(c.baseDelay, attempt)
			log.Printf("[Scorer] Transient failure (attempt %d/%d), retrying in %s: %v",
				attempt, c.maxAttempts, delay, err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}
	}

	log.Printf("[Scorer] Giving up after %d attempts: %v", c.maxAttempts, lastErr)
	return 0, lastErr
}

func (c *Client) scoreOnce(ctx context.Context, prompt string) (float64, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   10,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures are worth retrying.
		return 0, fmt.Errorf("%w: %v", domain.ErrScoringTransient, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		// Handled below.
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return 0, fmt.Errorf("%w: status %d", domain.ErrScoringTransient, resp.StatusCode)
	default:
		return 0, fmt.Errorf("%w: status %d, body: %s", domain.ErrScoringFatal, resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return 0, fmt.Errorf("%w: decoding response: %v", domain.ErrScoringFatal, err)
	}
	if len(chat.Choices) == 0 {
		return 0, fmt.Errorf("%w: response contains no choices", domain.ErrScoringFatal)
	}

	content := strings.TrimSpace(chat.Choices[0].Message.Content)
	score, err := strconv.ParseFloat(content, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable score %q", domain.ErrScoringFatal, content)
	}

	// Clamp to the expected range rather than rejecting near-misses.
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}

// exponentialBackoff doubles the base delay for each attempt after the first.
func exponentialBackoff(base time.Duration, attempt int) time.Duration {
	return base << (attempt - 1)
}
