package openaiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/arrakeen/dune-battles/internal/constants"
)

// ChatCompletion invokes the OpenAI Chat Completions API with one system
// and one user message and returns the raw assistant text.
func ChatCompletion(ctx context.Context, system, user string) (string, error) {
	apiKey := os.Getenv(constants.EnvOpenAIAPIKey)
	if apiKey == "" {
		return "", fmt.Errorf(constants.ErrEnvNotSetFmt, constants.EnvOpenAIAPIKey)
	}

	payload := map[string]interface{}{
		"model": constants.OpenAIChatModel,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"max_completion_tokens": 3100,
		"service_tier":          "default", //flex
	}

	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", constants.OpenAIBaseURL+constants.OpenAIChatCompletionsPath, bytes.NewBuffer(b))
	if err != nil {
		return "", fmt.Errorf("%s: %w", constants.ErrFailedCreateRequest, err)
	}
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+apiKey)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", constants.ErrRequestToOpenAIFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%s: %d %s", constants.ErrOpenAIChatFailed, resp.StatusCode, string(body))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: %w", constants.ErrFailedDecodeOpenAIResponse, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s", constants.ErrOpenAIReturnedNoChoices)
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
