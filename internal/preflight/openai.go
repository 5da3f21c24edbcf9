package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"storyreel/internal/config"
)

const openAICheckTimeout = 30 * time.Second

// CheckOpenAIKey lists models once, without retries, to prove the key is
// accepted. opts are applied after the config-derived options.
func CheckOpenAIKey(ctx context.Context, cfg config.OpenAI, opts ...option.RequestOption) Result {
	const name = "OpenAI API"
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return fail(name, "API key missing (set openai.api_key or OPENAI_API_KEY)")
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(key), option.WithMaxRetries(0)}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(base))
	}
	client := openai.NewClient(append(clientOpts, opts...)...)

	ctx, cancel := context.WithTimeout(ctx, openAICheckTimeout)
	defer cancel()
	if _, err := client.Models.List(ctx); err != nil {
		return fail(name, "%s", describeOpenAIError(err))
	}
	return pass(name, "API reachable")
}

func describeOpenAIError(err error) string {
	var apiErr *openai.Error
	var netErr net.Error
	switch {
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return "auth failed (invalid api key)"
		}
		return fmt.Sprintf("check failed (%d)", apiErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		return "check timed out (OpenAI API unresponsive)"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "check timed out (OpenAI API unreachable)"
	default:
		return err.Error()
	}
}
