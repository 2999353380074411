// Package sfdc talks to the Salesforce REST API: session resolution through
// the sf CLI, environment variables, or the OAuth JWT bearer flow, object
// describe calls, and normalization into the snapshot schema model.
package sfdc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// cliTimeout bounds how long we wait for the sf CLI to answer.
const cliTimeout = 30 * time.Second

// Session is an authenticated connection to one org.
type Session struct {
	InstanceURL string
	AccessToken string
	Username    string
}

// orgDisplay is the JSON envelope printed by `sf org display --json`.
type orgDisplay struct {
	Status int `json:"status"`
	Result struct {
		InstanceURL string `json:"instanceUrl"`
		AccessToken string `json:"accessToken"`
		Username    string `json:"username"`
	} `json:"result"`
}

// SessionFromCLI asks the installed sf CLI for the credentials of an
// already-authenticated org. An empty alias uses the CLI's default org.
func SessionFromCLI(ctx context.Context, alias string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, cliTimeout)
	defer cancel()

	args := []string{"org", "display", "--json"}
	if alias != "" {
		args = append(args, "-o", alias)
	}

	out, err := exec.CommandContext(ctx, "sf", args...).Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("sf CLI not found in PATH (install it, or set SF_INSTANCE_URL and SF_ACCESS_TOKEN): %w", err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("sf org display failed for %q: %s", alias, snippet(exitErr.Stderr))
		}
		return nil, fmt.Errorf("sf org display failed for %q: %w", alias, err)
	}

	var display orgDisplay
	if err := json.Unmarshal(out, &display); err != nil {
		return nil, fmt.Errorf("failed to parse sf org display output: %w", err)
	}
	if display.Result.InstanceURL == "" || display.Result.AccessToken == "" {
		return nil, fmt.Errorf("sf org display returned no credentials for %q (is the org authenticated?)", alias)
	}

	return &Session{
		InstanceURL: strings.TrimSuffix(display.Result.InstanceURL, "/"),
		AccessToken: display.Result.AccessToken,
		Username:    display.Result.Username,
	}, nil
}

// SessionFromEnv builds a session from SF_INSTANCE_URL and SF_ACCESS_TOKEN.
// Returns false when either variable is unset.
func SessionFromEnv() (*Session, bool) {
	instanceURL := os.Getenv("SF_INSTANCE_URL")
	accessToken := os.Getenv("SF_ACCESS_TOKEN")
	if instanceURL == "" || accessToken == "" {
		return nil, false
	}

	return &Session{
		InstanceURL: strings.TrimSuffix(instanceURL, "/"),
		AccessToken: accessToken,
		Username:    os.Getenv("SF_USERNAME"),
	}, true
}

// snippet truncates a response body for inclusion in an error message.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
