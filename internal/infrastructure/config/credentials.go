// Package config resolves runtime settings that live outside the
// workspace: API credentials and environment overrides.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"boardkit/pkg/domain/board"
)

// Token environment variables, in precedence order. BOARDKIT_TOKEN wins
// so a dedicated automation token can coexist with a developer's
// GITHUB_TOKEN.
var tokenVars = []string{"BOARDKIT_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"}

// Credential returns the API token for board and repository calls. A
// .env file in the working directory is honored when present; real
// environment variables take precedence over it.
func Credential() (string, error) {
	_ = godotenv.Load()

	for _, name := range tokenVars {
		if token := os.Getenv(name); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("%w: set one of BOARDKIT_TOKEN, GITHUB_TOKEN, GH_TOKEN", board.ErrNoCredential)
}

// APIEndpoint returns the GraphQL endpoint, overridable for GitHub
// Enterprise installs via BOARDKIT_GRAPHQL_URL.
func APIEndpoint() string {
	if url := os.Getenv("BOARDKIT_GRAPHQL_URL"); url != "" {
		return url
	}
	return "https://api.github.com/graphql"
}
