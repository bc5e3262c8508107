package gateway

import (
	"errors"
	"fmt"

	"github.com/jferrl/go-githubauth"
	"golang.org/x/oauth2"
)

// Credentials selects how the gateway authenticates. A personal access token
// wins over GitHub App credentials when both are present.
type Credentials struct {
	Token string

	AppClientID       string
	AppPrivateKey     []byte
	AppInstallationID int64
}

// TokenSource builds the oauth2 token source for creds.
func TokenSource(creds Credentials) (oauth2.TokenSource, error) {
	if creds.Token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token}), nil
	}
	if creds.AppClientID == "" || len(creds.AppPrivateKey) == 0 || creds.AppInstallationID == 0 {
		return nil, errors.New("no GitHub token or complete GitHub App credentials provided")
	}
	appTokenSource, err := githubauth.NewApplicationTokenSource(creds.AppClientID, creds.AppPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App token source: %w", err)
	}
	return githubauth.NewInstallationTokenSource(creds.AppInstallationID, appTokenSource), nil
}
