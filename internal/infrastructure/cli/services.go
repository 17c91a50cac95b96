package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"boardkit/internal/infrastructure/wiring"
)

func getWorkspaceRoot() (string, error) {
	if workspacePath != "" {
		abs, err := filepath.Abs(workspacePath)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path %q: %w", workspacePath, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("workspace path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("workspace path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.Getwd()
}

// loadServices builds the full service graph for the resolved workspace.
// providerPath routes board access through a plugin binary instead of the
// GitHub gateway.
func loadServices(providerPath string) (*wiring.AppServices, error) {
	root, err := getWorkspaceRoot()
	if err != nil {
		return nil, err
	}
	services, err := wiring.BuildAppServices(root, wiring.GatewayOptions{ProviderPath: providerPath})
	if err != nil {
		return nil, MapError(err)
	}
	return services, nil
}
