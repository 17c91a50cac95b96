// Package provider loads board provider plugin binaries and wraps them
// for use by the assignment engine.
package provider

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	goplugin "github.com/hashicorp/go-plugin"

	domainProvider "boardkit/pkg/domain/provider"
)

var HandshakeConfig = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "BOARDKIT_PLUGIN",
	MagicCookieValue: "boardkit",
}

var PluginMap = map[string]goplugin.Plugin{
	"provider": &domainProvider.BoardPlugin{},
}

// Loader starts provider plugin processes and keeps track of them so
// they can be killed on shutdown.
type Loader struct {
	plugins map[string]*goplugin.Client
}

func NewLoader() *Loader {
	return &Loader{
		plugins: make(map[string]*goplugin.Client),
	}
}

// Load starts the plugin binary at path and returns its Provider.
func (l *Loader) Load(path string) (domainProvider.Provider, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid provider path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("provider not found: %s", absPath)
		}
		return nil, fmt.Errorf("cannot access provider: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("provider path is a directory: %s", absPath)
	}

	if runtime.GOOS != "windows" {
		if info.Mode()&0111 == 0 {
			return nil, fmt.Errorf("provider is not executable: %s", absPath)
		}
	}

	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins:         PluginMap,
		Cmd:             exec.Command(path),
		AllowedProtocols: []goplugin.Protocol{
			goplugin.ProtocolNetRPC,
		},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to create provider client: %w", err)
	}

	raw, err := rpcClient.Dispense("provider")
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense provider: %w", err)
	}

	l.plugins[path] = client
	return raw.(domainProvider.Provider), nil
}

// Cleanup kills every plugin process started by this loader.
func (l *Loader) Cleanup() {
	for _, client := range l.plugins {
		client.Kill()
	}
}

// Serve runs a provider implementation as a plugin process. Called from
// a provider binary's main.
func Serve(impl domainProvider.Provider) {
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins: map[string]goplugin.Plugin{
			"provider": &domainProvider.BoardPlugin{Impl: impl},
		},
	})
}
