package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/deadside-ru/hub/pkg/api"
	"github.com/deadside-ru/hub/pkg/client"
	"github.com/deadside-ru/hub/pkg/keystore"
	"github.com/deadside-ru/hub/pkg/session"
)

// app wires the shared layers every command needs: settings, the REST
// client, credential storage, and the session store.
type app struct {
	settings *client.Settings
	api      *api.Client
	keys     *keystore.Store
	session  *session.Store
}

func loadSettings() *client.Settings {
	settings := client.LoadSettings()
	if serverURL != "" {
		settings.BackendURL = serverURL
	}
	if v := os.Getenv("DEADSIDE_HUB_SERVER"); v != "" && serverURL == "" {
		settings.BackendURL = v
	}
	return settings
}

func newApp() (*app, error) {
	settings := loadSettings()

	keys, err := keystore.Open(settings.KeystorePath())
	if err != nil {
		return nil, err
	}

	apiClient := api.NewClient(settings.BackendURL)
	return &app{
		settings: settings,
		api:      apiClient,
		keys:     keys,
		session:  session.New(apiClient, keys),
	}, nil
}

func (a *app) close() {
	_ = a.keys.Close()
}

// restore loads a persisted credential and validates it. Commands that
// need an authenticated session call requireAuth instead.
func (a *app) restore(ctx context.Context) error {
	return a.session.Restore(ctx)
}

func (a *app) requireAuth(ctx context.Context) error {
	if err := a.restore(ctx); err != nil {
		return err
	}
	if !a.session.Authenticated() {
		return errors.New("not logged in (run `hub login` first)")
	}
	return nil
}

// promptLine reads one line from stdin, printing label first.
func promptLine(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
