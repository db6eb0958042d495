// Command oauth-init runs the one-off OAuth consent flow for the Sheets
// backend and stores the resulting token for GOOGLE_OAUTH_TOKEN_FILE.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"

	"smartbudget/internal/cli"
	"smartbudget/internal/config"
	"smartbudget/internal/log"
)

const (
	defaultRedirectPort = "8085"
	defaultTokenFile    = "token.json"
	consentTimeout      = 5 * time.Minute
)

func main() {
	cli.LoadEnvFile()
	v := config.NewViper()
	v.SetDefault("OAUTH_REDIRECT_PORT", defaultRedirectPort)
	logger := cli.SetupLogger(v.GetString(config.KeyLogLevel), os.Stderr)

	ctx, cancel := cli.SignalContext(context.Background())
	defer cancel()

	if err := run(ctx, config.Load(v), v.GetString("OAUTH_REDIRECT_PORT"), logger); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, port string, logger *log.Logger) error {
	clientJSON, err := clientCredentials(cfg)
	if err != nil {
		return err
	}
	oauthCfg, err := google.ConfigFromJSON(clientJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return fmt.Errorf("oauth config: %w", err)
	}
	// The OAuth client must list this URI among its authorized redirect URIs.
	oauthCfg.RedirectURL = "http://localhost:" + port + "/callback"

	state := uuid.NewString()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", callbackHandler(state, codeCh, errCh))
	srv := &http.Server{Addr: net.JoinHostPort("localhost", port), Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("callback server: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Open this URL to authorize:\n%s\n", oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline))

	select {
	case code := <-codeCh:
		tok, err := oauthCfg.Exchange(ctx, code)
		if err != nil {
			return fmt.Errorf("token exchange: %w", err)
		}
		out := cfg.GoogleOAuthTokenFile
		if out == "" {
			out = defaultTokenFile
		}
		if err := saveToken(out, tok); err != nil {
			return err
		}
		logger.Info("OAuth token saved", "path", out)
		fmt.Println(cli.FormatSuccess("Saved token to " + out))
		return nil
	case err := <-errCh:
		return err
	case <-time.After(consentTimeout):
		return errors.New("authorization timed out")
	case <-ctx.Done():
		return errors.New("interrupted")
	}
}

func clientCredentials(cfg *config.Config) ([]byte, error) {
	if s := strings.TrimSpace(cfg.GoogleOAuthClientJSON); s != "" {
		return []byte(s), nil
	}
	if cfg.GoogleOAuthClientFile == "" {
		return nil, fmt.Errorf("set %s or %s", config.KeyOAuthClientJSON, config.KeyOAuthClientFile)
	}
	b, err := os.ReadFile(cfg.GoogleOAuthClientFile)
	if err != nil {
		return nil, fmt.Errorf("read client file: %w", err)
	}
	return b, nil
}

func callbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if e := q.Get("error"); e != "" {
			http.Error(w, "OAuth error: "+e, http.StatusBadRequest)
			errCh <- fmt.Errorf("consent refused: %s", e)
			return
		}
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "You may close this window and return to the terminal.")
		select {
		case codeCh <- q.Get("code"):
		default:
		}
	}
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}
