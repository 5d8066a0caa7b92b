package googleauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/x4x3r/google-text-to-speach/internal/logging"
)

// DefaultScopes covers reading Gmail message bodies and uploading output to Drive.
var DefaultScopes = []string{gmail.GmailReadonlyScope, drive.DriveFileScope}

const (
	defaultLoopbackAddr = "localhost:8085"
	callbackPath        = "/auth/google/callback"
	authTimeout         = 5 * time.Minute
)

// GoogleAuth wraps oauth2 configuration and helpers.
type GoogleAuth struct {
	config    *oauth2.Config
	tokenPath string
	debug     bool
	logger    *log.Logger
}

// NewGoogleAuth creates GoogleAuth by reading the OAuth client credentials file.
func NewGoogleAuth(credentialsPath, tokenPath string, scopes ...string) (*GoogleAuth, error) {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	logger := logging.Named("auth")
	logger.Debug("using credentials", "path", credentialsPath, "client_id", config.ClientID)
	// Desktop clients register a bare "http://localhost"; the loopback flow
	// serves the callback on its own path.
	config.RedirectURL = "http://" + defaultLoopbackAddr + callbackPath
	return &GoogleAuth{config: config, tokenPath: tokenPath, logger: logger}, nil
}

// SetDebug enables request/response logging on clients built by this GoogleAuth.
func (ga *GoogleAuth) SetDebug(debug bool) { ga.debug = debug }

// AuthURL generates Google OAuth consent URL.
func (ga *GoogleAuth) AuthURL(state string) string {
	return ga.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// SetRedirectURL overrides the redirect URL (useful for loopback CLI flow).
func (ga *GoogleAuth) SetRedirectURL(redirect string) {
	ga.config.RedirectURL = redirect
}

// ObtainTokenInteractive starts a temporary local HTTP server (loopback flow)
// on addr, logs the consent URL, captures the auth code and saves the token.
func (ga *GoogleAuth) ObtainTokenInteractive(ctx context.Context, addr string) error {
	if addr == "" {
		addr = defaultLoopbackAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	defer ln.Close()
	ga.SetRedirectURL("http://" + addr + callbackPath)

	state, err := randomState()
	if err != nil {
		return err
	}
	ga.logger.Info("open this URL to authorize", "url", ga.AuthURL(state))

	codeCh := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "code missing", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, "Authorization received. You can close this tab.")
		select {
		case codeCh <- code:
		default:
		}
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		_ = srv.Serve(ln)
	}()
	defer srv.Close()

	var code string
	select {
	case code = <-codeCh:
	case <-time.After(authTimeout):
		return errors.New("authorization timeout")
	case <-ctx.Done():
		return ctx.Err()
	}

	_, err = ga.Exchange(ctx, code)
	return err
}

// Exchange exchanges code to token and persist it.
func (ga *GoogleAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := ga.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	if err := ga.SaveToken(tok); err != nil {
		return nil, err
	}
	ga.logger.Info("token saved", "path", ga.tokenPath)
	return tok, nil
}

// SaveToken writes token to the token path.
func (ga *GoogleAuth) SaveToken(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(ga.tokenPath), 0o700); err != nil {
		return fmt.Errorf("unable to create token dir: %w", err)
	}
	f, err := os.OpenFile(ga.tokenPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// TokenFromFile retrieves token from local file.
func (ga *GoogleAuth) TokenFromFile() (*oauth2.Token, error) {
	f, err := os.Open(ga.tokenPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var tok oauth2.Token
	err = json.NewDecoder(f).Decode(&tok)
	return &tok, err
}

// HTTPClient returns an authorized client using the cached token.
func (ga *GoogleAuth) HTTPClient(ctx context.Context) (*http.Client, error) {
	tok, err := ga.TokenFromFile()
	if err != nil {
		return nil, fmt.Errorf("load oauth token (run with -auth first): %w", err)
	}
	client := ga.config.Client(ctx, tok)
	if ga.debug {
		client.Transport = &loggingTransport{base: client.Transport, logger: logging.Named("google")}
	}
	return client, nil
}

// BuildGmailService loads the token and builds the Gmail API service.
func (ga *GoogleAuth) BuildGmailService(ctx context.Context) (*gmail.Service, error) {
	client, err := ga.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	return gmail.NewService(ctx, option.WithHTTPClient(client))
}

// BuildDriveService loads the token and builds the Drive API service.
func (ga *GoogleAuth) BuildDriveService(ctx context.Context) (*drive.Service, error) {
	client, err := ga.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	return drive.NewService(ctx, option.WithHTTPClient(client))
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return "st-" + hex.EncodeToString(b), nil
}
