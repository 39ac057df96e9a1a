package drive

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

// Scope limits the app to files it created or was handed.
const Scope = drive.DriveFileScope

// ErrNoToken means no saved token exists and interactive consent was not
// allowed. Run `convertor auth` first.
var ErrNoToken = errors.New("no drive token; run the auth command")

// OAuthConfig reads an installed-app client secret file.
func OAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, Scope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return cfg, nil
}

// LoadToken reads a token saved by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", filepath.Base(path), err)
	}
	return tok, nil
}

// SaveToken writes tok to path, readable only by the owner.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Client returns an HTTP client authorized for Drive. A saved token is
// used when present; otherwise, if interactive, the consent flow runs and
// its token is saved.
func Client(ctx context.Context, cfg *oauth2.Config, tokenFile string, interactive bool, log *slog.Logger) (*http.Client, error) {
	tok, err := LoadToken(tokenFile)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && interactive:
		tok, err = Authorize(ctx, cfg, os.Stderr, log)
		if err != nil {
			return nil, err
		}
		if err := SaveToken(tokenFile, tok); err != nil {
			return nil, err
		}
		log.Info("saved drive token", "path", tokenFile)
	case errors.Is(err, os.ErrNotExist):
		return nil, ErrNoToken
	default:
		return nil, err
	}
	return cfg.Client(ctx, tok), nil
}

// Authorize runs the installed-app consent flow: it listens on a loopback
// port, prints the consent URL to out, and exchanges the code the browser
// redirects back with.
func Authorize(ctx context.Context, cfg *oauth2.Config, out io.Writer, log *slog.Logger) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for oauth redirect: %w", err)
	}
	defer ln.Close()

	redirect := *cfg
	redirect.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	type result struct {
		code string
		err  error
	}
	results := make(chan result, 1)
	srv := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			var res result
			switch {
			case q.Get("state") != state:
				res.err = errors.New("oauth state mismatch")
			case q.Get("error") != "":
				res.err = fmt.Errorf("oauth consent denied: %s", q.Get("error"))
			case q.Get("code") == "":
				res.err = errors.New("oauth redirect without code")
			default:
				res.code = q.Get("code")
			}
			if res.err != nil {
				http.Error(w, res.err.Error(), http.StatusBadRequest)
			} else {
				fmt.Fprintln(w, "Authorization complete. You can close this window.")
			}
			select {
			case results <- res:
			default:
			}
		}),
	}
	go srv.Serve(ln)
	defer srv.Close()

	url := redirect.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open this URL in your browser to authorize Drive access:\n\n%s\n\n", url)
	log.Info("waiting for oauth consent", "redirect", redirect.RedirectURL)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := redirect.Exchange(ctx, res.code)
		if err != nil {
			return nil, fmt.Errorf("exchange oauth code: %w", err)
		}
		return tok, nil
	}
}

func randomState() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
