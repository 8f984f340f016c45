package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// loginTimeout bounds how long the console waits for the browser hop.
const loginTimeout = 3 * time.Minute

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in via the platform identity provider",
	Long: `Sign in using the browser-based authorization code flow.

The console starts a local callback listener, prints the provider URL to
open, and completes the sign-in once the provider redirects back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		if st := a.waitSettled(ctx); st.Authenticated() {
			fmt.Printf("Already signed in as %s\n", st.Session.Identity.Email)
			return nil
		}

		code, err := runCallbackFlow(ctx, a)
		if err != nil {
			return err
		}

		sess, err := a.source.Exchange(ctx, code)
		if err != nil {
			return fmt.Errorf("sign-in failed: %w", err)
		}

		st := a.waitSettled(ctx)
		fmt.Printf("Signed in as %s\n", sess.Identity.Email)
		printWorkspaceLine(st)
		return nil
	},
}

// runCallbackFlow serves the OIDC redirect endpoint and returns the
// authorization code delivered by the provider.
func runCallbackFlow(ctx context.Context, a *app) (string, error) {
	redirect, err := url.Parse(a.cfg.OIDC.RedirectURL)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URL: %w", err)
	}

	state := uuid.New().String()

	type callback struct {
		code string
		err  error
	}
	results := make(chan callback, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			results <- callback{err: errors.New("authorization state mismatch")}
			return
		}
		if errCode := q.Get("error"); errCode != "" {
			http.Error(w, errCode, http.StatusBadRequest)
			results <- callback{err: fmt.Errorf("provider rejected sign-in: %s", errCode)}
			return
		}
		fmt.Fprintln(w, "Signed in. You can close this tab and return to the console.")
		results <- callback{code: q.Get("code")}
	})

	server := &http.Server{Addr: redirect.Host, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			results <- callback{err: fmt.Errorf("callback listener failed: %w", err)}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	fmt.Println("Open the following URL in your browser to sign in:")
	fmt.Println()
	fmt.Printf("  %s\n", a.source.AuthCodeURL(state))
	fmt.Println()

	select {
	case res := <-results:
		if res.err != nil {
			return "", res.err
		}
		return res.code, nil
	case <-time.After(loginTimeout):
		return "", errors.New("timed out waiting for sign-in")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
