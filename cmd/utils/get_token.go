// One-shot helper to obtain the Gmail refresh token used by the gmail
// notifier. Fill in the client credentials, run it, and follow the URL.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

func main() {
	config := &oauth2.Config{
		ClientID:     os.Getenv("GMAIL_CLIENT_ID"),
		ClientSecret: os.Getenv("GMAIL_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://localhost:8090/oauth2callback",
		Scopes:       []string{gmail.GmailSendScope},
	}

	state := "random-state"

	// Start an HTTP server to handle the OAuth callback
	http.HandleFunc("/oauth2callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		code := r.URL.Query().Get("code")
		token, err := config.Exchange(context.Background(), code)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to exchange code: %v", err), http.StatusInternalServerError)
			return
		}

		fmt.Printf("\nRefresh Token: %s\n\n", token.RefreshToken)

		fmt.Fprintf(w, "Authentication successful! You can close this window.")
		os.Exit(0)
	})

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Printf("Open this URL in your browser:\n%s\n", authURL)

	log.Fatal(http.ListenAndServe(":8090", nil))
}
