// Command jwks-to-pem prints the auth server's ES256 signing key as PEM, ready
// to be used as SUPABASE_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"cutroom/internal/util"
)

func main() {
	url := flag.String("url", "http://127.0.0.1:54321/auth/v1/.well-known/jwks.json", "JWKS endpoint")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(*url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching JWKS: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Unexpected status fetching JWKS: %s\n", resp.Status)
		os.Exit(1)
	}

	pemKey, err := util.SigningKeyPEM(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Print(pemKey)
}
