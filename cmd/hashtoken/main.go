// Command hashtoken hashes an admin token for the ADMIN_TOKEN_HASH
// environment variable.
//
// Usage:
//
//	go run ./cmd/hashtoken -token s3cret
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sharetrack/sharetrack/internal/auth"
)

func main() {
	token := flag.String("token", "", "Admin token to hash")
	flag.Parse()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "-token is required")
		os.Exit(1)
	}

	hash, err := auth.HashToken(*token)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash token:", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
