package main

import (
	"fmt"
	"log"
	"os"

	"explore-sync.backend/pkg/crypto"
)

var (
	printfFn       = fmt.Printf
	generateKeyFn  = generateKey
	generateHashFn = crypto.HashPassword
	fatalfFn       = log.Fatalf
)

// generateKey returns the key to hash: the first CLI argument if given,
// otherwise a fresh random token.
func generateKey(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return crypto.GenerateRandomToken(32)
}

func main() {
	key, err := generateKeyFn(os.Args[1:])
	if err != nil {
		fatalfFn("Failed to generate key: %v", err)
	}

	hash, err := generateHashFn(key)
	if err != nil {
		fatalfFn("Failed to hash key: %v", err)
	}

	printfFn("API key:  %s\n", key)
	printfFn("Set SYNC_API_KEY_HASH=%s\n", hash)
}
