// Command token-gen mints signed access tokens for local development and
// smoke testing, using the same claims layout the server validates.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"watchlist/internal/auth"
	"watchlist/internal/domain"
)

func main() {
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "HMAC signing secret (defaults to JWT_SECRET)")
	subject := flag.String("sub", "", "subject claim; a random UUID when empty")
	username := flag.String("username", "", "username claim")
	role := flag.String("role", string(domain.RoleRegular), "role claim: regular or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *username == "" {
		log.Fatal("username is required")
	}
	if *role != string(domain.RoleRegular) && *role != string(domain.RoleAdmin) {
		log.Fatalf("unknown role %q", *role)
	}
	sub := *subject
	if sub == "" {
		sub = uuid.NewString()
	}

	mgr, err := auth.NewManager(*secret, *ttl)
	if err != nil {
		log.Fatalf("init token manager: %v", err)
	}
	token, err := mgr.Generate(sub, *username, domain.Role(*role))
	if err != nil {
		log.Fatalf("mint token: %v", err)
	}
	fmt.Println(token)
}
