// Command issue-token mints a bearer token for an operator. It is meant for
// local development and smoke tests; production tokens come from the
// identity service.
//
// Usage:
//
//	issue-token --user=<uuid> --role=operator --districts=<uuid>,<uuid>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/dossier-issuance/internal/auth"
	"github.com/heartmarshall/dossier-issuance/internal/config"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

func main() {
	user := flag.String("user", "", "operator user id (random when empty)")
	role := flag.String("role", "operator", "operator role (admin may access every district)")
	districts := flag.String("districts", "", "comma-separated district ids the operator may access")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	actor := domain.Actor{UserID: uuid.New(), Role: *role}
	if *user != "" {
		if actor.UserID, err = uuid.Parse(*user); err != nil {
			log.Fatalf("parse --user: %v", err)
		}
	}
	for _, s := range strings.Split(*districts, ",") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			log.Fatalf("parse --districts: %v", err)
		}
		actor.Districts = append(actor.Districts, id)
	}

	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	token, err := jwt.GenerateAccessToken(actor)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Fprintln(os.Stdout, token)
}
