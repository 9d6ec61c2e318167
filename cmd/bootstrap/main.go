package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"lateentry/internal/config"
	"lateentry/internal/credential"
	"lateentry/internal/identity"
	"lateentry/internal/store"
)

// Bootstrap creates the initial admin account. Credentials are supplied
// explicitly — there is no compiled-in default.
func main() {
	var (
		email    = flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
		password = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
		name     = flag.String("name", "Administrator", "admin display name")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password (or ADMIN_EMAIL / ADMIN_PASSWORD) are required")
	}

	cfg := config.Load()
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	users := identity.NewPostgresStore(db.Client)
	issuer := credential.NewSQLIssuer(db.Client, cfg.BcryptCost)

	if _, err := users.FindByEmail(ctx, *email); err == nil {
		log.Println("admin already exists, nothing to do")
		return
	} else if !errors.Is(err, identity.ErrNotFound) {
		log.Fatalf("lookup failed: %v", err)
	}

	svc := identity.NewService(users, issuer)
	admin, err := svc.CreateAdmin(ctx, *name, *email, *password)
	if err != nil {
		log.Fatalf("admin bootstrap failed: %v", err)
	}

	log.Printf("admin %s created (id %s)", admin.Email, admin.ID)
}
