// Command useradd creates a login for the roster application.
//
// Usage:
//
//	useradd -config configs/config.yaml -username admin
//
// The password is read from the SOBREAVISO_NEW_PASSWORD environment variable,
// or from the first line of standard input when the variable is unset.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/thiagoblake/Sistema-SobreAviso/internal/config"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/domain"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/identity"
	identitypostgres "github.com/thiagoblake/Sistema-SobreAviso/internal/identity/postgres"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/postgres"
	"github.com/thiagoblake/Sistema-SobreAviso/migrations"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to YAML config file")
	username := flag.String("username", "", "login name to create")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	if err := run(*configPath, *username, *cost, os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, "useradd:", err)
		os.Exit(1)
	}
}

func run(configPath, username string, cost int, stdin io.Reader) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("-username is required")
	}

	password, err := readPassword(stdin)
	if err != nil {
		return err
	}

	hash, err := identity.HashPassword(password, cost)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(migrations.FS, cfg.Database.URL); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()

	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    1,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	user := &domain.User{Username: username, PasswordHash: hash}
	if err := identitypostgres.NewRepository(db).CreateUser(ctx, user); err != nil {
		return err
	}

	fmt.Printf("created user %s (id %s) at %s\n", user.Username, user.ID, user.CreatedAt.Format(time.RFC3339))
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if pw := os.Getenv("SOBREAVISO_NEW_PASSWORD"); pw != "" {
		return pw, nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password is empty")
	}
	return pw, nil
}
