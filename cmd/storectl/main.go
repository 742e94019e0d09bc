// Command storectl inspects and resets the durable storefront state (session
// and cart) in whichever backend STORAGE_BACKEND selects.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/akmalqodirov005/e-commerse/internal/backend"
	"github.com/akmalqodirov005/e-commerse/internal/cart"
	"github.com/akmalqodirov005/e-commerse/internal/config"
	"github.com/akmalqodirov005/e-commerse/internal/sessions"
	"github.com/akmalqodirov005/e-commerse/pkg/logger"
)

const usage = `usage: storectl <command>

commands:
  show            print the stored session (without tokens) and cart
  clear-session   remove the stored session
  clear-cart      empty the stored cart`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	be, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	defer be.Close(context.Background())

	if err := run(ctx, os.Args[1], be); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, be *backend.Backend) error {
	switch cmd {
	case "show":
		m := sessions.NewManager(be.Sessions)
		m.Init(ctx)
		s := m.Snapshot()
		out := map[string]interface{}{
			"backend":         be.Name,
			"authenticated":   s.Authenticated(),
			"hasRefreshToken": s.RefreshToken != "",
			"user":            s.User,
		}
		if exp, ok := m.AccessTokenExpiry(); ok {
			out["accessTokenExpiresAt"] = exp.UTC()
		}
		out["cart"] = cart.NewService(ctx, be.Cart).View()
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "clear-session":
		return sessions.NewManager(be.Sessions).Logout(ctx)
	case "clear-cart":
		_, err := cart.NewService(ctx, be.Cart).Clear(ctx)
		return err
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}
