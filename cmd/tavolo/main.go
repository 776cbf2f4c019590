package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tavolo/tavolo/config"
	"github.com/tavolo/tavolo/internal/auth"
	"github.com/tavolo/tavolo/internal/identity"
	"github.com/tavolo/tavolo/internal/orders"
	"github.com/tavolo/tavolo/pkg/cache"
	"github.com/tavolo/tavolo/pkg/event"
	"github.com/tavolo/tavolo/pkg/logger"
	"github.com/tavolo/tavolo/pkg/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tavolo",
	Short: "Tavolo — restaurant ordering client",
	Long:  "Tavolo is the command-line client for the Tavolo ordering platform: browse the menu, manage a cart, check out, and track orders as a guest or a signed-in account.",
}

func init() {
	// Session
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(profileUpdateCmd)

	// Ordering
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(cartAddCmd)
	rootCmd.AddCommand(cartUpdateCmd)
	rootCmd.AddCommand(cartRemoveCmd)
	rootCmd.AddCommand(cartWatchCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(ordersCmd)

	// Events
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(eventsBookCmd)

	// Misc
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(devServerCmd)
}

// session bundles everything a command needs: hydrated auth state, the
// ordering client, and the backing store.
type session struct {
	auth   *auth.Container
	client *orders.Client
	store  store.Store
}

// boot loads config, installs the file-backed store, and hydrates the
// auth container from any persisted session.
func boot() (*session, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, continuing without it", "error", err)
	}

	// Empty root: STORE_ROOT resolved against the home directory.
	store.Use(store.NewFileStore(""))
	active := store.Default()

	container := auth.NewContainer(auth.NewService(active), active)
	container.Hydrate()

	// Session transitions surface as notifications wherever they happen,
	// not just in the command that triggered them.
	event.Listen(event.LoggedIn, func(payload interface{}) {
		if user, ok := payload.(auth.User); ok {
			logger.Info("session started", "user", user.Name, "role", user.Role)
		}
	})
	event.Listen(event.LoggedOut, func(interface{}) {
		logger.Info("session ended")
	})

	return &session{
		auth:   container,
		client: orders.NewClient(active),
		store:  active,
	}, nil
}

// whoFor resolves the ordering identity: the signed-in account when one
// exists, otherwise a persistent guest session id.
func (s *session) whoFor() identity.Identity {
	snap := s.auth.Snapshot()
	if snap.IsAuthenticated && snap.User != nil {
		return identity.Account(snap.User.ID)
	}
	return identity.EnsureGuest(s.store)
}
