// Command console is a small operator tool that drives the SwiftTax API the
// way the web dashboard does: it signs in, opens the notification panel, and
// browses the admin user table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/swifttax/swifttax-api/internal/admintable"
	"github.com/swifttax/swifttax-api/internal/client"
	"github.com/swifttax/swifttax-api/internal/panel"
	"github.com/swifttax/swifttax-api/internal/session"

	"go.uber.org/zap"
)

type stdoutToasts struct{}

func (stdoutToasts) Success(msg string) { fmt.Println("ok:", msg) }
func (stdoutToasts) Error(msg string)   { fmt.Println("error:", msg) }

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "SwiftTax API base URL")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	search := flag.String("search", "", "user table search term")
	role := flag.String("role", "", "user table role filter")
	status := flag.String("status", "", "user table status filter")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" || *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: console -email <email> -password <password> [flags] notifications|users")
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	authClient := client.NewAuthClient(*apiURL, logger)
	tokens, err := authClient.Login(ctx, *email, *password)
	if err != nil {
		logger.Fatal("Login failed", zap.Error(err))
	}

	sess := session.NewStatic(&tokens.User, func(ctx context.Context) error {
		return authClient.Logout(ctx, tokens.AccessToken)
	})
	nav := session.NavigatorFunc(func(path string) {
		fmt.Println("navigate:", path)
	})

	switch command {
	case "notifications":
		runNotifications(ctx, sess, nav, *apiURL, tokens.AccessToken, logger)
	case "users":
		runUsers(ctx, *apiURL, tokens.AccessToken, *search, *role, *status, logger)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", command)
		os.Exit(2)
	}
}

func runNotifications(
	ctx context.Context,
	sess session.Session,
	nav session.Navigator,
	apiURL, token string,
	logger *zap.Logger,
) {
	notifClient := client.NewNotificationClient(apiURL, token, logger)
	p := panel.New(notifClient, nav, logger)
	header := panel.NewHeader(sess, nav, p, logger)

	header.ToggleNotifications(ctx)

	user := sess.CurrentUser()
	fmt.Printf("%s (%s): %d unread\n", user.FullName(), panel.Initials(user), p.UnreadCount())
	for _, n := range p.Items() {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s [%s] %s (%s)\n", marker, n.Type, n.Title, panel.TimeAgo(n.CreatedAt, time.Now()))
	}
}

func runUsers(ctx context.Context, apiURL, token, search, role, status string, logger *zap.Logger) {
	userClient := client.NewUserClient(apiURL, token, logger)
	table := admintable.New(userClient, stdoutToasts{}, logger)

	if err := table.Load(ctx); err != nil {
		os.Exit(1)
	}

	table.SetSearch(search)
	table.SetRoleFilter(role)
	table.SetStatusFilter(status)

	visible := table.Visible()
	fmt.Printf("%d of %d users\n", len(visible), len(table.Users()))
	for _, u := range visible {
		fmt.Printf("%4d  %-24s %-32s %-10s %s\n", u.ID, u.FullName(), u.Email, u.Role, u.Status)
	}
}
