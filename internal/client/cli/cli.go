package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/iudanet/tweetbook/internal/client/api"
	"github.com/iudanet/tweetbook/internal/client/auth"
	"github.com/iudanet/tweetbook/internal/client/iocli"
	pkgapi "github.com/iudanet/tweetbook/pkg/api"
)

// PasswordEnv is read before prompting for a password
const PasswordEnv = "TWEETBOOK_PASSWORD"

// ErrUsage is returned when the command line cannot be understood
var ErrUsage = errors.New("invalid usage")

// PostsClient is the part of the HTTP client used by the posts commands
type PostsClient interface {
	ListPosts(ctx context.Context, accessToken string) ([]pkgapi.PostResponse, error)
	GetPost(ctx context.Context, accessToken, postID string) (*pkgapi.PostResponse, error)
	CreatePost(ctx context.Context, accessToken, name string) (*pkgapi.PostResponse, error)
	UpdatePost(ctx context.Context, accessToken, postID, name string) (*pkgapi.PostResponse, error)
	DeletePost(ctx context.Context, accessToken, postID string) error
}

type Cli struct {
	io          iocli.IO
	authService auth.Service
	posts       PostsClient
	getenv      func(string) string
}

func New(io iocli.IO, authService auth.Service, posts PostsClient) *Cli {
	return &Cli{
		io:          io,
		authService: authService,
		posts:       posts,
		getenv:      os.Getenv,
	}
}

// Run executes the command named by args[0]
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.PrintUsage()
		return ErrUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "refresh":
		return c.runRefresh(ctx)
	case "posts":
		return c.runPosts(ctx, rest)
	case "help":
		c.PrintUsage()
		return nil
	default:
		c.io.Printf("Unknown command: %s\n\n", command)
		c.PrintUsage()
		return ErrUsage
	}
}

// getPassword reads the password from PasswordEnv, falling back to a hidden prompt
func (c *Cli) getPassword(prompt string) (string, error) {
	if password := c.getenv(PasswordEnv); password != "" {
		return password, nil
	}

	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	return password, nil
}

// explain turns an expired or revoked session into an actionable message
func explain(err error) error {
	if errors.Is(err, auth.ErrNotAuthenticated) {
		return err
	}
	if api.IsUnauthorized(err) {
		return fmt.Errorf("session is no longer valid, run 'tweetbook login' again: %w", err)
	}
	return err
}

func (c *Cli) PrintUsage() {
	c.io.Println("Tweetbook Client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  tweetbook [OPTIONS] COMMAND")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  --version        Show version information")
	c.io.Println("  --server URL     Server URL (default: http://localhost:8080)")
	c.io.Println("  --db PATH        Path to local session database (default: tweetbook-client.db)")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  register                     Create an account and sign in")
	c.io.Println("  login                        Sign in")
	c.io.Println("  logout                       Forget the local session")
	c.io.Println("  status                       Show the signed-in user and token expiry")
	c.io.Println("  refresh                      Rotate an expired token pair")
	c.io.Println("  posts list                   List all posts")
	c.io.Println("  posts get <id>               Show one post")
	c.io.Println("  posts create <name>          Create a post")
	c.io.Println("  posts update <id> <name>     Rename a post you own")
	c.io.Println("  posts delete <id>            Delete a post you own")
	c.io.Println()
	c.io.Printf("The password is read from %s when set, otherwise prompted for.\n", PasswordEnv)
}
