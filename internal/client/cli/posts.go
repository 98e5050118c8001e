package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	pkgapi "github.com/iudanet/tweetbook/pkg/api"
)

const postsUsage = "usage: tweetbook posts <list|get|create|update|delete> [args]"

func (c *Cli) runPosts(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.io.Println(postsUsage)
		return ErrUsage
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list", "ls":
		return c.runListPosts(ctx)
	case "get":
		id, err := requireArg(rest, "post id")
		if err != nil {
			return err
		}
		return c.runGetPost(ctx, id)
	case "create":
		return c.runCreatePost(ctx, strings.Join(rest, " "))
	case "update":
		id, err := requireArg(rest, "post id")
		if err != nil {
			return err
		}
		return c.runUpdatePost(ctx, id, strings.Join(rest[1:], " "))
	case "delete", "rm":
		id, err := requireArg(rest, "post id")
		if err != nil {
			return err
		}
		return c.runDeletePost(ctx, id)
	default:
		c.io.Printf("Unknown posts command: %s\n", sub)
		c.io.Println(postsUsage)
		return ErrUsage
	}
}

func requireArg(args []string, what string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("%w: missing %s", ErrUsage, what)
	}
	return args[0], nil
}

func (c *Cli) runListPosts(ctx context.Context) error {
	token, err := c.authService.AccessToken(ctx)
	if err != nil {
		return explain(err)
	}

	posts, err := c.posts.ListPosts(ctx, token)
	if err != nil {
		return explain(fmt.Errorf("failed to list posts: %w", err))
	}

	if len(posts) == 0 {
		c.io.Println("No posts found.")
		c.io.Println()
		c.io.Println("Use 'tweetbook posts create <name>' to write the first one.")
		return nil
	}

	tw := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAUTHOR\tCREATED")
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.UserID, p.CreatedAt.Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write posts: %w", err)
	}

	c.io.Println()
	c.io.Printf("%d post(s)\n", len(posts))
	return nil
}

func (c *Cli) runGetPost(ctx context.Context, id string) error {
	token, err := c.authService.AccessToken(ctx)
	if err != nil {
		return explain(err)
	}

	post, err := c.posts.GetPost(ctx, token, id)
	if err != nil {
		return explain(fmt.Errorf("failed to get post: %w", err))
	}

	c.printPost(post)
	return nil
}

func (c *Cli) runCreatePost(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		var err error
		name, err = c.io.ReadInput("Name: ")
		if err != nil {
			return fmt.Errorf("failed to read name: %w", err)
		}
	}

	token, err := c.authService.AccessToken(ctx)
	if err != nil {
		return explain(err)
	}

	post, err := c.posts.CreatePost(ctx, token, name)
	if err != nil {
		return explain(fmt.Errorf("failed to create post: %w", err))
	}

	c.io.Println("✓ Post created")
	c.printPost(post)
	return nil
}

func (c *Cli) runUpdatePost(ctx context.Context, id, name string) error {
	if strings.TrimSpace(name) == "" {
		var err error
		name, err = c.io.ReadInput("New name: ")
		if err != nil {
			return fmt.Errorf("failed to read name: %w", err)
		}
	}

	token, err := c.authService.AccessToken(ctx)
	if err != nil {
		return explain(err)
	}

	post, err := c.posts.UpdatePost(ctx, token, id, name)
	if err != nil {
		return explain(fmt.Errorf("failed to update post: %w", err))
	}

	c.io.Println("✓ Post updated")
	c.printPost(post)
	return nil
}

func (c *Cli) runDeletePost(ctx context.Context, id string) error {
	token, err := c.authService.AccessToken(ctx)
	if err != nil {
		return explain(err)
	}

	if err := c.posts.DeletePost(ctx, token, id); err != nil {
		return explain(fmt.Errorf("failed to delete post: %w", err))
	}

	c.io.Printf("✓ Post %s deleted\n", id)
	return nil
}

func (c *Cli) printPost(post *pkgapi.PostResponse) {
	c.io.Printf("ID:      %s\n", post.ID)
	c.io.Printf("Name:    %s\n", post.Name)
	c.io.Printf("Author:  %s\n", post.UserID)
	c.io.Printf("Created: %s\n", post.CreatedAt.Format(time.RFC3339))
	c.io.Printf("Updated: %s\n", post.UpdatedAt.Format(time.RFC3339))
}
