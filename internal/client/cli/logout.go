package cli

import (
	"context"
	"fmt"
)

// runLogout forgets the local session. Issued tokens stay valid on the
// server until they expire.
func (c *Cli) runLogout(ctx context.Context) error {
	session, err := c.authService.Session(ctx)
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	if err := c.authService.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Printf("✓ Logged out %s\n", session.Email)
	c.io.Println("Your local session has been deleted.")

	return nil
}
