package cli

import (
	"context"
	"time"
)

func (c *Cli) runRefresh(ctx context.Context) error {
	session, err := c.authService.Refresh(ctx)
	if err != nil {
		return explain(err)
	}

	c.io.Println("✓ Session refreshed")
	c.io.Printf("Access token expires: %s\n", time.Unix(session.ExpiresAt, 0).Format(time.RFC3339))
	return nil
}
