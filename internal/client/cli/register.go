package cli

import (
	"context"
	"errors"
	"fmt"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.readNewPassword()
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Registering user...")

	session, err := c.authService.Register(ctx, email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %s\n", session.UserID)
	c.io.Printf("Email: %s\n", session.Email)
	c.io.Println()
	c.io.Println("You are now logged in.")

	return nil
}

// readNewPassword asks twice unless the password comes from the environment
func (c *Cli) readNewPassword() (string, error) {
	if password := c.getenv(PasswordEnv); password != "" {
		return password, nil
	}

	password, err := c.getPassword("Password: ")
	if err != nil {
		return "", err
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}
