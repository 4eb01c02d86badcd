package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var (
	// CommandContext is a variable that allows overriding the command creation for testing
	CommandContext = exec.CommandContext
	// LookPath is a variable that allows overriding the lookup behavior for testing
	LookPath = exec.LookPath
)

// ResolveSecretReference resolves secret references to their values.
// Supported schemes are env://NAME (environment variable) and
// op://vault/item/field (1Password CLI). Returns the resolved value and
// whether the input was a secret reference.
func ResolveSecretReference(ctx context.Context, value string) (string, bool, error) {
	switch {
	case strings.HasPrefix(value, "env://"):
		name := strings.TrimPrefix(value, "env://")
		if name == "" {
			return "", true, fmt.Errorf("empty environment variable reference")
		}
		v, ok := os.LookupEnv(name)
		if !ok {
			return "", true, fmt.Errorf("environment variable %s is not set", name)
		}
		return v, true, nil

	case strings.HasPrefix(value, "op://"):
		// op:// references take the form op://vault/item/field
		if parts := strings.Split(strings.TrimPrefix(value, "op://"), "/"); len(parts) < 3 {
			return "", true, fmt.Errorf("malformed 1Password reference %q, want op://vault/item/field", value)
		}

		// Check if op CLI is available
		if _, err := LookPath("op"); err != nil {
			return "", true, fmt.Errorf("1Password CLI (op) not found in PATH: %w", err)
		}

		cmd := CommandContext(ctx, "op", "read", value)
		output, err := cmd.Output()
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return "", true, fmt.Errorf("failed to read secret from 1Password: %s", string(exitErr.Stderr))
			}
			return "", true, fmt.Errorf("failed to read secret from 1Password: %w", err)
		}

		// Trim any whitespace/newlines from the output
		return strings.TrimSpace(string(output)), true, nil
	}

	return value, false, nil
}
