package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-digest/internal/credential"
	"github.com/nguyentantai21042004/caption-digest/internal/errors"
)

func NewKeyCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the MeaningCloud API key",
	}
	cmd.AddCommand(newKeySetCmd(deps), newKeyShowCmd(deps))
	return cmd
}

func newKeySetCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "set [key]",
		Short: "Store the API key (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read key: %w", err)
				}
				key = line
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return fmt.Errorf("key must not be empty")
			}

			store, err := credential.Open(deps.Config.Credential)
			if err != nil {
				return fmt.Errorf("open credential store: %w", err)
			}
			defer store.Close()

			if err := store.Set(cmd.Context(), key); err != nil {
				return fmt.Errorf("store key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ API key saved (%s backend)\n", deps.Config.Credential.Backend)
			return nil
		},
	}
}

func newKeyShowCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored API key, masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := credential.Open(deps.Config.Credential)
			if err != nil {
				return fmt.Errorf("open credential store: %w", err)
			}
			defer store.Close()

			key, err := store.Get(cmd.Context())
			if errors.Is(err, errors.ErrCredentialMissing) {
				fmt.Fprintln(cmd.OutOrStdout(), "No API key stored. Run: digest key set")
				return nil
			}
			if err != nil {
				return fmt.Errorf("read key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), maskKey(key))
			return nil
		},
	}
}

// maskKey keeps the last four characters.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
