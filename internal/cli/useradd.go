package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adewaleolaore/youtube-arsenal/internal/config"
	"github.com/adewaleolaore/youtube-arsenal/internal/logging"
	"github.com/adewaleolaore/youtube-arsenal/internal/storage"
)

func newUserAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "useradd <username>",
		Short: "Create a login for the web API",
		Long:  "Create a login for the web API. Without --password the password is read from the first line of stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				var err error
				if password, err = readPassword(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			cfg := config.Load()
			store, err := storage.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, logging.New(cfg.LogLevel, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer store.Close()

			u, err := store.CreateUser(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().String("password", "", "Password for the new user")
	return cmd
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is empty: pass --password or pipe it on stdin")
	}
	return line, nil
}
