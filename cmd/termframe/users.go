package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pkt.systems/termframe"
	"pkt.systems/termframe/internal/auth"
)

// NewUsersCommand builds the users management command. Changes are written
// to the users file; a running server picks them up on its next poll.
func NewUsersCommand(loader *termframe.Loader) *cobra.Command {
	var usersFile string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage console users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&usersFile, "users-file", termframe.DefaultUsersPath(), "path to users file")

	// mutate loads the store, runs fn on the trimmed username and saves.
	mutate := func(fn func(cmd *cobra.Command, store *auth.Store, username string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			store, path, err := loadUserStore(cmd, loader, usersFile)
			if err != nil {
				return err
			}
			username := strings.TrimSpace(args[0])
			if username == "" {
				return formatUserError(auth.ErrUsernameRequired)
			}
			if err := fn(cmd, store, username); err != nil {
				return formatUserError(err)
			}
			return store.Save(path)
		}
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := loadUserStore(cmd, loader, usersFile)
			if err != nil {
				return err
			}
			users := store.List()
			resp := make([]userSummary, 0, len(users))
			for _, user := range users {
				resp = append(resp, userSummary{
					Username:  user.Username,
					CreatedAt: user.CreatedAt,
				})
			}
			return printJSON(cmd, resp)
		},
	}

	var addPrompt bool
	addCmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Add a user with a generated TOTP secret",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(func(cmd *cobra.Command, store *auth.Store, username string) error {
			password, err := maybePrompt(addPrompt)
			if err != nil {
				return err
			}
			resp, err := store.Create(username, password, time.Now().UTC())
			if err != nil {
				return err
			}
			printUserCreate(cmd.OutOrStdout(), resp)
			return nil
		}),
	}
	addCmd.Flags().BoolVar(&addPrompt, "prompt", false, "prompt for password instead of generating one")

	var chpasswdPrompt bool
	chpasswdCmd := &cobra.Command{
		Use:   "chpasswd <username>",
		Short: "Change a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(func(cmd *cobra.Command, store *auth.Store, username string) error {
			password, err := maybePrompt(chpasswdPrompt)
			if err != nil {
				return err
			}
			resp, err := store.SetPassword(username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password: %s\n", resp.Password)
			return nil
		}),
	}
	chpasswdCmd.Flags().BoolVar(&chpasswdPrompt, "prompt", false, "prompt for password instead of generating one")

	rotateCmd := &cobra.Command{
		Use:   "rotate-totp <username>",
		Short: "Rotate a user's TOTP secret",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(func(cmd *cobra.Command, store *auth.Store, username string) error {
			resp, err := store.RotateTOTP(username)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "username: %s\n", resp.User.Username)
			printTOTP(w, resp.TOTPSecret, resp.TOTPURL)
			return nil
		}),
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: mutate(func(cmd *cobra.Command, store *auth.Store, username string) error {
			if err := store.Remove(username); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "user deleted")
			return nil
		}),
	}

	cmd.AddCommand(listCmd, addCmd, chpasswdCmd, rotateCmd, deleteCmd)
	return cmd
}

type userSummary struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func loadUserStore(cmd *cobra.Command, loader *termframe.Loader, usersFileFlag string) (*auth.Store, string, error) {
	cfg, err := loader.Load()
	if err != nil {
		return nil, "", err
	}
	usersFile := usersFileFlag
	if !cmd.Flags().Changed("users-file") {
		usersFile = cfg.Server.UsersFile
	}
	usersFile = strings.TrimSpace(usersFile)
	if usersFile == "" {
		return nil, "", fmt.Errorf("users file is required")
	}
	store, err := auth.LoadStore(usersFile)
	if err != nil {
		return nil, "", err
	}
	return store, usersFile, nil
}

func formatUserError(err error) error {
	switch {
	case errors.Is(err, auth.ErrUserExists):
		return fmt.Errorf("user already exists")
	case errors.Is(err, auth.ErrUserNotFound):
		return fmt.Errorf("user not found")
	case errors.Is(err, auth.ErrUsernameRequired):
		return fmt.Errorf("username is required")
	default:
		return err
	}
}

// maybePrompt returns an empty password, which asks for a generated one,
// unless prompt is set.
func maybePrompt(prompt bool) (string, error) {
	if !prompt {
		return "", nil
	}
	fmt.Fprint(os.Stdout, "Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stdout)
	if err != nil {
		return "", err
	}
	return string(passwordBytes), nil
}

func printUserCreate(w io.Writer, resp auth.Credentials) {
	_, _ = fmt.Fprintf(w, "username: %s\n", resp.User.Username)
	_, _ = fmt.Fprintf(w, "password: %s\n", resp.Password)
	printTOTP(w, resp.TOTPSecret, resp.TOTPURL)
}

func printTOTP(w io.Writer, secret, url string) {
	if secret != "" {
		_, _ = fmt.Fprintf(w, "totp_secret: %s\n", secret)
	}
	if strings.TrimSpace(url) == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "otpauth_url: %s\n", url)
	_, _ = fmt.Fprintln(w, "totp_qr:")
	qrterminal.GenerateHalfBlock(url, qrterminal.L, w)
}
