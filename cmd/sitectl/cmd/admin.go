package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"beginnings/internal/admins"
	"beginnings/internal/auth"
)

const minPasswordLen = 8

func newAdminCmd(opts *options) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage staff accounts",
	}

	var role string
	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a staff account; the password is prompted for twice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			if username == "" {
				return errors.New("username cannot be empty")
			}
			if role != auth.RoleEditor && role != auth.RoleAdmin {
				return fmt.Errorf("invalid role %q; must be %s or %s", role, auth.RoleEditor, auth.RoleAdmin)
			}

			pr := newPasswordReader(cmd.InOrStdin(), cmd.ErrOrStderr())
			pw, err := pr.read("Password: ")
			if err != nil {
				return err
			}
			pw2, err := pr.read("Confirm password: ")
			if err != nil {
				return err
			}
			if pw != pw2 {
				return errors.New("passwords do not match")
			}
			if len(pw) < minPasswordLen {
				return fmt.Errorf("password too short (min %d chars)", minPasswordLen)
			}
			hash, err := auth.HashPassword(pw)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			pool, err := opts.pool(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()

			store := &admins.PGStore{DB: pool}
			a, err := store.Create(cmd.Context(), username, role, hash)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: admin created\n  id: %s\n  username: %s\n  role: %s\n", a.ID, a.Username, a.Role)
			fmt.Fprintf(cmd.OutOrStdout(), "link telegram notifications with: /register %s\n", a.ID)
			return nil
		},
	}
	create.Flags().StringVar(&role, "role", auth.RoleEditor, "role: editor|admin")

	admin.AddCommand(create)
	return admin
}

// passwordReader reads from the terminal without echo, or line by line when
// input is piped.
type passwordReader struct {
	in    io.Reader
	out   io.Writer
	lines *bufio.Reader
}

func newPasswordReader(in io.Reader, out io.Writer) *passwordReader {
	return &passwordReader{in: in, out: out}
}

func (p *passwordReader) read(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	if p.lines == nil {
		p.lines = bufio.NewReader(p.in)
	}
	line, err := p.lines.ReadString('\n')
	fmt.Fprintln(p.out)
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
