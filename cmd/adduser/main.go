// Command adduser creates an account in the authkeeper database, e.g.
//
//	adduser -name "Ana" -email a@x.com -role admin -d postgres://...
//
// The password is read from the terminal without echo, or from stdin when it
// is not a terminal. Connection settings come from the same sources as the
// server (.env, -c config file, environment, -d).
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"golang.org/x/term"
)

type options struct {
	name  string
	email string
	role  string
}

func parseOptions(args []string) (options, error) {
	var o options

	args = flagx.FilterArgs(args, []string{"-name", "--name", "-email", "--email", "-role", "--role"})
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.StringVar(&o.name, "name", "", "display name")
	fs.StringVar(&o.email, "email", "", "email address")
	fs.StringVar(&o.role, "role", common.RoleUser, "role: user or admin")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.email == "" {
		return o, errors.New("-email is required")
	}
	if o.name == "" {
		o.name = strings.SplitN(o.email, "@", 2)[0]
	}
	return o, nil
}

// readPassword prompts twice on a terminal; otherwise reads the first line of in.
func readPassword(fd int, in io.Reader, out io.Writer) (string, error) {
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(out, "Password: ")
	p1, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	defer clear(p1)
	fmt.Fprint(out, "Repeat password: ")
	p2, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	defer clear(p2)
	if string(p1) != string(p2) {
		return "", errors.New("passwords do not match")
	}
	return string(p1), nil
}

func run(ctx context.Context) error {
	o, err := parseOptions(os.Args[1:])
	if err != nil {
		return err
	}

	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	password, err := readPassword(int(os.Stdin.Fd()), os.Stdin, os.Stderr)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	u, created, err := app.UserService().EnsureUser(ctx, services.SignupInput{
		Name:     o.name,
		Email:    o.email,
		Password: password,
		Role:     o.role,
	})
	if err != nil {
		return err
	}

	if !created {
		fmt.Printf("user %s already exists (id %s), left unchanged\n", u.Email, u.ID)
		return nil
	}
	fmt.Printf("created %s user %s (id %s)\n", u.Role, u.Email, u.ID)
	return nil
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "adduser:", err)
		os.Exit(1)
	}
}
