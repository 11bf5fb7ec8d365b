// create-user adds an account to the database. There is no sign-up page,
// so this is the only way to create the admin.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/concreteguy/homepage/internal/config"
	"github.com/concreteguy/homepage/internal/domain"
	"github.com/concreteguy/homepage/internal/service"
	"github.com/concreteguy/homepage/internal/storage/pg"
	"golang.org/x/term"
)

// readPassword is replaced in tests to avoid touching the terminal.
var readPassword = term.ReadPassword

type userCreator interface {
	CreateUser(creds domain.Credentials, admin bool) (domain.UserId, error)
}

func main() {
	var (
		configFolder string
		username     string
		admin        bool
	)
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.StringVar(&username, "username", "", "username of the new account (prompted if empty)")
	flag.BoolVar(&admin, "admin", false, "grant access to the dashboard and post management")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	storage, err := pg.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer storage.Cleanup()

	auth := service.NewAuth(storage, &cfg.Public)
	if err := run(auth, bufio.NewReader(os.Stdin), os.Stdout, username, admin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(creator userCreator, in *bufio.Reader, out io.Writer, username string, admin bool) error {
	if username == "" {
		fmt.Fprint(out, "Username: ")
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return fmt.Errorf("reading username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	password, err := promptPassword(out, "Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword(out, "Repeat password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	id, err := creator.CreateUser(domain.Credentials{Username: username, Password: password}, admin)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	fmt.Fprintf(out, "Created user %q with id %d (admin: %t)\n", username, id, admin)
	return nil
}

func promptPassword(out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}
