package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type registerCmd struct {
	username string
	password string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a user account with an empty portfolio" }
func (*registerCmd) Usage() string {
	return `vtrade register -username <name> -password <password>

  Creates a user account. The password must be at least 4 characters long.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", "", "name of the new user")
	f.StringVar(&c.password, "password", "", "password of the new user")
}

func (c *registerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	u, err := a.accounts.Register(c.username, c.password)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("User '%s' registered (id=%d). Log in with: vtrade login -username %s -password ****\n", u.Username, u.ID, u.Username)
	return subcommands.ExitSuccess
}

type loginCmd struct {
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "open a session" }
func (*loginCmd) Usage() string {
	return `vtrade login -username <name> -password <password>

  Opens a session used by the trading commands until logout or expiry.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", "", "user name")
	f.StringVar(&c.password, "password", "", "user password")
}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 || c.username == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	u, err := a.sessions.Login(c.username, c.password)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Logged in as '%s'\n", u.Username)
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "close the session" }
func (*logoutCmd) Usage() string            { return "vtrade logout\n" }
func (*logoutCmd) SetFlags(f *flag.FlagSet) {}

func (*logoutCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if err := a.sessions.Logout(); err != nil {
		return fail(err)
	}
	fmt.Println("Logged out")
	return subcommands.ExitSuccess
}
