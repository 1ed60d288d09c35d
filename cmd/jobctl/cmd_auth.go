package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"coreapi/pkg/client"

	"github.com/spf13/cobra"
)

var (
	loginCode      string
	loginReturnURL string
	loginWait      time.Duration
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in through the identity portal",
	Long: `Print the identity portal sign-in URL, exchange the one-time auth code
from the redirect and wait until the API reports an active session.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session and forget the cached token",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginCode, "code", "", "One-time auth_code from the sign-in redirect")
	loginCmd.Flags().StringVar(&loginReturnURL, "return-url", "", "Where the portal sends the browser after sign-in")
	loginCmd.Flags().DurationVar(&loginWait, "wait", 2*time.Minute, "How long to wait for the session")
}

func runLogin(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	watcher := client.NewAuthWatcher(api, cfg.IdentityURL, client.DefaultPollInterval)

	fmt.Fprintf(out, "Open this URL to sign in:\n  %s\n\n", watcher.SignInURL(loginReturnURL))

	code := loginCode
	if code == "" {
		fmt.Fprint(out, "Paste the auth_code from the redirect (Enter to keep waiting): ")
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		code = strings.TrimSpace(line)
	}

	ctx, cancel := commandContext(loginWait)
	defer cancel()

	if code != "" {
		if _, err := api.ExchangeAuthCode(ctx, code); err != nil {
			return err
		}
	}

	go func() { _ = watcher.Run(ctx) }()
	for {
		select {
		case <-ctx.Done():
			return errors.New("timed out waiting for sign-in")
		case state := <-watcher.Updates():
			if state.Authenticated && state.User != nil {
				fmt.Fprintf(out, "Signed in as %s <%s>\n", state.User.Name, state.User.Email)
				return nil
			}
		}
	}
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(timeout)
	defer cancel()

	watcher := client.NewAuthWatcher(api, cfg.IdentityURL, client.DefaultPollInterval)
	if err := watcher.SignOut(ctx); err != nil && !client.IsUnauthorized(err) {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(timeout)
	defer cancel()

	me, err := api.Me(ctx)
	if client.IsUnauthorized(err) {
		return errors.New("not signed in; run jobctl login")
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s <%s>\n", me.User.Name, me.User.Email)
	if len(me.User.Roles) > 0 {
		fmt.Fprintf(out, "Roles: %s\n", strings.Join(me.User.Roles, ", "))
	}
	return nil
}
