package main

import (
	"errors"
	"fmt"

	"coreapi/internal/domain"
	"coreapi/pkg/client"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var themeSyncOnce bool

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Read or change the shared theme preference",
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the shared theme mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(timeout)
		defer cancel()

		mode, err := api.GetTheme(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), mode)
		return nil
	},
}

var themeSetCmd = &cobra.Command{
	Use:       "set <mode>",
	Short:     "Set the shared theme mode (light, dark or auto)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark), string(domain.ThemeAuto)},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, ok := domain.ParseThemeMode(args[0])
		if !ok {
			return errors.New("mode must be one of: light, dark, auto")
		}
		ctx, cancel := commandContext(timeout)
		defer cancel()

		saved, err := api.SetTheme(ctx, mode)
		if err != nil {
			return err
		}
		cfg.Theme = string(saved)
		if err := cfg.save(configPath); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), saved)
		return nil
	},
}

var themeSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Keep the local theme in step with the shared one",
	Long: `Push the theme stored in the config file if it changed since the last
sync, otherwise pull the shared value. Runs until interrupted unless --once
is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(0)
		defer cancel()

		// the config value is the local one; anything different on the
		// server at start-up is pulled
		local := domain.ThemeMode(cfg.Theme)
		ts := client.NewThemeSync(api, local, client.DefaultPollInterval)
		ts.OnChange(func(mode domain.ThemeMode) {
			fmt.Fprintf(cmd.OutOrStdout(), "theme changed: %s\n", mode)
			cfg.Theme = string(mode)
			if err := cfg.save(configPath); err != nil {
				log.Warn().Err(err).Msg("failed to save theme")
			}
		})

		if themeSyncOnce {
			if err := ts.Sync(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ts.Local())
			return nil
		}

		ts.Nudge()
		if err := ts.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	themeSyncCmd.Flags().BoolVar(&themeSyncOnce, "once", false, "Sync a single time and exit")
	themeCmd.AddCommand(themeGetCmd, themeSetCmd, themeSyncCmd)
}
