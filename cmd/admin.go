package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"bench_monitor/internal/repository"
	"bench_monitor/internal/service"

	"github.com/spf13/cobra"
)

var errPurgeUnconfirmed = errors.New("refusing to purge without --yes")

func newUserCmd(a *app) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage operator accounts.",
	}

	var password string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an operator account.",
		Long:  "Create an operator account. Without --password the password is read from the first line of stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer a.closeDB(conn)

			auth := service.NewAuthService(repository.NewRepository(conn).Auth, a.cfg.Auth.SigningKey, a.cfg.Auth.TokenTTL)
			id, err := auth.SignUp(args[0], password)
			if err != nil {
				return err
			}
			a.log.Infow("operator_created", "username", args[0], "id", id)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created user %q with id %d\n", args[0], id)
			return nil
		},
	}
	add.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")

	user.AddCommand(add)
	return user
}

func newLogsCmd(a *app) *cobra.Command {
	logs := &cobra.Command{
		Use:   "logs",
		Short: "Inspect or clear the telemetry log.",
	}

	logs.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print the number of entries and the approximate database size.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := a.telemetryLog()
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := svc.Stats(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "entries: %d\napprox size: %d bytes\n", st.Count, st.ApproxBytes)
			return nil
		},
	})

	var yes bool
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete every telemetry log entry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errPurgeUnconfirmed
			}
			svc, closeFn, err := a.telemetryLog()
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := svc.Purge(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries\n", n)
			return nil
		},
	}
	purge.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	logs.AddCommand(purge)

	return logs
}

// telemetryLog opens the database and returns the log service on top of it.
func (a *app) telemetryLog() (*service.TelemetryLogService, func(), error) {
	conn, err := a.openDB()
	if err != nil {
		return nil, nil, err
	}
	repos := repository.NewRepository(conn)
	svc := service.NewTelemetryLogService(repos.TelemetryRepo, a.cfg.DB.Timeout,
		a.cfg.Logs.DefaultLimit, a.cfg.Logs.MaxLimit, a.log)
	return svc, func() { a.closeDB(conn) }, nil
}
