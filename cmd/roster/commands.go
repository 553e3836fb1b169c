package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tailored-agentic-units/roster/mutation"
	"github.com/tailored-agentic-units/roster/roster"
	"github.com/tailored-agentic-units/roster/server"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the mutation names the store accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range mutation.All() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func newCommitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "commit TYPE [PAYLOAD_JSON]",
		Short: "Commit a mutation and print the resulting state",
		Long: `Commits one mutation. PAYLOAD_JSON is the reducer argument, for example:

  roster commit ADD_PLAYER '{"identity":{"name":"Ana"}}'
  roster commit ASSIGN_CAPTAINS '["<uuid>","<uuid>"]'
  roster commit CLEAR_TEAMS`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := mutation.Parse(args[0])
			if err != nil {
				return err
			}
			var payload any
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return fmt.Errorf("%w: payload is not valid JSON", mutation.ErrInvalidPayload)
				}
				payload = json.RawMessage(args[1])
			}
			m, err := mutation.New(t, payload)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if opts.remote != "" {
				st, err := opts.client().Commit(ctx, m)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), st)
			}

			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Commit(ctx, m); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a.State())
		},
	}
}

func (o *options) state(ctx context.Context) (roster.State, error) {
	if o.remote != "" {
		return o.client().State(ctx)
	}
	a, err := o.open()
	if err != nil {
		return roster.State{}, err
	}
	defer a.Close()
	return a.State(), nil
}

func newStateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the current state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.state(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		},
	}
}

func newPlayersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List players in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.state(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range st.Players.Sorted() {
				marker := ""
				switch {
				case p.Identity.IsCaptain:
					marker = " [captain]"
				case p.Identity.IsSquire:
					marker = " [squire]"
				}
				fmt.Fprintf(w, "%s  %s%s\n", p.Identity.UUID, p.Identity.Name, marker)
			}
			fmt.Fprintf(w, "%d players, %d captains, %d squires\n",
				len(st.Players), len(st.Players.Captains()), len(st.Players.Squires()))
			return nil
		},
	}
}

func newServeCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the store over connect RPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				opts.cfg.Server.Addr = addr
			}

			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx, opts.cfg.Server, server.Mount(a), func(bound net.Addr) {
				opts.logger.Info("roster server listening",
					zap.String("addr", bound.String()),
					zap.String("env", opts.cfg.Env),
					zap.String("storage", opts.cfg.Storage.Backend))
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}
