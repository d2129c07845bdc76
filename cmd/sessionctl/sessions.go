package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"peleman-chatbot/session"
)

func newSessionsCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored chat sessions",
	}
	cmd.AddCommand(newSessionsListCmd(d), newSessionsShowCmd(d), newSessionsClearCmd(d))
	return cmd
}

func newSessionsListCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions with age and message count",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := d.openStore(ctx, d.config())
			if err != nil {
				return err
			}
			defer store.Close()

			sids, err := store.List(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tAGE\tMESSAGES\tOPEN\tSTATUS")
			for _, sid := range sids {
				rec, ok := store.Load(ctx, sid)
				if !ok {
					fmt.Fprintf(w, "%s\t-\t-\t-\tinvalid or expired\n", sid)
					continue
				}
				age := time.Since(rec.StartedAt).Truncate(time.Second)
				fmt.Fprintf(w, "%s\t%s\t%d\t%t\tok\n", sid, age, len(rec.Messages), rec.WidgetOpen)
			}
			return w.Flush()
		},
	}
}

func newSessionsShowCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the stored JSON value of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := d.openStore(ctx, d.config())
			if err != nil {
				return err
			}
			defer store.Close()

			raw, err := store.Raw(ctx, args[0])
			if errors.Is(err, session.ErrNotFound) {
				return fmt.Errorf("session %s not found", args[0])
			}
			if err != nil {
				return err
			}
			var pretty bytes.Buffer
			if json.Indent(&pretty, raw, "", "  ") != nil {
				// 형식이 깨진 레코드는 그대로 보여준다
				pretty.Reset()
				pretty.Write(raw)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
			if _, err := session.Decode(raw); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			return nil
		},
	}
}

func newSessionsClearCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <session-id>...",
		Short: "Delete stored sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := d.openStore(ctx, d.config())
			if err != nil {
				return err
			}
			defer store.Close()

			for _, sid := range args {
				if err := store.Delete(ctx, sid); err != nil {
					return fmt.Errorf("delete %s: %w", sid, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", sid)
			}
			return nil
		},
	}
}
