package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"peleman-chatbot/models"
)

type turnLogReader interface {
	Recent(ctx context.Context, sessionID string, limit int64) ([]models.ChatTurnLog, error)
	FindByEventID(ctx context.Context, eventID string) (*models.ChatTurnLog, error)
}

func newTurnsCmd(d deps) *cobra.Command {
	var (
		sid     string
		eventID string
		limit   int64
	)

	cmd := &cobra.Command{
		Use:   "turns",
		Short: "Show recorded chat turns from MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, err := d.turnLogs(ctx)
			if err != nil {
				return err
			}

			var logs []models.ChatTurnLog
			if eventID != "" {
				log, err := repo.FindByEventID(ctx, eventID)
				if err != nil {
					return err
				}
				if log == nil {
					return fmt.Errorf("event %s not found", eventID)
				}
				logs = append(logs, *log)
			} else if logs, err = repo.Recent(ctx, sid, limit); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "REQUESTED\tSESSION\tTYPE\tCATEGORIES\tPRODUCTS\tPIVOT\tMS\tERROR")
			for _, l := range logs {
				errMsg := ""
				if l.ErrorMessage != nil {
					errMsg = *l.ErrorMessage
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\t%s\t%d\t%s\n",
					l.RequestedAt.Format("2006-01-02 15:04:05"), l.SessionID, l.ResponseType,
					l.CategoryIDs, l.ProductIDs, l.PivotedFrom, l.DurationMs, errMsg)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&sid, "session", "", "filter by session id")
	cmd.Flags().StringVar(&eventID, "event", "", "show a single event id")
	cmd.Flags().Int64Var(&limit, "limit", 20, "maximum rows")
	return cmd
}
