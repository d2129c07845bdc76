package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"peleman-chatbot/cmd/api/auth"
	"peleman-chatbot/models"
)

// newTokenCmd 는 로컬 개발용 호스트 토큰을 만든다. HOST_TOKEN_SECRET 이 있어야 한다.
func newTokenCmd(d deps) *cobra.Command {
	var (
		user models.CurrentUser
		lang string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an X-Host-Token for a test user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user.ID <= 0 {
				return fmt.Errorf("--id must be positive")
			}
			token, err := auth.NewHostTokenVerifier(d.config().Secrets.HostTokenSecret).Sign(user, lang)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Int64Var(&user.ID, "id", 0, "WordPress user id")
	cmd.Flags().StringVar(&user.Name, "name", "", "display name")
	cmd.Flags().StringVar(&user.Email, "email", "", "email")
	cmd.Flags().StringVar(&lang, "lang", "", "host page language")
	return cmd
}
