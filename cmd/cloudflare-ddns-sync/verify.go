package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const tokenActive = "active"

func newVerifyCmd() *cobra.Command {
	var prompt bool
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that the configured API tokens are active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, cf, bind, err := resolveAccounts(prompt, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			failed := 0
			for _, a := range accounts {
				status, err := verifyAccount(cmd.Context(), a, cf.TimeoutDuration(), func(token string) (tokenInspector, error) {
					return newInspector(token, cf, bind)
				})
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", a.Label, err)
					continue
				}
				if status != tokenActive {
					failed++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.Label, status)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d tokens are not usable", failed, len(accounts))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&prompt, "prompt", false, "read a token from the terminal instead of the config file")
	return cmd
}

func verifyAccount(ctx context.Context, a account, timeout time.Duration, build func(string) (tokenInspector, error)) (string, error) {
	inspector, err := build(a.Token)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return inspector.VerifyToken(ctx)
}
