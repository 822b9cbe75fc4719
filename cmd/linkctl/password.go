package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"linkrelay/internal/config"
	"linkrelay/internal/credential"

	"github.com/spf13/cobra"
)

func (c *cli) hashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt digest to store in links.password_hash",
		Long: `Print the bcrypt digest to store in links.password_hash.

The password is read from the first line of stdin when not given as an argument,
which keeps it out of shell history:

  echo -n 'open sesame' | linkctl hash-password`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var plaintext string
			if len(args) == 1 {
				plaintext = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				plaintext = strings.TrimRight(line, "\r\n")
			}

			if !cmd.Flags().Changed("cost") {
				if cfg, err := config.Load(c.configPath); err == nil {
					cost = cfg.Credential.BcryptCost
				}
			}

			digest, err := credential.NewGuard(cost).Hash(plaintext)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 10, "bcrypt cost, defaults to credential.bcrypt_cost")
	return cmd
}
