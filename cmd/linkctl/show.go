package main

import (
	"encoding/json"
	"strconv"

	"linkrelay/internal/model"

	"github.com/spf13/cobra"
)

type linkView struct {
	*model.Link
	PasswordProtected bool `json:"password_protected"`
}

func (c *cli) showCmd() *cobra.Command {
	var byID bool

	cmd := &cobra.Command{
		Use:   "show <short-code>",
		Short: "Print a link as stored, with defaults applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			var link *model.Link
			if byID {
				id, perr := strconv.ParseInt(args[0], 10, 64)
				if perr != nil {
					return perr
				}
				link, err = store.GetLinkByID(cmd.Context(), id)
			} else {
				link, err = store.GetLinkByShortCode(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(linkView{Link: link, PasswordProtected: link.PasswordProtected()})
		},
	}
	cmd.Flags().BoolVar(&byID, "id", false, "treat the argument as a numeric link id")
	return cmd
}
