// Command linkctl is the operator CLI for the link store: schema
// migration, password digests and dry-run resolution.
package main

import (
	"fmt"
	"os"

	"linkrelay/internal/config"
	"linkrelay/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type cli struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "linkctl",
		Short:         "Operate the link relay store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "configs/config.yaml", "path to the config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		c.migrateCmd(),
		c.hashPasswordCmd(),
		c.showCmd(),
		c.resolveCmd(),
	)
	return root
}

// load reads the config and sets up logging for commands that need the store
func (c *cli) load(cmd *cobra.Command) error {
	level := zerolog.WarnLevel
	if c.verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *cli) openStore(cmd *cobra.Command) (*repository.LinkRepository, error) {
	if err := c.load(cmd); err != nil {
		return nil, err
	}
	return repository.NewLinkRepository(&c.cfg.Database)
}
