// Command admin provides maintenance utilities for Promptly operators.
package main

import (
	"fmt"
	"os"

	"promptly/internal/bootstrap"
	"promptly/internal/config"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// session is an open database plus the config it was opened with.
type session struct {
	db    *gorm.DB
	cfg   *config.Config
	close func()
}

type opener func() (*session, error)

func openRuntime() (*session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	rt, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		return nil, err
	}
	return &session{db: rt.DB, cfg: cfg, close: rt.Close}, nil
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Promptly maintenance utilities",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newAuditCmd(open),
		newLeaderboardCmd(open),
		newAPICheckCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd(openRuntime).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
