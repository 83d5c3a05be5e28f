package main

import (
	"fmt"
	stdLog "log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/college-library/library/app"
	"github.com/Astemirdum/college-library/library/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		storage  string
	)
	loadConfig := func() (*config.Config, error) {
		var opts []config.Option
		if logLevel != "" {
			lvl, err := zapcore.ParseLevel(logLevel)
			if err != nil {
				return nil, err
			}
			opts = append(opts, config.WithLogLevel(lvl))
		}
		if storage != "" {
			opts = append(opts, config.WithStorage(storage))
		}
		return config.NewConfig(opts...), nil
	}

	root := &cobra.Command{
		Use:           "library",
		Short:         "College library issue and return service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")
	root.PersistentFlags().StringVar(&storage, "storage", "", "override STORAGE_DRIVER (postgres|memory)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API, the notification dispatcher and the reminder scheduler",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return app.Run(cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return app.RunMigrations(cfg)
			},
		},
		&cobra.Command{
			Use:   "remind",
			Short: "Send due-tomorrow reminders once",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				sent, err := app.RunReminder(cfg)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d reminder(s) sent\n", sent)
				return nil
			},
		},
	)
	return root
}
