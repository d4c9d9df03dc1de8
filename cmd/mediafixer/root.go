package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var queueDirFlag string
	var prefixFlag string

	ctx := newCommandContext(&configFlag, &queueDirFlag, &prefixFlag)

	rootCmd := &cobra.Command{
		Use:           "mediafixer",
		Short:         "Resumable batch conversion of video libraries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&queueDirFlag, "queue-dir", "", "Directory holding the queue files (default: the scan root)")
	rootCmd.PersistentFlags().StringVar(&prefixFlag, "prefix", "", "Queue filename prefix for independent runs over the same tree")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newScanCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newRetryCommand(ctx))
	rootCmd.AddCommand(newCleanCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
