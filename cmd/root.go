package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ptstack",
	Short: "Coaching platform CLI: programs, sessions, progression and analytics",
}

func Execute() error {
	if level, err := logrus.ParseLevel(os.Getenv("PTSTACK_LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
	return rootCmd.Execute()
}
