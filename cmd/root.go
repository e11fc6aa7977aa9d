package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voicelead",
	Short: "Voice-leading analysis of symbolic scores",
	Long: `Indexes notes, intervals and n-grams of MIDI or pre-parsed scores and
counts them across pieces.`,
	SilenceUsage: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
