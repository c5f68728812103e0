package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Cadence — SDLC planning and time tracking server",
	Long:  "Cadence manages the project/module/story/task hierarchy, sprint planning, and per-user work timers for a software delivery team, exposing everything over a JSON HTTP API.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/cadence.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
