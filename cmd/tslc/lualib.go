package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tstl/internal/lualib"
)

var lualibCmd = &cobra.Command{
	Use:   "lualib [feature...]",
	Short: "Print the runtime-support bundle",
	Long:  `Prints the Lua runtime bundle for the given features, or the complete bundle when none are named.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		features := lualib.AllFeatures()
		if len(args) > 0 {
			features = features[:0]
			for _, a := range args {
				features = append(features, lualib.Feature(a))
			}
		}
		bundle, err := lualib.Bundle(features)
		if err != nil {
			return fmt.Errorf("unknown feature: %w", err)
		}
		_, err = os.Stdout.WriteString(bundle)
		return err
	},
}
