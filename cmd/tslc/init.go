package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tstl/internal/host"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a tstl.toml project manifest in the current directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "project"
		if len(args) == 1 {
			name = args[0]
		} else if wd, err := os.Getwd(); err == nil {
			name = filepath.Base(wd)
		}

		if _, err := os.Stat("tstl.toml"); err == nil {
			return fmt.Errorf("tstl.toml already exists")
		}
		content := fmt.Sprintf(host.DefaultManifest, name)
		if err := os.WriteFile("tstl.toml", []byte(content), 0o644); err != nil {
			return err
		}
		if err := os.MkdirAll("src", 0o755); err != nil {
			return err
		}
		fmt.Println("created tstl.toml")
		return nil
	},
}
