package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sluiceio/sluice/pkg/guard"
)

// newProfilesCmd creates the profile listing command.
func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the builtin allow-list profiles",
		RunE:  runProfiles,
	}
}

func runProfiles(cmd *cobra.Command, _ []string) error {
	registry := guard.GlobalRegistry()

	for _, name := range registry.Names() {
		profile, ok := registry.Resolve(name)
		if !ok {
			continue
		}
		marker := " "
		if name == guard.DefaultProfile {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-14s %-24s %s\n", marker, profile.Name, profile.Pattern, profile.Description)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\n(* default)")
	return nil
}
