package main

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <user-id>",
	Short: "Print every preference document stored for a user, across all clients",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(args[0])
	if err != nil {
		return errors.Wrapf(err, "invalid user id %q", args[0])
	}

	s, err := newStore()
	if err != nil {
		return err
	}
	defer s.Close()

	docs, err := s.ListPreferences(cmd.Context(), userID)
	if err != nil {
		return err
	}
	return printDocument(docs)
}
