package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <user-id> <client> <id>",
	Short: "Print the preference document stored under a composite key",
	Args:  cobra.ExactArgs(3),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(args[0])
	if err != nil {
		return errors.Wrapf(err, "invalid user id %q", args[0])
	}

	s, err := newStore()
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.GetPreference(cmd.Context(), args[2], userID, args[1])
	if err != nil {
		return err
	}
	return printDocument(doc)
}

func printDocument(doc any) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to render document")
	}
	fmt.Println(string(out))
	return nil
}
