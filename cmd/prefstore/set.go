package main

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/prefstore/store"
)

var setCmd = &cobra.Command{
	Use:   "set <user-id> <client> <id> <fields-json>",
	Short: "Insert or fully replace a preference document",
	Args:  cobra.ExactArgs(4),
	RunE:  runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(args[0])
	if err != nil {
		return errors.Wrapf(err, "invalid user id %q", args[0])
	}

	fields := map[string]any{}
	if err := json.Unmarshal([]byte(args[3]), &fields); err != nil {
		return errors.Wrap(err, "fields must be a JSON object")
	}

	s, err := newStore()
	if err != nil {
		return err
	}
	defer s.Close()

	doc := &store.PreferenceDocument{
		ID:     args[2],
		Client: args[1],
		Fields: fields,
	}
	saved, err := s.UpsertPreference(cmd.Context(), doc, userID, args[1])
	if err != nil {
		return err
	}
	return printDocument(saved)
}
