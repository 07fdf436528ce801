// Copyright (C) 2019-2026 Algorand, Inc.
// This file is part of go-certmint
//
// go-certmint is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-certmint is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-certmint.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"github.com/spf13/cobra"

	"github.com/algorand/go-certmint/journal"
)

var (
	statusRounds uint64
	listLimit    int
	listOnly     bool
)

func init() {
	statusCmd.Flags().Uint64Var(&statusRounds, "rounds", 0, "Rounds to wait for each pending submission (defaults to the config's wait_rounds)")
	statusCmd.Flags().BoolVar(&listOnly, "list", false, "Only list recent journal entries, do not query algod")
	statusCmd.Flags().IntVar(&listLimit, "limit", 20, "Entries to list with --list")
}

type entryOutput struct {
	ID             string `json:"id"`
	Workflow       string `json:"workflow"`
	Status         string `json:"status"`
	AwaitTxID      string `json:"await_txid"`
	ConfirmedRound uint64 `json:"confirmed_round,omitempty"`
	Error          string `json:"error,omitempty"`
}

func entryFor(e journal.Entry, status journal.Status, err error) entryOutput {
	out := entryOutput{
		ID:             e.ID.String(),
		Workflow:       e.Workflow,
		Status:         string(status),
		AwaitTxID:      e.AwaitTxID.String(),
		ConfirmedRound: uint64(e.ConfirmedRound),
		Error:          e.Error,
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Re-check journaled submissions whose outcome is not yet known",
	Long:  "Await every pending journal entry by its transaction id and record the result. Nothing is resubmitted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withSession(ctx, func(s *session) error {
			var out []entryOutput
			if listOnly {
				entries, err := s.journal.List(ctx, listLimit)
				if err != nil {
					return err
				}
				for _, e := range entries {
					out = append(out, entryFor(e, e.Status, nil))
				}
			} else {
				resolved, err := s.orch.ResumePending(ctx, statusRounds)
				if err != nil {
					return err
				}
				for _, r := range resolved {
					out = append(out, entryFor(r.Entry, r.Status, r.Err))
				}
			}

			if ok, err := reportJSON(out); ok || err != nil {
				return err
			}
			if len(out) == 0 {
				reportInfof(infoNothingPending)
				return nil
			}
			for _, e := range out {
				if journal.Status(e.Status).Pending() {
					reportWarnf(infoResolution, e.ID, e.Workflow, e.Status, e.AwaitTxID)
					continue
				}
				reportInfof(infoResolution, e.ID, e.Workflow, e.Status, e.AwaitTxID)
			}
			return nil
		})
	},
}
