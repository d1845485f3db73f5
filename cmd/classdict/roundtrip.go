package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/reoring/classdict"
	"github.com/spf13/cobra"
)

func newRoundtripCommand(g *globals) *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:   "roundtrip [options ...] <document>",
		Short: "check that a document survives ToDict/FromDict unchanged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := g.parseDocument(cmd, &f, args[0])
			if err != nil {
				return err
			}
			m, err := obj.ToDict()
			if err != nil {
				return reportIssues(cmd.ErrOrStderr(), err)
			}
			again, err := obj.Schema().FromDict(m)
			if err != nil {
				return reportIssues(cmd.ErrOrStderr(), err)
			}
			diffs, err := classdict.Diff(obj, again)
			if err != nil {
				return reportIssues(cmd.ErrOrStderr(), err)
			}
			if len(diffs) > 0 {
				for _, d := range diffs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:\n%s\n", strings.Join(d.Path, "."), d.Report)
				}
				return errors.Errorf("round trip changed %d field(s)", len(diffs))
			}
			success(cmd.ErrOrStderr(), "ok: %s round-trips", obj.Schema().Name())
			return nil
		},
	}
	bindCheckFlags(cmd, &f)
	return cmd
}
