package main

import (
	"strings"

	"github.com/reoring/classdict"
	"github.com/spf13/cobra"
)

type checkFlags struct {
	typeName string
	selector string
	strict   bool
}

func bindCheckFlags(cmd *cobra.Command, f *checkFlags) {
	fs := cmd.Flags()
	fs.StringVarP(&f.typeName, "type", "t", "", "schema type the document must satisfy")
	fs.StringVar(&f.selector, "select", "", "gjson path selecting the object inside the document")
	fs.BoolVar(&f.strict, "strict", false, "reject unknown keys of the top-level object and duplicate JSON keys")
}

// parseDocument runs the shared part of check and roundtrip: load the type,
// open the document and reconstruct the object.
func (g *globals) parseDocument(cmd *cobra.Command, f *checkFlags, path string) (*classdict.Object, error) {
	ctx := cmd.Context()
	s, err := g.loadType(ctx, f.typeName)
	if err != nil {
		return nil, err
	}
	if f.strict {
		if s, err = strictCopy(s); err != nil {
			return nil, err
		}
	}
	src, err := openDocument(ctx, path, f.selector, cmd.InOrStdin())
	if err != nil {
		return nil, reportIssues(cmd.ErrOrStderr(), err)
	}
	obj, err := classdict.ParseFrom(ctx, s, src, g.parseOpt(f.strict))
	if err != nil {
		return nil, reportIssues(cmd.ErrOrStderr(), err)
	}
	log.Debugf("parsed %s", obj)
	return obj, nil
}

func newCheckCommand(g *globals) *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:   "check [options ...] <document>",
		Short: "validate a document and print its normalized mapping",
		Long: `check reconstructs an object of --type from a JSON or YAML document
("-" reads JSON from stdin) and prints the mapping the object converts back to.`,
		Example: strings.Join([]string{
			"        $ classdict check --schema types.yaml -t Business business.json",
			"        $ classdict check --schema types.yaml -t Person --select 'args.0' rpc.json",
		}, "\n"),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := g.parseDocument(cmd, &f, args[0])
			if err != nil {
				return err
			}
			m, err := obj.ToDict()
			if err != nil {
				return reportIssues(cmd.ErrOrStderr(), err)
			}
			if err := writeJSON(cmd.OutOrStdout(), m); err != nil {
				return err
			}
			success(cmd.ErrOrStderr(), "ok: %s", obj.Schema().Name())
			return nil
		},
	}
	bindCheckFlags(cmd, &f)
	return cmd
}
