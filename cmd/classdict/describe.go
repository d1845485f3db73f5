package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/reoring/classdict"
	"github.com/reoring/classdict/schemafile"
	"github.com/spf13/cobra"
)

func newDescribeCommand(g *globals) *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:     "describe [options ...]",
		Aliases: []string{"desc"},
		Short:   "show the fields of the declared schema types",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := g.loadRegistry(cmd.Context())
			if err != nil {
				return err
			}
			names := reg.Names()
			if typeName != "" {
				if _, ok := reg.Lookup(typeName); !ok {
					return errors.Errorf("type %s is not declared", typeName)
				}
				names = []string{typeName}
			}
			for i, name := range names {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				s, _ := reg.Lookup(name)
				describeType(cmd.OutOrStdout(), reg, s)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "describe only this type")
	return cmd
}

func describeType(w io.Writer, reg *schemafile.Registry, s *classdict.Schema) {
	title := s.Name()
	if s.UnknownPolicy() == classdict.UnknownStrict {
		title += " (strict)"
	}
	color.New(color.Bold).Fprintln(w, title)
	if doc := reg.Doc(s.Name(), ""); doc != "" {
		fmt.Fprintln(w, doc)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"field", "type", "required", "description"})
	table.SetAutoWrapText(false)
	for name, f := range s.Members() {
		table.Append([]string{
			name,
			f.Rule().String(),
			strconv.FormatBool(f.Required()),
			reg.Doc(s.Name(), name),
		})
	}
	table.Render()
}
