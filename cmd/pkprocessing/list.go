// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pkprocessing/internal/param"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available algorithms by group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _ := newRegistry()
		out := cmd.OutOrStdout()

		group := ""
		for _, a := range reg.All() {
			d := a.Descriptor()
			if d.Group != group {
				if group != "" {
					fmt.Fprintln(out)
				}
				group = d.Group
				fmt.Fprintln(out, groupStyle.Render(group))
			}
			fmt.Fprintf(out, "  %-16s %s %s\n", d.Name, d.DisplayName, mutedStyle.Render("("+d.CLIName+")"))
		}
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe <algorithm>",
	Short: "Show the parameter form of an algorithm",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _ := newRegistry()
		a, err := reg.Get(args[0])
		if err != nil {
			return err
		}

		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.Descriptor()); err != nil {
				return fmt.Errorf("encoding descriptor: %w", err)
			}
			return enc.Close()
		}

		writeDescriptor(cmd.OutOrStdout(), a.Descriptor())
		return nil
	},
}

func writeDescriptor(w io.Writer, d param.Descriptor) {
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render(d.DisplayName), mutedStyle.Render("("+d.Name+", runs "+d.CLIName+")"))
	fmt.Fprintf(w, "%s\n\n", groupStyle.Render(d.Group))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PARAMETER\tKIND\tDEFAULT\tDESCRIPTION")
	for _, p := range d.Parameters {
		def := p.DefaultText()
		switch {
		case p.Optional && def == "":
			def = "(optional)"
		case def == "":
			def = "(required)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, kindText(p), def, p.Description)
	}
	fmt.Fprintln(tw, "\t\t\t")
	fmt.Fprintln(tw, "OUTPUT\tKIND\t\tDESCRIPTION")
	for _, o := range d.Outputs {
		fmt.Fprintf(tw, "%s\t%s\t\t%s\n", o.Name, o.Kind, o.Description)
	}
	tw.Flush()

	for _, p := range d.Parameters {
		if p.Kind != param.KindSelection {
			continue
		}
		fmt.Fprintf(w, "\n%s options:\n", p.Name)
		for i, opt := range p.Options {
			fmt.Fprintf(w, "  %2d  %s\n", i, opt)
		}
	}
}

func kindText(p param.Parameter) string {
	switch p.Kind {
	case param.KindNumber:
		kind := "number"
		if p.Integer {
			kind = "integer"
		}
		return fmt.Sprintf("%s [%g, %g]", kind, p.Min, p.Max)
	case param.KindSelection:
		return fmt.Sprintf("selection (%d)", len(p.Options))
	case param.KindString:
		if p.Multi {
			return "list (;)"
		}
	}
	return string(p.Kind)
}

func init() {
	describeCmd.Flags().Bool("yaml", false, "print the descriptor as YAML")

	rootCmd.AddCommand(listCmd, describeCmd)
}
