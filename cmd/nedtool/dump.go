/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nedlang/nedxml/pkg/nedparser"
	"github.com/nedlang/nedxml/pkg/nedres"
)

func newDumpCmd() *cobra.Command {
	var fromXML bool

	cmd := &cobra.Command{
		Use:   "dump <file.ned>",
		Short: "Parse a NED file and print its AST as XML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := nedres.New()
			if err := cache.LoadNedFile(args[0], nil, fromXML); err != nil {
				return err
			}
			tree := cache.File(args[0])
			if tree == nil {
				return fmt.Errorf("'%s' did not load", args[0])
			}
			if err := nedparser.WriteXML(os.Stdout, tree); err != nil {
				return err
			}
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromXML, "xml", false, "input file is the XML AST form")
	return cmd
}
