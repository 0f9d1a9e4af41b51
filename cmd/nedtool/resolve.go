/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nedlang/nedxml/pkg/nedres"
)

func newResolveCmd() *cobra.Command {
	var packageName string
	var excludedPackages string

	cmd := &cobra.Command{
		Use:   "resolve <name> <folder>...",
		Short: "Resolve a type reference in the context of a package",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			cache, err := loadFolders(args[1:], excludedPackages)
			if err != nil {
				return err
			}
			contextFile := cache.PackageNedFile(packageName)
			if contextFile == nil {
				return fmt.Errorf("no package.ned file for package '%s'", packageName)
			}
			qname := cache.ResolveNedType(nedres.NewNedLookupContext(contextFile, ""), name)
			if qname == "" {
				return fmt.Errorf("'%s' does not resolve in package '%s'", name, packageName)
			}
			fmt.Println(qname)
			return nil
		},
	}
	cmd.Flags().StringVarP(&packageName, "package", "p", "", "package whose package.ned provides the lookup context")
	cmd.Flags().StringVarP(&excludedPackages, "exclude", "x", "", "';'-separated packages to skip")
	return cmd
}
