/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/nedlang/nedxml/pkg/nedres"
)

func newListCmd() *cobra.Command {
	var excludedPackages string

	cmd := &cobra.Command{
		Use:   "list <folder>...",
		Short: "Load NED source folders and list the declared types",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := loadFolders(args, excludedPackages)
			if err != nil {
				return err
			}
			for _, qname := range cache.TypeNames() {
				info := cache.Lookup(qname)
				fmt.Printf("%s %s\n", info.Element().Tag(), qname)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&excludedPackages, "exclude", "x", "", "';'-separated packages to skip")
	return cmd
}

func loadFolders(folders []string, excludedPackages string) (*nedres.Cache, error) {
	cache := nedres.New()
	if err := cache.RegisterBuiltinDeclarations(); err != nil {
		return nil, err
	}
	for _, folder := range folders {
		count, err := cache.LoadNedSourceFolder(folder, excludedPackages)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded", count, "NED files from", folder)
	}
	if err := cache.DoneLoadingNedFiles(); err != nil {
		return nil, err
	}
	return cache, nil
}
