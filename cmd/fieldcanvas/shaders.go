// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/gogpu/fieldcanvas/field"
	"github.com/gogpu/fieldcanvas/shader"
	"github.com/spf13/cobra"
)

var shadersFlags struct {
	animation string
	cache     string
}

var shadersCmd = &cobra.Command{
	Use:   "shaders",
	Short: "Compile the compute shaders of an animation into a cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		anim, err := field.ParseAnimation(shadersFlags.animation)
		if err != nil {
			return err
		}
		cache, err := shader.NewCache(shadersFlags.cache, nil)
		if err != nil {
			return err
		}
		srcs, err := shader.Sources(anim)
		if err != nil {
			return err
		}
		code, err := shader.Compile(cache, anim)
		if err != nil {
			return err
		}
		for _, name := range slices.Sorted(maps.Keys(code)) {
			fmt.Fprintf(cmd.OutOrStdout(), "%-18s %6d words  %s\n", name, len(code[name]), cache.Path(name, srcs[name]))
		}
		hits, misses := cache.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "cache %s: %d hits, %d compiled\n", cache.Dir(), hits, misses)
		return nil
	},
}

func init() {
	f := shadersCmd.Flags()
	f.StringVarP(&shadersFlags.animation, "animation", "a", "basic", "animation to compile for")
	f.StringVarP(&shadersFlags.cache, "cache", "c", "shaders", "cache directory")
}
