package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/periodica-press/deposit/format"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported formats",
	Long:  `List the registered metadata formats and their capabilities.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := format.DefaultRegistry.List()
		if len(names) == 0 {
			fmt.Println("No formats registered")
			return nil
		}
		sort.Strings(names)

		fmt.Println("Supported formats:")
		for _, name := range names {
			f, _ := format.Get(name)
			caps := []string{}
			if _, ok := f.(format.Parser); ok {
				caps = append(caps, "parse")
			}
			if _, ok := f.(format.Serializer); ok {
				caps = append(caps, "serialize")
			}
			fmt.Printf("  %-10s %-20s %s\n", name, strings.Join(caps, ", "), f.Description())
		}

		return nil
	},
}
