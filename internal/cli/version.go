package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version подставляется при сборке через -ldflags.
var Version = "dev"

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("daycare %s\n", Version)
		},
	}
}
