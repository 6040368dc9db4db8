package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Print the wire status code table",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME")
		for c := codes.OK; c <= codes.Unauthenticated; c++ {
			fmt.Fprintf(w, "%d\t%s\n", uint32(c), c.String())
		}
		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(codesCmd)
}
