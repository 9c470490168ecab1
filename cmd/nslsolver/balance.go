package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type balanceReport struct {
	Balance      float64  `json:"balance" yaml:"balance"`
	MaxThreads   int      `json:"max_threads" yaml:"max_threads"`
	AllowedTypes []string `json:"allowed_types" yaml:"allowed_types"`
}

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Check account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return fail(cmd, err)
			}
			defer client.Close()

			res, err := client.GetBalanceContext(cmd.Context())
			if err != nil {
				return fail(cmd, err)
			}

			report := balanceReport{
				Balance:      res.Balance,
				MaxThreads:   res.MaxThreads,
				AllowedTypes: res.AllowedTypes,
			}
			return render(cmd.OutOrStdout(), outputFmt, report, func(w io.Writer) {
				fmt.Fprintf(w, "[+] Balance: %g\n", report.Balance)
				fmt.Fprintf(w, "    Max threads: %d\n", report.MaxThreads)
				fmt.Fprintf(w, "    Allowed types: %s\n", strings.Join(report.AllowedTypes, ", "))
			})
		},
	}
}
