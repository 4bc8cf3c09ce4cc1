// coins-control/services/scheduling-service/cmd/schedulingctl/main.go

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
)

func main() {
	_ = godotenv.Load()
	utils.InitLogger("schedulingctl")

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "schedulingctl",
		Short:         "Operator tooling for the scheduling service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		reconcileCmd(),
		ledgerCmd(),
		unlockCmd(),
		passcodeCmd(),
	)
	return root
}
