package main

import (
	"context"
	"os"

	"github.com/paw-chain/swapbook/cmd/swapbookd/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
