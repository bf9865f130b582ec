package main

import (
	"fmt"
	"os"

	_ "github.com/kilianp07/horizon/app/plugins"
	"github.com/kilianp07/horizon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
