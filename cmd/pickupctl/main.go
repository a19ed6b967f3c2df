package main

import (
	"fmt"
	"os"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/pickupctl"
)

func main() {
	root := pickupctl.NewRootCommand(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
