package main

import (
	"os"

	"github.com/nikitaxru/jsontemplar/cmd/jsontemplar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
