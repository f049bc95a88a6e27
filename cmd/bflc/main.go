package main

import (
	"os"

	"github.com/kolemannix/bfl-sub000/cmd/bflc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
