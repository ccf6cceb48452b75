package main

import (
	"os"

	"github.com/dbrafael/tempa/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
