package main

import (
	"os"

	"github.com/beam-cookbook/movielens/cmd/movielens/cmd"
)

func main() {
	if err := cmd.Root.Execute(); err != nil {
		os.Exit(1)
	}
}
