package main

import (
	"fmt"
	"os"

	"github.com/mehulBhatt911/Studysyn/backend/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
