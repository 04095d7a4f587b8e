package main

import (
	"os"

	"github.com/kelas-internasional/kelas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
