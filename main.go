package main

import (
	"os"

	"github.com/robalobadob/softskill/apps/go-server/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
