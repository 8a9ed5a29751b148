package main

import (
	"os"

	"github.com/simaogato/papertrade-backend/cmd/papertrade/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
