package main

import (
	"os"

	"github.com/GoMediaVault/GoMediaVault/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
