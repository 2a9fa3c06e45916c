package main

import (
	"os"

	"github.com/AndreyStartsev/heb-tes-project/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
