package main

import (
	"os"

	"github.com/sakshikumar19/mentor/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
