package main

import (
	"os"

	"github.com/bruniai/bruni/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
