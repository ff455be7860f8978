package main

import (
	"os"

	"github.com/rpggio/zisseki/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
