package main

import (
	"os"

	"github.com/noah-isme/bioscizone-api/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
