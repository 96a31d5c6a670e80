package main

import (
	"os"

	"github.com/Clark-Hu/figure-collector/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
