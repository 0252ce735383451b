package main

import (
	_ "time/tzdata"

	"github.com/BruksfildServices01/barber-queue/internal/cli"
)

func main() {
	cli.Execute()
}
