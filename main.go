package main

import (
	"retail-price-alerts/internal/cli"
)

func main() {
	cli.Execute()
}
