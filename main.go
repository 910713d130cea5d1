package main

import (
	"OnAirFM/cmd"
)

func main() {
	cmd.Execute()
}
