package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/hashjamm/portfolio/cmd"
)

func main() {
	cmd.Execute()
}
