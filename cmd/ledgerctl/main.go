package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/sjperalta/fintera-ledger/internal/commands"
)

func main() {
	commands.Execute()
}
