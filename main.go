package main

import (
	"os"

	"github.com/TechTinkerPradhan/Travel-AI-agent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
