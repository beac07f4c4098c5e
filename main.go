// main is the entry point for the teampulse CLI.
package main

import (
	"github.com/huangsam/teampulse/cmd"
	"github.com/huangsam/teampulse/internal/contract"
	"github.com/huangsam/teampulse/internal/iostore"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	cmd.SyncLogger()
	iostore.CloseHistory()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
