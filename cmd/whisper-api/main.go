package main

import (
	"whisper-api/cmd/whisper-api/cmd"
)

// @title Whisper API
// @version 1.0
// @description Speech-to-text over HTTP backed by a local whisper model.
// @BasePath /api/v1
func main() {
	cmd.Execute()
}
