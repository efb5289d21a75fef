package logging

import (
	"io"
	"log"
	"os"
)

var (
	Debug   *log.Logger
	Enabled bool
)

func init() {
	// Only enable logging if BLOCKDIVE_DEBUG environment variable is set
	if os.Getenv("BLOCKDIVE_DEBUG") == "" {
		// Create a no-op logger that discards output
		Debug = log.New(io.Discard, "", 0)
		Enabled = false
		return
	}

	Enabled = true

	debugFile, err := os.OpenFile("debug.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		// Fallback to stderr if we can't open the file
		Debug = log.New(os.Stderr, "[DEBUG] ", log.Ldate|log.Ltime)
		return
	}

	Debug = log.New(debugFile, "", log.Lmicroseconds)
}
