package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/gingerrexayers/degit-go/internal/degit/lib"
)

func main() {
	// Optional .env file, mainly for proxy settings.
	_ = godotenv.Load()

	if err := NewRootCommand().Execute(); err != nil {
		var degitErr *lib.Error
		if errors.As(err, &degitErr) {
			fmt.Fprintf(os.Stderr, "! %s [%s]\n", degitErr.Message, degitErr.Code)
		} else {
			fmt.Fprintf(os.Stderr, "! %v\n", err)
		}
		os.Exit(1)
	}
}
