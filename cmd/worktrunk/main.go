package main

import (
	"os"

	"github.com/worktrunk/worktrunk/internal/worktrunk"
)

func main() {
	os.Exit(worktrunk.Main())
}
