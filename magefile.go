//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "proncoach"

// Default target to run when none is specified
var Default = Build

// Build compiles the proncoach binary
func Build() error {
	mg.Deps(Vet)
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/proncoach")
}

// Install installs proncoach into GOPATH/bin
func Install() error {
	return sh.RunV("go", "install", "./cmd/proncoach")
}

// Test runs the unit tests; integration tests skip without API keys
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs the tests with the race detector
func Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Run serves the widget with offline providers
func Run() error {
	mg.Deps(Build)
	return sh.RunWithV(map[string]string{}, "./"+binary,
		"--feedback-provider", "mock", "--recognizer", "mock", "--tts", "none", "--log-dev")
}

// Clean removes build output
func Clean() error {
	return os.RemoveAll(binary)
}
