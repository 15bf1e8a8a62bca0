//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var Default = Build

// Build compiles the kotobakit binary
func Build() error {
	fmt.Println("Building kotobakit...")
	return sh.RunV("go", "build", "-o", "kotobakit", "./cmd/kotobakit")
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet on all packages
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install builds and installs kotobakit into GOBIN
func Install() error {
	mg.Deps(Build)

	gobin := os.Getenv("GOBIN")
	if gobin == "" {
		gopath, err := sh.Output("go", "env", "GOPATH")
		if err != nil {
			return err
		}
		gobin = filepath.Join(gopath, "bin")
	}

	fmt.Printf("Installing to %s...\n", gobin)
	return sh.Copy(filepath.Join(gobin, "kotobakit"), "kotobakit")
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm("kotobakit")
}
