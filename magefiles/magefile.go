//go:build mage

// Package main provides build targets for burndown using Mage.
//
// Usage:
//
//	mage build            Compile the burndown binary to bin/
//	mage test             Run unit tests
//	mage testIntegration  Run CLI integration tests against SQLite
//	mage testDatabase     Run CLI integration tests against MySQL and PostgreSQL (needs Docker)
//	mage fuzz             Fuzz the stack adjustment for a short while
//	mage lint             Run golangci-lint
//	mage clean            Remove build artifacts
//	mage install          Install burndown to GOPATH/bin
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "burndown"
	binaryDir  = "bin"
	modulePath = "github.com/huangsam/burndown"
)

// ldflags stamps version details into the cmd package.
func ldflags() string {
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil || commit == "" {
		commit = "none"
	}
	date := time.Now().UTC().Format(time.RFC3339)
	return strings.Join([]string{
		fmt.Sprintf("-X %s/cmd.version=%s", modulePath, version),
		fmt.Sprintf("-X %s/cmd.commit=%s", modulePath, commit),
		fmt.Sprintf("-X %s/cmd.date=%s", modulePath, date),
	}, " ")
}

// Build compiles the burndown binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), ".")
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// TestIntegration runs the CLI integration tests against SQLite.
func TestIntegration() error {
	return sh.RunV(binGo, "test", "-tags", "basic", "-count=1", "./integration/...")
}

// TestDatabase runs the CLI integration tests against MySQL and PostgreSQL containers.
func TestDatabase() error {
	return sh.RunV(binGo, "test", "-tags", "database", "-count=1", "-timeout", "15m", "./integration/...")
}

// Fuzz runs the stack adjustment fuzz target.
func Fuzz() error {
	return sh.RunV(binGo, "test", "-run", "^$", "-fuzz", "FuzzStackAdjust", "-fuzztime", "30s", "./core")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
