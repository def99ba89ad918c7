package cmd

import (
	"bytes"
	"testing"
)

func TestRootCommand(t *testing.T) {
	// Test that root command exists and has expected properties
	if rootCmd.Use != "runnersync" {
		t.Errorf("Expected Use = runnersync, got %s", rootCmd.Use)
	}

	if rootCmd.Short != "A CLI tool to keep GitHub Actions runner groups in sync with glob rules" {
		t.Errorf("Unexpected Short description: %s", rootCmd.Short)
	}

	// Test that the subcommands are added
	syncCmdFound := false
	validateCmdFound := false
	initCmdFound := false
	for _, cmd := range rootCmd.Commands() {
		switch cmd.Name() {
		case "sync":
			syncCmdFound = true
		case "validate":
			validateCmdFound = true
		case "init":
			initCmdFound = true
		}
	}

	if !syncCmdFound {
		t.Error("sync command not found in root command")
	}

	if !validateCmdFound {
		t.Error("validate command not found in root command")
	}

	if !initCmdFound {
		t.Error("init command not found in root command")
	}
}

func TestRootCommandHelp(t *testing.T) {
	// Test help output
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--help"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("Failed to execute help command: %v", err)
	}

	output := buf.String()
	if !bytes.Contains([]byte(output), []byte("runnersync")) {
		t.Error("Help output doesn't contain command name")
	}

	if !bytes.Contains([]byte(output), []byte("sync")) {
		t.Error("Help output doesn't contain sync subcommand")
	}

	if !bytes.Contains([]byte(output), []byte("validate")) {
		t.Error("Help output doesn't contain validate subcommand")
	}

	if !bytes.Contains([]byte(output), []byte("init")) {
		t.Error("Help output doesn't contain init subcommand")
	}
}
