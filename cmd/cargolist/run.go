package main

import (
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-cargolist/internal/config"
	"github.com/alnah/go-cargolist/internal/extract"
	"github.com/alnah/go-cargolist/internal/hints"
)

// run dispatches args (program name first) and returns the exit code.
func run(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "serve":
		err = runServe(rest, env)
	case "export":
		err = runExport(rest, env)
	case "print":
		err = runPrint(rest, env)
	case "import":
		err = runImport(rest, env)
	case "reset":
		err = runReset(rest, env)
	case "show":
		err = runShow(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "cargolist %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// hintFor returns the actionable hint matching err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, extract.ErrMissingAPIKey):
		return hints.ForAPIKey(apiKeyEnvIn(err))
	case errors.Is(err, ErrSessionLocked):
		return hints.ForSessionLocked(lockedPath(err))
	case errors.Is(err, ErrOpenStorage):
		return hints.ForStorage(storageDriverIn(err))
	case errors.Is(err, ErrWriteArtifact):
		return hints.ForOutputDirectory()
	case exitCodeFor(err) == ExitBrowser:
		if strings.Contains(err.Error(), "deadline exceeded") {
			return hints.ForTimeout()
		}
		return hints.ForBrowserConnect()
	case exitCodeFor(err) == ExitImport:
		return hints.ForImageImport()
	}
	return ""
}

// triedPaths extracts the searched locations from a config-not-found error.
func triedPaths(err error) []string {
	msg := err.Error()
	i := strings.Index(msg, "tried ")
	if i < 0 {
		return nil
	}
	return strings.Split(msg[i+len("tried "):], ", ")
}

// apiKeyEnvIn names the key variable of the provider mentioned in err.
func apiKeyEnvIn(err error) string {
	msg := err.Error()
	for _, p := range []extract.Provider{extract.ProviderAnthropic, extract.ProviderOpenAI, extract.ProviderGemini} {
		if strings.HasSuffix(msg, string(p)) {
			return extract.DefaultAPIKeyEnv(p)
		}
	}
	return ""
}

// lockedPath returns the state path carried by a session-locked error.
func lockedPath(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

// storageDriverIn guesses the failing driver from err.
func storageDriverIn(err error) string {
	if strings.Contains(err.Error(), "redis") {
		return "redis"
	}
	return "sqlite"
}
