package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// commands is a register of all available commands that can be executed
// by this program. The name is used to match with the first argument.
//
// A command function is an independent runnable taking stdin and stdout.
// Given args are the command line arguments, without the program name,
// that should be parsed using the flag package. Commands print a single
// result, so they can be combined with a unix pipe:
//
//   $ msig transaction-hash -contract $C -nonce 4 -target $T -asset $A -value 100 \
//       | msig sign -key alice.key
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"keygen":           cmdKeygen,
	"keyaddr":          cmdKeyaddr,
	"threshold-hash":   cmdThresholdHash,
	"weight-hash":      cmdWeightHash,
	"transaction-hash": cmdTransactionHash,
	"sign":             cmdSign,
	"version":          cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s prepares signatures for a weighted multisig wallet.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

// env returns the value of the environment variable, or the fallback
// when unset.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, gitHash)
	return nil
}

// gitHash is set during the compilation time.
var gitHash string = "dev"
