package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iov-one/multisig/crypto"
)

func cmdSign(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign a digest with your key. The digest is read as a hex encoded line
from stdin, so the hash commands can be piped directly into this one.
The recoverable signature is written to stdout in hex encoding.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("MSIG_PRIV_KEY", os.Getenv("HOME")+"/.msig.priv.key"),
			"Path to the key file. You can use MSIG_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	signer, err := loadSigner(*keyPathFl)
	if err != nil {
		return err
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("cannot read digest: %s", err)
	}
	digest, err := hex.DecodeString(strings.TrimSpace(line))
	if err != nil {
		return fmt.Errorf("invalid digest encoding: %s", err)
	}
	if len(digest) != crypto.DigestLength {
		return fmt.Errorf("invalid digest length: %d", len(digest))
	}

	sig, err := signer.Sign(digest)
	if err != nil {
		return fmt.Errorf("cannot sign: %s", err)
	}
	fmt.Fprintln(output, hex.EncodeToString([]byte(sig)))
	return nil
}
