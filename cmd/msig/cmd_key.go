package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/multisig/crypto"
	"github.com/iov-one/multisig/crypto/bech32"
)

// seedSize is the length of the secret material kept in a key file. The
// signing key is derived from it, so any file of this length works.
const seedSize = 32

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new signing key.

When successful a new file with binary content containing the key seed is
created. This command fails if the key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("MSIG_PRIV_KEY", os.Getenv("HOME")+"/.msig.priv.key"),
			"Path to the key file. You can use MSIG_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite an existing key. User must manually
		// delete it first to ensure we do not drop the secret by an
		// accident (bad command usage).
		return fmt.Errorf("key file %q already exists, delete this file and try again", *keyPathFl)
	}

	seed := make([]byte, seedSize)
	if _, err := rand.Read(seed); err != nil {
		return fmt.Errorf("cannot read random source: %s", err)
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(seed); err != nil {
		return fmt.Errorf("cannot write key file: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close key file: %s", err)
	}
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address associated with your signing key, in hex and in
bech32 encoding.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("MSIG_PRIV_KEY", os.Getenv("HOME")+"/.msig.priv.key"),
			"Path to the key file. You can use MSIG_PRIV_KEY environment variable to set it.")
		hrpFl = fl.String("hrp", "msig", "Human readable part of the bech32 encoding.")
	)
	fl.Parse(args)

	signer, err := loadSigner(*keyPathFl)
	if err != nil {
		return err
	}
	addr := signer.Address()

	enc, err := bech32.Encode(*hrpFl, addr)
	if err != nil {
		return fmt.Errorf("cannot encode address: %s", err)
	}
	fmt.Fprintf(output, "%s\t%s\n", addr, enc)
	return nil
}

func loadSigner(keyPath string) (*crypto.Signer, error) {
	raw, err := ioutil.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read key file: %s", err)
	}
	if len(raw) != seedSize {
		return nil, fmt.Errorf("invalid key file length: %d", len(raw))
	}
	return crypto.SignerFromSeed(raw), nil
}
