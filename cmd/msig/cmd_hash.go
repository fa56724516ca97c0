package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"strconv"

	multisig "github.com/iov-one/multisig"
	"github.com/iov-one/multisig/sighash"
)

func cmdThresholdHash(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Compute the digest that signers must sign to approve a threshold change.
The digest is written to stdout in hex encoding, one line, so it can be
piped into the sign command.
`)
		fl.PrintDefaults()
	}
	var (
		contractFl  = fl.String("contract", "", "Hex address of the wallet contract.")
		nonceFl     = fl.Uint64("nonce", 0, "Current nonce of the wallet.")
		thresholdFl = fl.Uint64("threshold", 0, "New approval threshold.")
	)
	fl.Parse(args)

	contract, err := multisig.NewAddressFromString(*contractFl)
	if err != nil {
		return fmt.Errorf("invalid contract address: %s", err)
	}
	digest, err := sighash.Hash(sighash.ThresholdPayload{
		Contract:  contract,
		Nonce:     *nonceFl,
		Threshold: *thresholdFl,
	})
	if err != nil {
		return fmt.Errorf("cannot compute digest: %s", err)
	}
	fmt.Fprintln(output, hex.EncodeToString(digest))
	return nil
}

func cmdWeightHash(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Compute the digest that signers must sign to approve a weight change.
The digest is written to stdout in hex encoding, one line, so it can be
piped into the sign command.
`)
		fl.PrintDefaults()
	}
	var (
		contractFl = fl.String("contract", "", "Hex address of the wallet contract.")
		nonceFl    = fl.Uint64("nonce", 0, "Current nonce of the wallet.")
		addressFl  = fl.String("address", "", "Hex address of the user whose weight changes.")
		weightFl   = fl.Uint64("weight", 0, "New voting weight of the user.")
	)
	fl.Parse(args)

	contract, err := multisig.NewAddressFromString(*contractFl)
	if err != nil {
		return fmt.Errorf("invalid contract address: %s", err)
	}
	addr, err := multisig.NewAddressFromString(*addressFl)
	if err != nil {
		return fmt.Errorf("invalid user address: %s", err)
	}
	digest, err := sighash.Hash(sighash.WeightPayload{
		Contract: contract,
		Nonce:    *nonceFl,
		User:     multisig.User{Address: addr, Weight: *weightFl},
	})
	if err != nil {
		return fmt.Errorf("cannot compute digest: %s", err)
	}
	fmt.Fprintln(output, hex.EncodeToString(digest))
	return nil
}

func cmdTransactionHash(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Compute the digest that signers must sign to approve a transaction.

Without -selector the transaction is a plain transfer and -value is
required. With -selector the transaction is an external call against a
contract target and the value is optional. The digest is written to
stdout in hex encoding, one line, so it can be piped into the sign
command.
`)
		fl.PrintDefaults()
	}
	var (
		contractFl = fl.String("contract", "", "Hex address of the wallet contract.")
		nonceFl    = fl.Uint64("nonce", 0, "Current nonce of the wallet.")
		targetFl   = fl.String("target", "", "Hex address of the transaction target.")
		toContract = fl.Bool("to-contract", false, "The target is a contract, not a plain address.")
		assetFl    = fl.String("asset", "", "Hex identifier of the transferred asset.")
		valueFl    = fl.String("value", "", "Transferred value. Leave empty for a call without value.")
		selectorFl = fl.String("selector", "", "Hex encoded function selector. Presence makes this an external call.")
		calldataFl = fl.String("calldata", "", "Hex encoded call arguments.")
		gasFl      = fl.Uint64("gas", 0, "Gas forwarded to the external call.")
		singleFl   = fl.Bool("single-value-arg", false, "The call arguments are a single value type.")
	)
	fl.Parse(args)

	contract, err := multisig.NewAddressFromString(*contractFl)
	if err != nil {
		return fmt.Errorf("invalid contract address: %s", err)
	}
	targetAddr, err := multisig.NewAddressFromString(*targetFl)
	if err != nil {
		return fmt.Errorf("invalid target address: %s", err)
	}
	asset, err := multisig.NewAddressFromString(*assetFl)
	if err != nil {
		return fmt.Errorf("invalid asset: %s", err)
	}

	target := multisig.AddressIdentity(targetAddr)
	if *toContract {
		target = multisig.ContractIdentity(targetAddr)
	}

	transfer := sighash.TransferParams{Asset: asset}
	if *valueFl != "" {
		value, err := strconv.ParseUint(*valueFl, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", err)
		}
		transfer.Value = &value
	}

	var call *sighash.CallParams
	if *selectorFl != "" {
		selector, err := hex.DecodeString(*selectorFl)
		if err != nil {
			return fmt.Errorf("invalid selector: %s", err)
		}
		calldata, err := hex.DecodeString(*calldataFl)
		if err != nil {
			return fmt.Errorf("invalid calldata: %s", err)
		}
		call = &sighash.CallParams{
			FunctionSelector:   selector,
			Calldata:           calldata,
			ForwardedGas:       *gasFl,
			SingleValueTypeArg: *singleFl,
		}
	}

	digest, err := sighash.Hash(sighash.TransactionPayload{
		Contract: contract,
		Nonce:    *nonceFl,
		Call:     call,
		Target:   target,
		Transfer: transfer,
	})
	if err != nil {
		return fmt.Errorf("cannot compute digest: %s", err)
	}
	fmt.Fprintln(output, hex.EncodeToString(digest))
	return nil
}
