package main

import (
	"strconv"

	"github.com/NethermindEth/snapreader/core"
	"github.com/NethermindEth/snapreader/core/felt"
	"github.com/NethermindEth/snapreader/statereader"
	"github.com/NethermindEth/snapreader/validator"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type contractArgs struct {
	Address string `validate:"required,felt"`
}

type storageArgs struct {
	Address string `validate:"required,felt"`
	Key     string `validate:"required,felt"`
}

type classArgs struct {
	ClassHash string `validate:"required,felt"`
}

func StorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "storage <address> <key>",
		Short: "Read a storage slot of a contract",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReader(cmd, func(reader statereader.StateReader) ([][]string, error) {
				return storageRows(reader, storageArgs{Address: args[0], Key: args[1]})
			})
		},
	}
}

func NonceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nonce <address>",
		Short: "Read the nonce of a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReader(cmd, func(reader statereader.StateReader) ([][]string, error) {
				return nonceRows(reader, contractArgs{Address: args[0]})
			})
		},
	}
}

func ClassHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "class-hash <address>",
		Short: "Read the class hash deployed at an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReader(cmd, func(reader statereader.StateReader) ([][]string, error) {
				return classHashRows(reader, contractArgs{Address: args[0]})
			})
		},
	}
}

func ClassCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "class <class-hash>",
		Short: "Describe the executable class of a class hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReader(cmd, func(reader statereader.StateReader) ([][]string, error) {
				return classRows(reader, classArgs{ClassHash: args[0]})
			})
		},
	}
}

func storageRows(reader statereader.StateReader, args storageArgs) ([][]string, error) {
	if err := validator.Validator().Struct(args); err != nil {
		return nil, errors.Wrap(err, "invalid arguments")
	}
	addr := felt.UnsafeFromString[felt.Address](args.Address)
	key := felt.UnsafeFromString[felt.Felt](args.Key)

	value, err := reader.StorageAt(&addr, &key)
	if err != nil {
		return nil, errors.Wrapf(err, "read storage %s of %s", &key, &addr)
	}
	return [][]string{
		{"Address", addr.String()},
		{"Key", key.String()},
		{"Value", value.String()},
	}, nil
}

func nonceRows(reader statereader.StateReader, args contractArgs) ([][]string, error) {
	if err := validator.Validator().Struct(args); err != nil {
		return nil, errors.Wrap(err, "invalid arguments")
	}
	addr := felt.UnsafeFromString[felt.Address](args.Address)

	nonce, err := reader.NonceAt(&addr)
	if err != nil {
		return nil, errors.Wrapf(err, "read nonce of %s", &addr)
	}
	return [][]string{
		{"Address", addr.String()},
		{"Nonce", nonce.String()},
	}, nil
}

func classHashRows(reader statereader.StateReader, args contractArgs) ([][]string, error) {
	if err := validator.Validator().Struct(args); err != nil {
		return nil, errors.Wrap(err, "invalid arguments")
	}
	addr := felt.UnsafeFromString[felt.Address](args.Address)

	classHash, err := reader.ClassHashAt(&addr)
	if err != nil {
		return nil, errors.Wrapf(err, "read class hash of %s", &addr)
	}
	return [][]string{
		{"Address", addr.String()},
		{"Class hash", classHash.String()},
	}, nil
}

func classRows(reader statereader.StateReader, args classArgs) ([][]string, error) {
	if err := validator.Validator().Struct(args); err != nil {
		return nil, errors.Wrap(err, "invalid arguments")
	}
	classHash := felt.UnsafeFromString[felt.ClassHash](args.ClassHash)

	class, err := reader.CompiledClass(&classHash)
	if err != nil {
		return nil, errors.Wrapf(err, "read class %s", &classHash)
	}

	rows := [][]string{
		{"Class hash", classHash.String()},
		{"Version", class.Version().String()},
	}
	switch class.Version() {
	case core.ClassV1:
		casm := class.Casm
		rows = append(rows,
			[]string{"Compiler version", casm.CompilerVersion},
			[]string{"Bytecode length", strconv.Itoa(len(casm.Bytecode))},
			[]string{"External entry points", strconv.Itoa(len(casm.External))},
			[]string{"L1 handlers", strconv.Itoa(len(casm.L1Handler))},
			[]string{"Constructors", strconv.Itoa(len(casm.Constructor))},
		)
	case core.ClassV0:
		deprecated := class.Deprecated
		rows = append(rows,
			[]string{"External entry points", strconv.Itoa(len(deprecated.Externals))},
			[]string{"L1 handlers", strconv.Itoa(len(deprecated.L1Handlers))},
			[]string{"Constructors", strconv.Itoa(len(deprecated.Constructors))},
			[]string{"Program size", strconv.Itoa(len(deprecated.Program))},
		)
	}
	return rows, nil
}
