package main

import (
	"fmt"

	"github.com/NethermindEth/snapreader/core"
	"github.com/NethermindEth/snapreader/core/felt"
	"github.com/NethermindEth/snapreader/core/state/statetest"
	"github.com/NethermindEth/snapreader/db"
	"github.com/NethermindEth/snapreader/db/pebble"
	"github.com/NethermindEth/snapreader/validator"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Demo fixture written by the seed command
var (
	seedAddress    = felt.UnsafeFromString[felt.Address]("0x1")
	seedKey        = felt.UnsafeFromString[felt.Felt]("0x2")
	seedLegacyHash = felt.UnsafeFromString[felt.ClassHash]("0xd0")
	seedSierraHash = felt.UnsafeFromString[felt.ClassHash]("0x51")
)

type seedEntry struct {
	height      uint64
	description string
	write       func(w *statetest.Writer) error
}

func seedEntries() []seedEntry {
	legacy := &core.DeprecatedCairoClass{
		Program: "H4sIAAAAAAAA",
		Externals: []core.EntryPoint{{
			Selector: felt.NewFromUint64[felt.Felt](1),
			Offset:   felt.NewFromUint64[felt.Felt](0),
		}},
	}
	casm := &core.CasmClass{
		CompilerVersion: "2.6.0",
		Prime:           "0x800000000000011000000000000000000000000000000000000000000000001",
		Bytecode:        []*felt.Felt{felt.NewFromUint64[felt.Felt](0x40780017fff7fff)},
		External: []core.CasmEntryPoint{{
			Selector: felt.NewFromUint64[felt.Felt](2),
			Builtins: []string{"range_check"},
		}},
	}

	return []seedEntry{
		{3, "declare Cairo 0 class " + seedLegacyHash.String(), func(w *statetest.Writer) error {
			return w.DeclareDeprecatedClass(&seedLegacyHash, legacy, 3)
		}},
		{3, "deploy " + seedAddress.String() + " with the Cairo 0 class", func(w *statetest.Writer) error {
			return w.SetClassHash(&seedAddress, &seedLegacyHash, 3)
		}},
		{10, "set storage " + seedKey.String() + " to 0x7", func(w *statetest.Writer) error {
			return w.SetStorage(&seedAddress, &seedKey, felt.NewFromUint64[felt.Felt](7), 10)
		}},
		{10, "set nonce to 0x1", func(w *statetest.Writer) error {
			return w.SetNonce(&seedAddress, felt.NewFromUint64[felt.Felt](1), 10)
		}},
		{12, "declare Sierra class " + seedSierraHash.String(), func(w *statetest.Writer) error {
			return w.DeclareClass(&seedSierraHash, casm, 12)
		}},
		{20, "set storage " + seedKey.String() + " to 0x9", func(w *statetest.Writer) error {
			return w.SetStorage(&seedAddress, &seedKey, felt.NewFromUint64[felt.Felt](9), 20)
		}},
		{20, "set nonce to 0x2", func(w *statetest.Writer) error {
			return w.SetNonce(&seedAddress, felt.NewFromUint64[felt.Felt](2), 20)
		}},
		{20, "replace " + seedAddress.String() + " class with the Sierra class", func(w *statetest.Writer) error {
			return w.SetClassHash(&seedAddress, &seedSierraHash, 20)
		}},
	}
}

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write a small demo history to the database",
		Long: `This subcommand writes a contract, its storage, nonce and class history and two declared classes
to the database at --db-path, creating it if needed.`,
		Args: cobra.NoArgs,
		RunE: seed,
	}
}

func seed(cmd *cobra.Command, _ []string) (err error) {
	dbPath, err := cmd.Flags().GetString(dbPathF)
	if err != nil {
		return err
	}
	if err = validator.Validator().Var(dbPath, "required"); err != nil {
		return errors.Errorf("--%v cannot be empty", dbPathF)
	}
	colour, err := cmd.Flags().GetBool(colourF)
	if err != nil {
		return err
	}

	database, err := pebble.New(dbPath, pebble.WithLogger(colour))
	if err != nil {
		return errors.Wrap(err, "open db")
	}
	defer db.CloseAndWrapOnError(database.Close, &err)

	entries := seedEntries()
	err = database.Update(func(b db.Batch) error {
		w := statetest.NewWriter(b)
		for _, entry := range entries {
			if err := entry.write(w); err != nil {
				return errors.Wrapf(err, "block %d: %s", entry.height, entry.description)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Block", "Change"})
	for _, entry := range entries {
		table.Append([]string{fmt.Sprintf("%d", entry.height), entry.description})
	}
	table.Render()
	return nil
}
