package main

import (
	"fmt"

	"github.com/NethermindEth/snapreader/db"
	"github.com/NethermindEth/snapreader/db/pebble"
	"github.com/NethermindEth/snapreader/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func SizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Calculate database size information for each data type",
		Long:  `This subcommand retrieves and displays the storage of each data type stored in the database.`,
		Args:  cobra.NoArgs,
		RunE:  dbSize,
	}
}

func dbSize(cmd *cobra.Command, _ []string) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	database, err := openDB(cfg.DBPath, pebble.WithReadOnly(), pebble.WithLogger(cfg.Colour))
	if err != nil {
		return err
	}
	defer db.CloseAndWrapOnError(database.Close, &err)

	var (
		totalSize  utils.DataSize
		totalCount uint

		items [][]string
	)

	for _, b := range db.BucketValues() {
		bucketItem, err := pebble.CalculatePrefixSize(cmd.Context(), database, []byte{byte(b)})
		if err != nil {
			return err
		}
		items = append(items, []string{b.String(), bucketItem.Size.String(), fmt.Sprintf("%d", bucketItem.Count)})

		totalSize += bucketItem.Size
		totalCount += bucketItem.Count
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Bucket", "Size", "Count"})
	table.AppendBulk(items)
	table.SetFooter([]string{"Total", totalSize.String(), fmt.Sprintf("%d", totalCount)})
	table.Render()

	return nil
}
