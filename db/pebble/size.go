package pebble

import (
	"context"

	"github.com/NethermindEth/snapreader/db"
	"github.com/NethermindEth/snapreader/utils"
)

type Item struct {
	Count uint
	Size  utils.DataSize
}

// CalculatePrefixSize walks every key under prefix and sums the key and value
// lengths.
func CalculatePrefixSize(ctx context.Context, pDB *DB, prefix []byte) (_ *Item, err error) {
	it, err := pDB.NewIterator(prefix, true)
	if err != nil {
		return nil, err
	}
	defer db.CloseAndWrapOnError(it.Close, &err)

	item := &Item{}
	for it.First(); it.Valid(); it.Next() {
		if err := ctx.Err(); err != nil {
			return item, err
		}

		val, err := it.Value()
		if err != nil {
			return nil, err
		}
		item.Count++
		item.Size += utils.DataSize(len(it.Key()) + len(val))
	}
	return item, nil
}
