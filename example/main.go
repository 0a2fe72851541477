package main

import (
	"encoding/binary"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/theflywheel/exthash"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	tbl := exthash.New[uint64](exthash.WithLogger(logger))
	fmt.Println("Table created")

	// Insert some data
	for i := 0; i < 10; i++ {
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, uint64(i))
		tbl.Insert(key, uint64(i*100))
	}
	fmt.Printf("Inserted 10 key-value pairs, global depth %d\n", tbl.Depth())

	// Retrieve and display some values
	for i := 0; i < 15; i += 2 {
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, uint64(i))

		if value, found := tbl.Get(key); found {
			fmt.Printf("Key %d => Value %d\n", i, value)
		} else {
			fmt.Printf("Key %d not found\n", i)
		}
	}

	// Update a value
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, 2)
	tbl.Insert(key, 999)
	if value, found := tbl.Get(key); found {
		fmt.Printf("Updated key 2 => Value %d\n", value)
	}

	// Remove it again
	tbl.Remove(key)
	if _, found := tbl.Get(key); !found {
		fmt.Println("Key 2 removed")
	}

	if err := tbl.Check(); err != nil {
		log.Fatalf("Table check failed: %v", err)
	}
	if err := tbl.Dump(os.Stdout); err != nil {
		log.Fatalf("Failed to dump table: %v", err)
	}

	tbl.Destroy()
	fmt.Println("Example completed successfully")
}
