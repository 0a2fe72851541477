package exthash

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Dump writes one row per directory slot: the slot index in binary, the
// primary key and value, and the bucket's local depth. Chain entries follow
// their head on rows marked "chain".
func (t *Table[V]) Dump(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "global depth %d\t%d slots\t%d keys\t\n", t.depth, len(t.dir), t.count)
	fmt.Fprintln(tw, "slot\tkey\tvalue\tlocal\t")
	width := int(t.depth)
	for s, idx := range t.dir {
		b := &t.buckets[idx]
		if b.empty() {
			fmt.Fprintf(tw, "%0*b\t-\t-\t%d\t\n", width, s, b.depth)
			continue
		}
		for i, e := range b.entries {
			label := "chain"
			if i == 0 {
				label = fmt.Sprintf("%0*b", width, s)
			}
			fmt.Fprintf(tw, "%s\t%q\t%v\t%d\t\n", label, e.key, e.value, b.depth)
		}
	}
	return tw.Flush()
}
