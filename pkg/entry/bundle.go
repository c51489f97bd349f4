package entry

import (
	"encoding/json"
	"fmt"
	"io"
)

// bundle is the on-disk form written by Dump and read by Restore.
type bundle struct {
	Entries *[]string `json:"entries"`
}

// Dump writes the sequence as a JSON object with a single "entries" list.
func Dump(w io.Writer, seq Sequence) error {
	list := seq.Strings()
	if err := json.NewEncoder(w).Encode(bundle{Entries: &list}); err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}
	return nil
}

// Restore reads a bundle written by Dump. Entries are returned verbatim.
func Restore(r io.Reader) (Sequence, error) {
	var b bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: restore bundle not correctly formatted: %v", ErrStructural, err)
	}
	if b.Entries == nil {
		return nil, fmt.Errorf("%w: restore bundle not correctly formatted: missing entries", ErrStructural)
	}
	seq := make(Sequence, len(*b.Entries))
	for i, s := range *b.Entries {
		seq[i] = Entry(s)
	}
	return seq, nil
}
