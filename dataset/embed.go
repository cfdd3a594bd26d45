package dataset

import (
	"bytes"
	_ "embed"
)

//go:embed data/taxis.csv
var bundled []byte

// Bundled parses the taxis sample shipped inside the binary.
func Bundled() (*Dataset, LoadStats, error) {
	return ReadCSV(bytes.NewReader(bundled))
}
