package sheetforge

import (
	"os"
	"time"
)

// SaveAs writes the workbook to path as a new .xlsx package, creating or
// truncating the file. Calling SaveAs repeatedly on the same Workbook is
// idempotent: each call re-assembles the package from current state.
// Saving does write into that state: rows failing an autofilter condition
// are marked hidden, and part and relationship ids are assigned.
func (wb *Workbook) SaveAs(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = wb.WriteTo(f)
	return err
}

// assembledSize reports the total uncompressed size of the package parts
// without touching disk,
// mainly useful from tests that want to assert a save produced output
// without depending on a temp-file fixture.
func (wb *Workbook) assembledSize() (int64, error) {
	parts, err := wb.assemble(time.Now())
	if err != nil {
		return 0, err
	}
	n := int64(0)
	for _, p := range parts {
		n += int64(len(p.data))
	}
	return n, nil
}
