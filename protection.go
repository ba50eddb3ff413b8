package sheetforge

import (
	"crypto/rand"
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"
)

// ProtectionOptions are the sheet-protection toggles spec.md §4.G lists.
// Every field follows Excel's inverted convention: true means "allow this
// action while the sheet is protected" and is emitted as the attribute's
// absence (or "0" where the attribute defaults to disallow); false means
// "disallow" and is emitted as "1".
type ProtectionOptions struct {
	SelectLockedCells   bool
	SelectUnlockedCells bool
	FormatCells         bool
	FormatColumns       bool
	FormatRows          bool
	InsertColumns       bool
	InsertRows          bool
	InsertHyperlinks    bool
	DeleteColumns       bool
	DeleteRows          bool
	Sort                bool
	AutoFilter          bool
	PivotTables         bool
	Objects             bool
	Scenarios           bool
}

type sheetProtection struct {
	enabled      bool
	passwordHash uint16
	hasPassword  bool
	options      ProtectionOptions
}

// unprotectedRange is one named range excluded from sheet protection,
// optionally gated by its own password.
type unprotectedRange struct {
	Name         string
	RangeRef     string
	passwordHash uint16
	hasPassword  bool
}

// weakPasswordHash computes the legacy 16-bit Excel password hash spec.md
// §4.G defines: starting from 0, walk the password from last byte to
// first, rotating the accumulator left by 1 within 15 bits and XORing in
// the byte, then XOR the final accumulator with length XOR 0xCE4B.
func weakPasswordHash(password string) uint16 {
	var acc uint16
	b := []byte(password)
	for i := len(b) - 1; i >= 0; i-- {
		acc = rotl15(acc)
		acc ^= uint16(b[i])
	}
	acc ^= uint16(len(b))
	acc ^= 0xCE4B
	return acc
}

func rotl15(v uint16) uint16 {
	return ((v << 1) | (v >> 14)) & 0x7FFF
}

// Protect turns on sheet protection. An empty password leaves the sheet
// password-less (still protected, just with no unlock secret).
func (ws *Worksheet) Protect(password string, opts ProtectionOptions) {
	p := &sheetProtection{enabled: true, options: opts}
	if password != "" {
		p.passwordHash = weakPasswordHash(password)
		p.hasPassword = true
	}
	ws.protection = p
}

// Unprotect turns off sheet protection entirely.
func (ws *Worksheet) Unprotect() { ws.protection = nil }

// UnprotectRange carves rangeRef out of sheet protection, optionally
// requiring its own password to edit even while the sheet is locked.
func (ws *Worksheet) UnprotectRange(name, rangeRef, password string) {
	r := unprotectedRange{Name: name, RangeRef: rangeRef}
	if password != "" {
		r.passwordHash = weakPasswordHash(password)
		r.hasPassword = true
	}
	ws.unprotected = append(ws.unprotected, r)
}

// strongPassword is the modern ISO/IEC 29500 workbook-protection hash: a
// random 16-byte salt run through PBKDF2-HMAC-SHA512 for spinCount rounds,
// seeded by the salt-then-password concatenation the OOXML spec requires.
// This is an opt-in path layered over the mandatory weak hash in Protect;
// nothing in this package selects it implicitly.
type strongPassword struct {
	Algorithm string // "SHA-512"
	HashValue []byte
	SaltValue []byte
	SpinCount int
}

const defaultSpinCount = 100000

// newStrongPassword derives a strongPassword record for password, suitable
// for `workbookProtection`/`sheetProtection` elements that carry
// algorithmName/hashValue/saltValue/spinCount instead of the legacy 16-bit
// hash.
func newStrongPassword(password string) (*strongPassword, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	hash := pbkdf2.Key([]byte(password), salt, defaultSpinCount, sha512.Size, sha512.New)
	return &strongPassword{
		Algorithm: "SHA-512",
		HashValue: hash,
		SaltValue: salt,
		SpinCount: defaultSpinCount,
	}, nil
}

// ProtectWorkbookStructure enables workbook-structure protection (sheet
// add/delete/reorder/hide locking) using the strong hash path.
func (wb *Workbook) ProtectWorkbookStructure(password string) error {
	sp, err := newStrongPassword(password)
	if err != nil {
		return err
	}
	wb.structureProtection = sp
	return nil
}
