package storage

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Column widths for the single record type this engine stores. Each
// string field reserves one extra byte versus its nominal capacity,
// matching the original C schema's COLUMN_USERNAME_SIZE/
// COLUMN_EMAIL_SIZE + 1 for the trailing NUL.
const (
	IdSize       = uint32(4)
	UsernameSize = uint32(32 + 1)
	EmailSize    = uint32(255 + 1)

	IdOffset       = uint32(0)
	UsernameOffset = IdOffset + IdSize
	EmailOffset    = UsernameOffset + UsernameSize

	// RowSize is the fixed, bit-exact serialized size of a Row.
	RowSize = IdOffset + IdSize + UsernameSize + EmailSize
)

// Row is the single record type this engine stores: an unsigned
// 32-bit id (the key) plus two fixed-capacity strings.
type Row struct {
	Id       uint32
	Username string
	Email    string
}

// SerializeRow writes row into dst at the fixed offsets above. dst
// must be exactly RowSize bytes.
func SerializeRow(row Row, dst []byte) error {
	if uint32(len(dst)) != RowSize {
		return fmt.Errorf("storage: SerializeRow: dst is %d bytes, want %d", len(dst), RowSize)
	}
	if len(row.Username) > int(UsernameSize-1) {
		return fmt.Errorf("storage: SerializeRow: username %q exceeds %d bytes", row.Username, UsernameSize-1)
	}
	if len(row.Email) > int(EmailSize-1) {
		return fmt.Errorf("storage: SerializeRow: email %q exceeds %d bytes", row.Email, EmailSize-1)
	}

	for i := range dst {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint32(dst[IdOffset:IdOffset+IdSize], row.Id)
	copy(dst[UsernameOffset:UsernameOffset+UsernameSize], row.Username)
	copy(dst[EmailOffset:EmailOffset+EmailSize], row.Email)
	return nil
}

// DeserializeRow reads a Row back out of src, which must be exactly
// RowSize bytes.
func DeserializeRow(src []byte) (Row, error) {
	if uint32(len(src)) != RowSize {
		return Row{}, fmt.Errorf("storage: DeserializeRow: src is %d bytes, want %d", len(src), RowSize)
	}
	id := binary.LittleEndian.Uint32(src[IdOffset : IdOffset+IdSize])
	username := strings.TrimRight(string(src[UsernameOffset:UsernameOffset+UsernameSize]), "\x00")
	email := strings.TrimRight(string(src[EmailOffset:EmailOffset+EmailSize]), "\x00")
	return Row{Id: id, Username: username, Email: email}, nil
}
