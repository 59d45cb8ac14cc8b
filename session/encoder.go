package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/MrEthical07/campusAuth/permission"
)

const (
	userFormatVersionCurrent = 3
	userFormatVersionV2      = 2
	userFormatVersionV1      = 1
)

// CurrentSchemaVersion is the version byte written by [BinaryCodec.Encode].
const CurrentSchemaVersion = userFormatVersionCurrent

// BinaryCodec is the default record codec.
//
// Layout (v3): version | len id | len name | len email | role | len department, where
// every length is a uvarint. v1 and v2 use single length bytes; v1 has no department.
type BinaryCodec struct{}

func (BinaryCodec) Encode(u *User) ([]byte, error) {
	if u == nil {
		return nil, errors.New("nil user")
	}
	if !u.Role.Valid() {
		return nil, permission.ErrUnknownRole
	}

	var buf bytes.Buffer
	buf.WriteByte(userFormatVersionCurrent)
	for _, value := range []string{u.ID, u.Name, u.Email} {
		writeString(&buf, value)
	}
	buf.WriteByte(byte(u.Role))
	writeString(&buf, u.Department)

	return buf.Bytes(), nil
}

func (BinaryCodec) Decode(data []byte) (*User, error) {
	u, err := decodeUser(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return u, nil
}

func decodeUser(data []byte) (*User, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	var read func(*bytes.Reader) (string, error)
	switch version {
	case userFormatVersionCurrent:
		read = readString
	case userFormatVersionV2, userFormatVersionV1:
		read = readShortString
	default:
		return nil, fmt.Errorf("unsupported user schema version %d", version)
	}

	u := &User{}
	if u.ID, err = read(reader); err != nil {
		return nil, err
	}
	if u.Name, err = read(reader); err != nil {
		return nil, err
	}
	if u.Email, err = read(reader); err != nil {
		return nil, err
	}

	role, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	u.Role = permission.Role(role)
	if !u.Role.Valid() {
		return nil, permission.ErrUnknownRole
	}

	if version != userFormatVersionV1 {
		if u.Department, err = read(reader); err != nil {
			return nil, err
		}
	}

	if reader.Len() != 0 {
		return nil, errors.New("trailing bytes after user record")
	}
	if u.ID == "" {
		return nil, errors.New("empty user id")
	}

	return u, nil
}

func writeString(buf *bytes.Buffer, value string) {
	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], uint64(len(value)))
	buf.Write(prefix[:n])
	buf.WriteString(value)
}

func readString(reader *bytes.Reader) (string, error) {
	n, err := binary.ReadUvarint(reader)
	if err != nil {
		return "", err
	}
	return readBytes(reader, n)
}

// readShortString reads a v1/v2 field with a single length byte.
func readShortString(reader *bytes.Reader) (string, error) {
	n, err := reader.ReadByte()
	if err != nil {
		return "", err
	}
	return readBytes(reader, uint64(n))
}

// readBytes never allocates more than the record still holds.
func readBytes(reader *bytes.Reader, n uint64) (string, error) {
	if n > uint64(reader.Len()) {
		return "", fmt.Errorf("field length %d exceeds remaining %d bytes", n, reader.Len())
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(reader, b); err != nil {
		return "", err
	}
	return string(b), nil
}
