package uri

import (
	"database/sql/driver"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/errorutil"
)

// Value implements [driver.Valuer]. The zero URI is stored as NULL.
func (u URI) Value() (driver.Value, error) {
	if u.IsZero() {
		return nil, nil //nolint:nilnil
	}
	return u.raw, nil
}

// Scan implements [database/sql.Scanner].
// NULL is scanned into the zero URI, strings and byte slices are parsed with [Parse].
func (u *URI) Scan(src any) error {
	var (
		u1  URI
		err error
	)
	switch v := src.(type) {
	case nil:
		*u = URI{}
		return nil
	case string:
		u1, err = Parse(v)
	case []byte:
		u1, err = Parse(v)
	default:
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("unsupported URI source type %T", src))
	}
	if err != nil {
		return errtrace.Wrap(err)
	}
	*u = u1
	return nil
}

// GormDataType returns the column type used by GORM migrations.
func (URI) GormDataType() string { return "text" }

// NullURI represents a [URI] that may be null.
// It implements [database/sql.Scanner] and [driver.Valuer] like [database/sql.NullString].
type NullURI struct {
	URI   URI
	Valid bool // Valid is true if URI is not NULL
}

// Value implements [driver.Valuer].
func (n NullURI) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil //nolint:nilnil
	}
	return errtrace.Wrap2(n.URI.Value())
}

// Scan implements [database/sql.Scanner].
func (n *NullURI) Scan(src any) error {
	if src == nil {
		*n = NullURI{}
		return nil
	}
	if err := n.URI.Scan(src); err != nil {
		*n = NullURI{}
		return errtrace.Wrap(err)
	}
	n.Valid = true
	return nil
}

// GormDataType returns the column type used by GORM migrations.
func (NullURI) GormDataType() string { return "text" }
