package daily

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/pbaille/dewey/internal/domain"
)

// Selector maps a calendar date to one populated section code
type Selector struct {
	codes []string
}

// NewSelector takes the populated codes in their fixed enumeration order
// (ascending). The order must not change between deployments.
func NewSelector(codes []string) (*Selector, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: no populated sections to select from", domain.ErrConfiguration)
	}
	return &Selector{codes: codes}, nil
}

// Select returns the section code for the UTC calendar date of t.
// The first four bytes of the MD5 of "YYYY-MM-DD" are read as a big-endian
// integer and reduced modulo the number of populated sections. With a full
// table of 1000 sections this is the integer modulo 1000.
func (s *Selector) Select(t time.Time) string {
	return s.codes[Index(t, len(s.codes))]
}

// Index is the position in an n-long enumeration picked for the date of t
func Index(t time.Time, n int) int {
	sum := md5.Sum([]byte(domain.Day(t).Format(domain.DateLayout)))
	return int(binary.BigEndian.Uint32(sum[:4]) % uint32(n))
}
