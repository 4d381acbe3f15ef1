package utils

import (
	"crypto/rand"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var ErrInvalidULID = errors.New("invalid ulid")

// maxPage keeps (page-1)*limit far away from integer overflow.
const maxPage = math.MaxInt32

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	CanonicalULID(id string) (string, error)
	Paginate(page, limit, maxLimit int) (offset, size int)
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// CanonicalULID accepts upper or lower case input and returns the upper case
// form used for storage keys.
func (u *utils) CanonicalULID(id string) (string, error) {
	parsed, err := ulid.ParseStrict(strings.ToUpper(id))
	if err != nil {
		return "", ErrInvalidULID
	}
	return parsed.String(), nil
}

func (u *utils) Paginate(page, limit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 || limit > maxLimit {
		limit = maxLimit
	}
	return (page - 1) * limit, limit
}
