package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var (
	ErrNoIfMatch  = errors.New("missing If-Match header")
	ErrBadIfMatch = errors.New("malformed If-Match header")
)

// ETag renders a row version as a weak entity tag, e.g. W/"3".
func ETag(version int64) string {
	return fmt.Sprintf(`W/"%d"`, version)
}

// SetETag writes the entity tag for the given row version.
func SetETag(w http.ResponseWriter, version int64) {
	w.Header().Set(HeaderETag, ETag(version))
}

// MatchVersion parses the If-Match header of a mutating request.
// It returns the version the caller saw, or wildcard=true for If-Match: *.
func MatchVersion(r *http.Request) (version int64, wildcard bool, err error) {
	header := strings.TrimSpace(r.Header.Get(HeaderIfMatch))
	if header == "" {
		return 0, false, ErrNoIfMatch
	}

	if header == "*" {
		return 0, true, nil
	}

	tag := strings.TrimPrefix(header, "W/")
	tag = strings.Trim(tag, `"`)
	version, parseErr := strconv.ParseInt(tag, 10, 64)
	if parseErr != nil || version < 1 {
		return 0, false, fmt.Errorf("%w: %q", ErrBadIfMatch, header)
	}

	return version, false, nil
}
