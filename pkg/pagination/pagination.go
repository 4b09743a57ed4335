package pagination

import (
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
)

const (
	// DefaultTake is the standard page size when take is not provided.
	DefaultTake = 10
	// MaxTake caps how many rows any list query can request.
	MaxTake = 100
)

// Bounds describes the accepted take/skip/search range of one list operation.
type Bounds struct {
	DefaultTake int
	MaxTake     int
	MaxSkip     int
	SearchMin   int
	SearchMax   int
}

// Params holds raw offset pagination inputs. Nil means "not provided".
type Params struct {
	Take   *int
	Skip   *int
	Search *string
}

// Page is a validated offset window plus an optional search term.
type Page struct {
	Take   int
	Skip   int
	Search string
}

// HasSearch reports whether a search term was supplied.
func (p Page) HasSearch() bool {
	return p.Search != ""
}

// Validate applies defaults and rejects out-of-range values. Values are never
// clamped; an out-of-range request is an INVALID_INPUT error.
func (b Bounds) Validate(params Params) (Page, error) {
	maxTake := b.MaxTake
	if maxTake <= 0 {
		maxTake = MaxTake
	}
	page := Page{Take: b.DefaultTake}
	if page.Take <= 0 {
		page.Take = DefaultTake
	}

	if params.Take != nil {
		if *params.Take < 1 || *params.Take > maxTake {
			return Page{}, rangeError("take", 1, maxTake)
		}
		page.Take = *params.Take
	}

	if params.Skip != nil {
		if *params.Skip < 0 || (b.MaxSkip > 0 && *params.Skip > b.MaxSkip) {
			return Page{}, rangeError("skip", 0, b.MaxSkip)
		}
		page.Skip = *params.Skip
	}

	if params.Search != nil {
		term := strings.TrimSpace(*params.Search)
		length := utf8.RuneCountInString(term)
		if length < b.SearchMin || (b.SearchMax > 0 && length > b.SearchMax) {
			return Page{}, lengthError("search", b.SearchMin, b.SearchMax)
		}
		page.Search = term
	}

	return page, nil
}

func rangeError(field string, min, max int) error {
	details := map[string]any{"field": field, "min": min}
	if max > 0 {
		details["max"] = max
	}
	return pkgerrors.InvalidInput("invalid input").WithDetails(details)
}

func lengthError(field string, min, max int) error {
	details := map[string]any{"field": field, "minLength": min}
	if max > 0 {
		details["maxLength"] = max
	}
	return pkgerrors.InvalidInput("invalid input").WithDetails(details)
}
