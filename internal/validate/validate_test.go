package validate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelhub/internal/domain"
	"travelhub/internal/validate"
)

func TestPassword(t *testing.T) {
	assert.True(t, validate.Password("Passw0rd!"))
	assert.False(t, validate.Password("password"))
	assert.False(t, validate.Password("Sh0rt!"))
	assert.False(t, validate.Password("NoDigits!!"))
}

func TestQ(t *testing.T) {
	q, ok := validate.Q("  Lisbon loft ")
	assert.True(t, ok)
	assert.Equal(t, "Lisbon loft", q)

	_, ok = validate.Q("<script>")
	assert.False(t, ok)
	_, ok = validate.Q("   ")
	assert.False(t, ok)

	// Long multibyte input is cut on a rune boundary and still matches.
	q, ok = validate.Q(strings.Repeat("é", 150))
	assert.True(t, ok)
	assert.Equal(t, strings.Repeat("é", 100), q)
}

func TestPaging(t *testing.T) {
	assert.Equal(t, 1, validate.Page(""))
	assert.Equal(t, 1, validate.Page("-3"))
	assert.Equal(t, 4, validate.Page("4"))

	assert.Equal(t, 50, validate.PageSize("", 50, 100))
	assert.Equal(t, 100, validate.PageSize("1000", 50, 100))
	assert.Equal(t, 7, validate.PageSize("7", 50, 100))
}

func TestBool(t *testing.T) {
	for in, want := range map[string]bool{"true": true, "1": true, "False": false, "0": false} {
		got, ok := validate.Bool(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := validate.Bool("yes")
	assert.False(t, ok)
}

func TestStructUsesJSONNames(t *testing.T) {
	type input struct {
		Title *string `json:"title" validate:"omitnil,min=1,max=5"`
		Email string  `json:"email" validate:"required,email"`
	}
	long := "way too long"
	err := validate.Struct(input{Title: &long, Email: "nope"})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Ensure this field has no more than 5 characters."}, verr.Fields["title"])
	assert.Equal(t, []string{"Enter a valid email address."}, verr.Fields["email"])

	assert.NoError(t, validate.Struct(input{Email: "a@b.co"}))
}
