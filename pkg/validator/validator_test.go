package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offerRequest struct {
	Title        string `validate:"required,max=200"`
	Description  string `validate:"required,max=2000"`
	Price        int64  `validate:"required,gt=0"`
	DurationDays int    `validate:"required,gt=0"`
}

func TestValidate_Valid(t *testing.T) {
	req := offerRequest{
		Title:        "Web Development",
		Description:  "Create a personalized website",
		Price:        100,
		DurationDays: 1,
	}

	assert.NoError(t, Validate(req))
}

func TestValidate_MissingFields(t *testing.T) {
	err := Validate(offerRequest{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Contains(t, fields, "Title")
	assert.Contains(t, fields, "Price")
	assert.Equal(t, "is required", fields["Title"])
}

func TestValidate_NegativePrice(t *testing.T) {
	req := offerRequest{
		Title:        "Logo design",
		Description:  "Vector logo",
		Price:        -5,
		DurationDays: 3,
	}

	err := Validate(req)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be greater than 0", valErr.Fields()["Price"])
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(offerRequest{Title: "x", Description: "y", Price: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'DurationDays' is required")
}

type ratingRequest struct {
	Rating int `validate:"required,gte=1,lte=5"`
}

func TestValidate_RatingBounds(t *testing.T) {
	assert.NoError(t, Validate(ratingRequest{Rating: 1}))
	assert.NoError(t, Validate(ratingRequest{Rating: 5}))
	assert.Error(t, Validate(ratingRequest{Rating: 6}))
	assert.Error(t, Validate(ratingRequest{Rating: 0}))
}
