package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
}

func TestIsValidDate(t *testing.T) {
	t.Parallel()

	date, ok := IsValidDate("2024-01-15")
	assert.True(t, ok)
	assert.Equal(t, 2024, date.Year())

	_, ok = IsValidDate("15/01/2024")
	assert.False(t, ok)
	_, ok = IsValidDate("2024-13-01")
	assert.False(t, ok)
}

func TestIsValidTimeOfDay(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidTimeOfDay("08:30"))
	assert.True(t, IsValidTimeOfDay("23:59"))
	assert.False(t, IsValidTimeOfDay("24:00"))
	assert.False(t, IsValidTimeOfDay("8.30"))
}

func TestIsValidBadgeCode(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidBadgeCode("0001-0042"))
	assert.False(t, IsValidBadgeCode("00010042"))
	assert.False(t, IsValidBadgeCode("001-0042"))
	assert.False(t, IsValidBadgeCode("abcd-efgh"))
}

func TestValidationErrors_ErrorAndToMap(t *testing.T) {
	t.Parallel()

	errs := ValidationErrors{
		{Field: "from", Message: "from must be a YYYY-MM-DD date"},
		{Field: "format", Message: "format must be 'txt' or 'csv'"},
	}

	assert.Equal(t, "from: from must be a YYYY-MM-DD date; format: format must be 'txt' or 'csv'", errs.Error())
	assert.Equal(t, map[string]string{
		"from":   "from must be a YYYY-MM-DD date",
		"format": "format must be 'txt' or 'csv'",
	}, errs.ToMap())
}
