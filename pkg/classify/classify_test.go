package classify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line     string
		category Category
		bucket   Bucket
	}{
		{"Buy milk", Groceries, Later},
		{"call mom tonight", Calls, Today},
		{"Pick up dry cleaning", Errands, Later},
		{"sign permission slip ASAP", Kids, Today},
		{"do laundry", Home, Later},
		{"plan dinner for friday", Meals, Later},
		{"pay electric bill today", Admin, Today},
		{"research standing desks", Ideas, Later},
		{"zzz", Fallback, Later},
		{"", Fallback, Later},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Classify(tt.line)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.bucket, got.Bucket)
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// Matches both Groceries ("milk") and Errands ("pick up"); Groceries is
	// checked first.
	assert.Equal(t, Groceries, CategoryOf("pick up milk"))
	// Matches Calls ("call") and Kids ("school"); Calls wins.
	assert.Equal(t, Calls, CategoryOf("call the school"))
	// Matches Home ("clean") and Meals ("dinner"); Home wins.
	assert.Equal(t, Home, CategoryOf("clean up after dinner"))
}

func TestAllCategoriesOrder(t *testing.T) {
	assert.Equal(t, []Category{Groceries, Calls, Errands, Kids, Home, Meals, Admin, Ideas}, AllCategories())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("errands")
	require.NoError(t, err)
	assert.Equal(t, Errands, c)

	c, err = ParseCategory("someday")
	require.NoError(t, err)
	assert.Equal(t, Ideas, c)

	c, err = ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, Category(""), c)

	_, err = ParseCategory("chores")
	assert.Error(t, err)
}

func TestCategoryUnmarshalUnknownFallsBack(t *testing.T) {
	var got struct {
		Category Category `json:"category"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"category":"Chores"}`), &got))
	assert.Equal(t, Fallback, got.Category)

	require.NoError(t, json.Unmarshal([]byte(`{"category":"kids"}`), &got))
	assert.Equal(t, Kids, got.Category)
}

func TestLines(t *testing.T) {
	dump := "- buy eggs\n\n  * call dentist  \n• [ ] fix the gate\n   \nread a book"
	assert.Equal(t, []string{"buy eggs", "call dentist", "fix the gate", "read a book"}, Lines(dump))
}

func TestLinesNumbered(t *testing.T) {
	dump := "1. buy eggs\n2) call dentist\n10. - [ ] fix the gate\n3.5 hours of taxes"
	assert.Equal(t, []string{"buy eggs", "call dentist", "fix the gate", "3.5 hours of taxes"}, Lines(dump))
}
