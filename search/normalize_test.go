package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tastetrail/tastetrail/core"
)

func TestDescriptiveText_FullPlace(t *testing.T) {
	place := &core.Place{
		Name:    "Phở Hòa Pasteur",
		Address: "260C Pasteur, Quận 3",
		Menu: []core.MenuItem{
			{Name: "Phở bò tái"},
			{Name: "Phở gà"},
		},
		Reviews: []core.Review{
			{Rating: 5, Content: "Nước dùng đậm đà"},
		},
		Scores: core.AttributeScores{Service: 9.0, Space: 8.5, Price: 6.0},
	}

	text := DescriptiveText(place)

	assert.Contains(t, text, "Name: Phở Hòa Pasteur")
	assert.Contains(t, text, "Category: Vietnamese Pho Noodle")
	assert.Contains(t, text, "Menu: Phở bò tái, Phở gà")
	assert.Contains(t, text, "Signature Dishes of Phở Hòa Pasteur")
	assert.Contains(t, text, "Reviews: Nước dùng đậm đà")
	assert.Contains(t, text, "Address: 260C Pasteur, Quận 3")
	assert.Contains(t, text, "Excellent service")
	assert.Contains(t, text, "Beautiful space nice view")
	assert.NotContains(t, text, "Good price reasonable")
}

func TestDescriptiveText_EmptyPlace(t *testing.T) {
	text := DescriptiveText(&core.Place{})
	assert.Equal(t, "Category: "+defaultCuisineGuess, text)
}

func TestDescriptiveText_Deterministic(t *testing.T) {
	place := &core.Place{
		Name:    "Quán Ốc Đêm",
		Menu:    []core.MenuItem{{Name: "Ốc hương nướng"}},
		Reviews: []core.Review{{Content: "Tươi ngon"}},
	}
	assert.Equal(t, DescriptiveText(place), DescriptiveText(place))
}

func TestDescriptiveText_MenuTruncation(t *testing.T) {
	place := &core.Place{Name: "Big Menu"}
	for i := 0; i < 50; i++ {
		place.Menu = append(place.Menu, core.MenuItem{Name: "dish"})
	}

	text := DescriptiveText(place)
	assert.Equal(t, 2*maxMenuItemsInText, strings.Count(text, "dish"))
}

func TestDescriptiveText_ReviewBudget(t *testing.T) {
	long := strings.Repeat("rất ngon ", 500)
	place := &core.Place{
		Name:    "Wordy",
		Reviews: []core.Review{{Content: long}, {Content: long}},
	}

	text := DescriptiveText(place)
	start := strings.Index(text, "Reviews: ")
	assert.GreaterOrEqual(t, start, 0)
	reviews := text[start+len("Reviews: "):]
	if idx := strings.Index(reviews, ". Address"); idx >= 0 {
		reviews = reviews[:idx]
	}
	assert.LessOrEqual(t, len(reviews), maxReviewTextChars)
}

func TestGuessCuisine(t *testing.T) {
	tests := []struct {
		name     string
		place    *core.Place
		expected string
	}{
		{
			name:     "pho from name",
			place:    &core.Place{Name: "Phở Thìn"},
			expected: "Vietnamese Pho Noodle",
		},
		{
			name:     "banh mi beats other markers",
			place:    &core.Place{Name: "Bánh Mì Huỳnh Hoa"},
			expected: "Vietnamese Sandwich",
		},
		{
			name:     "coffee from latin spelling",
			place:    &core.Place{Name: "Highlands Cafe"},
			expected: "Coffee",
		},
		{
			name:     "marker in menu only",
			place:    &core.Place{Name: "Nhà Hàng 99", Menu: []core.MenuItem{{Name: "Lẩu thái"}}},
			expected: "Hotpot",
		},
		{
			name:     "no marker falls back",
			place:    &core.Place{Name: "Some Restaurant"},
			expected: defaultCuisineGuess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, guessCuisine(tt.place))
		})
	}
}
