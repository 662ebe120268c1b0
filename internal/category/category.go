// Package category holds the fixed set of Open Trivia DB categories.
package category

import "github.com/verte-zerg/quizpick/internal/model"

// MaxCount is the largest number of questions that may be requested per category.
const MaxCount = 50

var all = []model.Category{
	{Name: "General Knowledge", ID: 9},
	{Name: "Books", ID: 10},
	{Name: "Film", ID: 11},
	{Name: "Music", ID: 12},
	{Name: "Musicals & Theatres", ID: 13},
	{Name: "Television", ID: 14},
	{Name: "Video Games", ID: 15},
	{Name: "Board Games", ID: 16},
	{Name: "Science & Nature", ID: 17},
	{Name: "Computers", ID: 18},
	{Name: "Mathematics", ID: 19},
	{Name: "Mythology", ID: 20},
	{Name: "Sports", ID: 21},
	{Name: "Geography", ID: 22},
	{Name: "History", ID: 23},
	{Name: "Politics", ID: 24},
	{Name: "Art", ID: 25},
	{Name: "Celebrities", ID: 26},
	{Name: "Animals", ID: 27},
	{Name: "Vehicles", ID: 28},
	{Name: "Comics", ID: 29},
	{Name: "Gadgets", ID: 30},
	{Name: "Anime & Manga", ID: 31},
	{Name: "Cartoon & Animations", ID: 32},
}

var byName = func() map[string]model.Category {
	m := make(map[string]model.Category, len(all))
	for _, c := range all {
		m[c.Name] = c
	}
	return m
}()

// All returns every category in display order.
func All() []model.Category {
	return append([]model.Category(nil), all...)
}

// Lookup returns the category with the given name.
func Lookup(name string) (model.Category, bool) {
	c, ok := byName[name]
	return c, ok
}

// Names returns category names in display order.
func Names() []string {
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name
	}
	return names
}

// Clamp bounds a requested count to [0, MaxCount].
func Clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}
