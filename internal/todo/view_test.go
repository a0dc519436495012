package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleTasks() []Task {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return []Task{
		{ID: "1", Text: "Buy Milk", Category: CategoryErrands, CreatedAt: base},
		{ID: "2", Text: "Write report", Category: CategoryWork, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "3", Text: "milk the cow", Category: CategoryHome, CreatedAt: base.Add(time.Hour), Completed: true},
		{ID: "4", Text: "Plan sprint", Category: CategoryWork, CreatedAt: base.Add(3 * time.Hour)},
	}
}

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestView(t *testing.T) {
	tests := []struct {
		name     string
		category string
		query    string
		want     []string
	}{
		{name: "all newest first", category: CategoryAll, query: "", want: []string{"4", "2", "3", "1"}},
		{name: "single category", category: CategoryWork, query: "", want: []string{"4", "2"}},
		{name: "search ignores case", category: CategoryAll, query: "milk", want: []string{"3", "1"}},
		{name: "upper case query", category: CategoryAll, query: "MILK", want: []string{"3", "1"}},
		{name: "category and search", category: CategoryErrands, query: "milk", want: []string{"1"}},
		{name: "no match", category: CategoryPersonal, query: "", want: []string{}},
		{name: "substring inside word", category: CategoryAll, query: "port", want: []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := View(sampleTasks(), tt.category, tt.query)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestView_DoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	before := ids(tasks)

	_ = View(tasks, CategoryAll, "")

	assert.Equal(t, before, ids(tasks))
}

func TestView_Empty(t *testing.T) {
	assert.Empty(t, View(nil, CategoryAll, ""))
}

func TestCounts(t *testing.T) {
	total, completed := Counts(sampleTasks())
	assert.Equal(t, 4, total)
	assert.Equal(t, 1, completed)
}

func TestCategories(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 5)
	assert.Equal(t, CategoryAll, cats[0].ID)

	cats[0].Name = "changed"
	assert.Equal(t, "All Tasks", Categories()[0].Name)

	c, ok := LookupCategory(CategoryHome)
	assert.True(t, ok)
	assert.Equal(t, "Home", c.Name)
	assert.Equal(t, "green", c.Color)

	_, ok = LookupCategory("garden")
	assert.False(t, ok)
}

func TestCategoryForNewTask(t *testing.T) {
	assert.Equal(t, CategoryPersonal, CategoryForNewTask(CategoryAll))
	assert.Equal(t, CategoryPersonal, CategoryForNewTask(""))
	assert.Equal(t, CategoryWork, CategoryForNewTask(CategoryWork))
}
