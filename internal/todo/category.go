package todo

// Category ids. All is a filter-only pseudo-category and is never stored on a Task.
const (
	CategoryAll      = "all"
	CategoryWork     = "work"
	CategoryPersonal = "personal"
	CategoryHome     = "home"
	CategoryErrands  = "errands"
)

// DefaultCategory is assigned to new tasks added while the All filter is active.
const DefaultCategory = CategoryPersonal

// Category describes one entry of the fixed category list. Icon and Color are
// tokens; renderers decide what they look like.
type Category struct {
	ID    string
	Name  string
	Icon  string
	Color string
}

var categories = []Category{
	{ID: CategoryAll, Name: "All Tasks", Icon: "coffee", Color: "purple"},
	{ID: CategoryWork, Name: "Work", Icon: "briefcase", Color: "blue"},
	{ID: CategoryPersonal, Name: "Personal", Icon: "heart", Color: "pink"},
	{ID: CategoryHome, Name: "Home", Icon: "house", Color: "green"},
	{ID: CategoryErrands, Name: "Errands", Icon: "bike", Color: "orange"},
}

// Categories returns the category list in display order, All first.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func LookupCategory(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryForNewTask maps the active filter to the category a new task gets.
func CategoryForNewTask(filter string) string {
	if filter == "" || filter == CategoryAll {
		return DefaultCategory
	}
	return filter
}
