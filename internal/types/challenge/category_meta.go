package challenge

// CategoryMeta is display metadata for a category. The core rules never read it.
type CategoryMeta struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Color    string   `json:"color"`
}

var categoryMeta = map[Category]CategoryMeta{
	CategoryPositivity: {Category: CategoryPositivity, Label: "적극성", Color: "rose"},
	CategoryLearning:   {Category: CategoryLearning, Label: "배움", Color: "sky"},
	CategoryConnection: {Category: CategoryConnection, Label: "교류", Color: "emerald"},
}

func Meta(c Category) (CategoryMeta, bool) {
	m, ok := categoryMeta[c]
	return m, ok
}

func AllMeta() []CategoryMeta {
	out := make([]CategoryMeta, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, categoryMeta[c])
	}
	return out
}
