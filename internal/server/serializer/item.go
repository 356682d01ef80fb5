package serializer

import "github.com/mdouchement/itemstore/internal/model"

// Items renders the given items as a collection response.
func Items(items []*model.Item) any {
	if items == nil {
		items = []*model.Item{}
	}
	return map[string]any{
		"items": items,
	}
}

// Item renders the given item as a single resource response.
func Item(item *model.Item) any {
	return map[string]any{
		"item": item,
	}
}
