package types

// PackingItem is a single thing to pack.
type PackingItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Reason   string `json:"reason,omitempty"`
	IsPacked bool   `json:"isPacked"`
}

// PackingCategory groups items under a heading like "Clothing" or "Car Gear".
type PackingCategory struct {
	Name  string        `json:"name"`
	Items []PackingItem `json:"items"`
}

// PackingList is an optional enrichment generated after a trip is planned.
// Generation is best-effort: a trip without one is still complete.
type PackingList struct {
	Categories []PackingCategory `json:"categories"`
}

// Clone returns a deep copy of the packing list.
func (pl *PackingList) Clone() *PackingList {
	if pl == nil {
		return nil
	}
	out := PackingList{Categories: make([]PackingCategory, len(pl.Categories))}
	for i, cat := range pl.Categories {
		cc := cat
		cc.Items = append([]PackingItem(nil), cat.Items...)
		out.Categories[i] = cc
	}
	return &out
}

// ItemCount returns the total number of items across categories.
func (pl *PackingList) ItemCount() int {
	n := 0
	for i := range pl.Categories {
		n += len(pl.Categories[i].Items)
	}
	return n
}

// PackedCount returns how many items are already packed.
func (pl *PackingList) PackedCount() int {
	n := 0
	for _, cat := range pl.Categories {
		for _, item := range cat.Items {
			if item.IsPacked {
				n++
			}
		}
	}
	return n
}

// FindItem returns the item with the given id, or nil.
func (pl *PackingList) FindItem(id string) *PackingItem {
	for i := range pl.Categories {
		for j := range pl.Categories[i].Items {
			if pl.Categories[i].Items[j].ID == id {
				return &pl.Categories[i].Items[j]
			}
		}
	}
	return nil
}
