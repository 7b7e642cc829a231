package main

import (
	"sort"

	"github.com/provide-io/fox5/go/fox5/pkg/fox5"
)

// usedImages returns the sorted, de-duplicated image ids referenced by
// channels that point inside the image list
func usedImages(f *fox5.File) []int {
	seen := map[int]bool{}
	for _, obj := range f.Objects {
		for _, shape := range obj.Shapes {
			for _, frame := range shape.Frames {
				for _, ch := range frame.Channels {
					if id := int(ch.ImageID); id < f.ImageCount() {
						seen[id] = true
					}
				}
			}
		}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
