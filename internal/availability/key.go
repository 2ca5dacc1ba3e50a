package availability

import (
	"sort"
)

type Kind string

const (
	KindCourt     Kind = "court"
	KindCoach     Kind = "coach"
	KindEquipment Kind = "equipment"
)

// Key identifies one lockable resource.
type Key struct {
	Kind Kind
	ID   string
}

func (k Key) String() string {
	return string(k.Kind) + ":" + k.ID
}

func (k Key) less(o Key) bool {
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	return k.ID < o.ID
}

// SortKeys orders keys by kind, then id. Every lock acquisition follows this order.
func SortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
}
