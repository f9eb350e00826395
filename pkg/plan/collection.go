package plan

// collection is an id-keyed store that remembers insertion order for z-order.
type collection[T any] struct {
	byID  map[string]T
	order []string
}

func newCollection[T any]() collection[T] {
	return collection[T]{byID: make(map[string]T)}
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.byID[id]
	return v, ok
}

func (c *collection[T]) has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// put replaces an existing entry in place or appends a new one.
func (c *collection[T]) put(id string, v T) {
	if _, ok := c.byID[id]; !ok {
		c.order = append(c.order, id)
	}
	c.byID[id] = v
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection[T]) size() int {
	return len(c.order)
}

// all returns the values in insertion order.
func (c *collection[T]) all() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *collection[T]) ids() []string {
	return append([]string{}, c.order...)
}

func (c *collection[T]) clear() {
	c.byID = make(map[string]T)
	c.order = nil
}

// clone deep-copies the collection; cp copies a single value.
func (c *collection[T]) clone(cp func(T) T) collection[T] {
	out := collection[T]{
		byID:  make(map[string]T, len(c.byID)),
		order: append([]string(nil), c.order...),
	}
	for id, v := range c.byID {
		if cp != nil {
			v = cp(v)
		}
		out.byID[id] = v
	}
	return out
}
