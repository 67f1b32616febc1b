package popgen

// registry is the one ordered, identifier-indexed collection used at every
// level of the hierarchy (localities, groups, individuals, loci). Items keep
// insertion order; the index maps an identifier to its current position.
type registry[K comparable, V any] struct {
	items []V
	index map[K]int
	key   func(V) K
}

func newRegistry[K comparable, V any](key func(V) K) registry[K, V] {
	return registry[K, V]{
		index: make(map[K]int),
		key:   key,
	}
}

func (r *registry[K, V]) Len() int {
	return len(r.items)
}

func (r *registry[K, V]) has(k K) bool {
	_, ok := r.index[k]
	return ok
}

// add appends v unless its identifier is already present.
func (r *registry[K, V]) add(v V) bool {
	k := r.key(v)
	if r.has(k) {
		return false
	}
	r.index[k] = len(r.items)
	r.items = append(r.items, v)
	return true
}

func (r *registry[K, V]) inRange(pos int) bool {
	return pos >= 0 && pos < len(r.items)
}

func (r *registry[K, V]) at(pos int) (V, bool) {
	if !r.inRange(pos) {
		var zero V
		return zero, false
	}
	return r.items[pos], true
}

func (r *registry[K, V]) position(k K) (int, bool) {
	pos, ok := r.index[k]
	return pos, ok
}

func (r *registry[K, V]) get(k K) (V, bool) {
	pos, ok := r.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return r.items[pos], true
}

// removeAt deletes and returns the item at pos. The caller checks bounds.
func (r *registry[K, V]) removeAt(pos int) V {
	v := r.items[pos]
	delete(r.index, r.key(v))

	copy(r.items[pos:], r.items[pos+1:])
	var zero V
	r.items[len(r.items)-1] = zero
	r.items = r.items[:len(r.items)-1]

	for i := pos; i < len(r.items); i++ {
		r.index[r.key(r.items[i])] = i
	}

	return v
}

func (r *registry[K, V]) keys() []K {
	out := make([]K, 0, len(r.items))
	for _, v := range r.items {
		out = append(out, r.key(v))
	}
	return out
}

func (r *registry[K, V]) clone(copyItem func(V) V) registry[K, V] {
	out := newRegistry[K, V](r.key)
	out.items = make([]V, 0, len(r.items))
	for _, v := range r.items {
		out.add(copyItem(v))
	}
	return out
}
