package fieldpath

import (
	"strings"
	"sync"
)

// Builder accumulates a path while walking a nested specification. A pushed
// key may itself be dotted ("address.city"); Pop removes everything the
// matching Push added.
type Builder struct {
	components []string
	pushes     []int
}

// Push appends a key, splitting it on Separator.
func (b *Builder) Push(key string) {
	n := 1
	for {
		i := strings.Index(key, Separator)
		if i < 0 {
			break
		}
		b.components = append(b.components, key[:i])
		key = key[i+len(Separator):]
		n++
	}
	b.components = append(b.components, key)
	b.pushes = append(b.pushes, n)
}

// Pop undoes the most recent Push. It is a no-op on an empty builder.
func (b *Builder) Pop() {
	if len(b.pushes) == 0 {
		return
	}
	n := b.pushes[len(b.pushes)-1]
	b.pushes = b.pushes[:len(b.pushes)-1]
	b.components = b.components[:len(b.components)-n]
}

// Depth returns the number of outstanding pushes, i.e. the nesting level.
func (b *Builder) Depth() int {
	return len(b.pushes)
}

// Len returns the number of path components accumulated so far.
func (b *Builder) Len() int {
	return len(b.components)
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.components = b.components[:0]
	b.pushes = b.pushes[:0]
}

// String returns the dotted form of the accumulated components, without
// validating them.
func (b *Builder) String() string {
	return strings.Join(b.components, Separator)
}

// Path validates the accumulated components and returns them as a Path.
// The components are copied, so the builder may keep changing afterwards.
func (b *Builder) Path() (Path, error) {
	return New(b.components...)
}

const (
	defaultBuilderCap = 8
	maxBuilderCap     = 64
)

var builderPool = sync.Pool{
	New: func() any {
		return &Builder{
			components: make([]string, 0, defaultBuilderCap),
			pushes:     make([]int, 0, defaultBuilderCap),
		}
	},
}

// GetBuilder takes a reset Builder from the pool.
func GetBuilder() *Builder {
	b := builderPool.Get().(*Builder)
	b.Reset()
	return b
}

// PutBuilder returns b to the pool unless it grew past the retention cap.
func PutBuilder(b *Builder) {
	if b == nil || cap(b.components) > maxBuilderCap {
		return
	}
	builderPool.Put(b)
}
