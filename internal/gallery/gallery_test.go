package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLock struct {
	acquired int
	released int
}

func (l *countingLock) Acquire() func() {
	l.acquired++
	return func() { l.released++ }
}

func (l *countingLock) held() bool {
	return l.acquired > l.released
}

func refs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('A' + i))
	}
	return out
}

func TestNextCyclesBackToStart(t *testing.T) {
	for n := 2; n <= 6; n++ {
		for start := 0; start < n; start++ {
			c := New(refs(n))
			require.True(t, c.JumpTo(start))
			for i := 0; i < n; i++ {
				c.Next()
			}
			assert.Equal(t, start, c.Cursor(), "n=%d start=%d", n, start)
		}
	}
}

func TestNextPreviousAreInverse(t *testing.T) {
	for n := 2; n <= 5; n++ {
		for start := 0; start < n; start++ {
			c := New(refs(n))
			c.JumpTo(start)
			c.Next()
			c.Previous()
			assert.Equal(t, start, c.Cursor())
			c.Previous()
			c.Next()
			assert.Equal(t, start, c.Cursor())
		}
	}
}

func TestNavigationIgnoredForSmallGalleries(t *testing.T) {
	for _, n := range []int{0, 1} {
		c := New(refs(n))
		c.Next()
		c.Previous()
		c.Drag(-200)
		c.Drag(200)
		assert.Equal(t, 0, c.Cursor())
		assert.False(t, c.Navigable())
		assert.Empty(t, c.Indicator())
	}
}

func TestWraparoundScenario(t *testing.T) {
	c := New([]string{"A", "B", "C"})
	steps := []struct {
		op   func()
		want string
	}{
		{c.Next, "B"},
		{c.Next, "C"},
		{c.Next, "A"},
		{c.Previous, "C"},
	}
	for i, step := range steps {
		step.op()
		got, ok := c.Current()
		require.True(t, ok)
		assert.Equal(t, step.want, got, "step %d", i)
	}
	assert.Equal(t, "3 / 3", c.Indicator())
}

func TestJumpToIgnoresOutOfRange(t *testing.T) {
	c := New(refs(3))
	c.JumpTo(1)
	assert.False(t, c.JumpTo(-1))
	assert.False(t, c.JumpTo(3))
	assert.Equal(t, 1, c.Cursor())
	assert.True(t, c.JumpTo(2))
	assert.Equal(t, 2, c.Cursor())

	empty := New(nil)
	assert.False(t, empty.JumpTo(0))
}

func TestOpenClosePreservesCursor(t *testing.T) {
	lock := &countingLock{}
	c := New(refs(4), WithScrollLock(lock))
	c.JumpTo(2)

	require.True(t, c.Open())
	assert.Equal(t, Fullscreen, c.State())
	assert.True(t, lock.held())
	c.Next()
	c.Next()
	c.Previous()
	want := c.Cursor()
	require.True(t, c.Close())
	assert.Equal(t, want, c.Cursor())
	assert.False(t, lock.held())

	require.True(t, c.Open())
	assert.Equal(t, want, c.Cursor())
}

func TestSingleImageOpensButNeverMoves(t *testing.T) {
	c := New([]string{"A"})
	require.True(t, c.Open())
	c.Next()
	assert.Equal(t, 0, c.Cursor())
	require.True(t, c.Close())
	assert.Equal(t, 0, c.Cursor())
	assert.Equal(t, Inline, c.State())
}

func TestEmptyGalleryNeverOpens(t *testing.T) {
	lock := &countingLock{}
	c := New(nil, WithScrollLock(lock))
	assert.False(t, c.Open())
	assert.False(t, c.Tap())
	assert.Equal(t, Inline, c.State())
	assert.Zero(t, lock.acquired)
	_, ok := c.Current()
	assert.False(t, ok)
}

func TestScrollLockReleasedOnEveryExitPath(t *testing.T) {
	exits := map[string]func(c *Controller){
		"close":   func(c *Controller) { c.Close() },
		"escape":  func(c *Controller) { c.HandleKey(KeyEscape) },
		"release": func(c *Controller) { c.Release() },
		"emptied": func(c *Controller) { c.Replace(nil) },
	}
	for name, exit := range exits {
		t.Run(name, func(t *testing.T) {
			lock := &countingLock{}
			c := New(refs(2), WithScrollLock(lock))
			c.Open()
			c.Open()
			exit(c)
			c.Close()
			c.Release()
			assert.Equal(t, 1, lock.acquired)
			assert.Equal(t, 1, lock.released)
			assert.False(t, c.IsOpen())
		})
	}
}

func TestDragThreshold(t *testing.T) {
	c := New(refs(3), WithDragThreshold(6))
	assert.Equal(t, 6, c.DragThreshold())

	assert.False(t, c.Drag(5))
	assert.False(t, c.Drag(-5))
	assert.False(t, c.Drag(0))
	assert.Equal(t, 0, c.Cursor())
	assert.Equal(t, Inline, c.State())

	assert.True(t, c.Drag(-6))
	assert.Equal(t, 1, c.Cursor())
	assert.True(t, c.Drag(9))
	assert.Equal(t, 0, c.Cursor())
	assert.True(t, c.Drag(6))
	assert.Equal(t, 2, c.Cursor())

	ignored := New(refs(2), WithDragThreshold(0))
	assert.Equal(t, DefaultDragThreshold, ignored.DragThreshold())
}

func TestPointerTapOpensOnlyInline(t *testing.T) {
	c := New(refs(3), WithDragThreshold(4))
	c.Pointer(2)
	assert.True(t, c.IsOpen())
	assert.Equal(t, 0, c.Cursor())

	c.Pointer(1)
	assert.True(t, c.IsOpen())
	c.Pointer(-4)
	assert.Equal(t, 1, c.Cursor())
	assert.True(t, c.IsOpen())
}

func TestKeysIgnoredWhileInline(t *testing.T) {
	c := New(refs(3))
	c.JumpTo(1)
	for _, key := range []Key{KeyLeft, KeyRight, KeyEscape} {
		assert.False(t, c.HandleKey(key))
	}
	assert.Equal(t, 1, c.Cursor())
	assert.Equal(t, Inline, c.State())

	c.Open()
	assert.True(t, c.HandleKey(KeyRight))
	assert.Equal(t, 2, c.Cursor())
	assert.True(t, c.HandleKey(KeyLeft))
	assert.True(t, c.HandleKey(KeyLeft))
	assert.Equal(t, 0, c.Cursor())
	assert.True(t, c.HandleKey(KeyEscape))
	assert.Equal(t, Inline, c.State())
	assert.Equal(t, 0, c.Cursor())
}

func TestReplaceClampsCursor(t *testing.T) {
	c := New(refs(5))
	c.JumpTo(4)
	c.Replace(refs(2))
	assert.Equal(t, 1, c.Cursor())
	c.Replace(refs(6))
	assert.Equal(t, 1, c.Cursor())
	c.Replace(nil)
	assert.Equal(t, 0, c.Cursor())
}

func TestImagesIsACopy(t *testing.T) {
	src := []string{"A", "B"}
	c := New(src)
	src[0] = "Z"
	images := c.Images()
	images[1] = "Y"
	got, _ := c.Current()
	assert.Equal(t, "A", got)
	assert.Equal(t, []string{"A", "B"}, c.Images())
}
