package components

// listCursor tracks a cursor over n rows with a fixed visible height
type listCursor struct {
	Cursor int
	Height int
}

func (c *listCursor) pageSize() int {
	size := c.Height - 3
	if size < 1 {
		size = 10
	}
	return size
}

func (c *listCursor) clamp(n int) {
	if c.Cursor >= n {
		c.Cursor = max(0, n-1)
	}
	if c.Cursor < 0 {
		c.Cursor = 0
	}
}

func (c *listCursor) up() {
	if c.Cursor > 0 {
		c.Cursor--
	}
}

func (c *listCursor) down(n int) {
	if c.Cursor < n-1 {
		c.Cursor++
	}
}

func (c *listCursor) pageUp() {
	c.Cursor -= c.pageSize()
	if c.Cursor < 0 {
		c.Cursor = 0
	}
}

func (c *listCursor) pageDown(n int) {
	c.Cursor += c.pageSize()
	c.clamp(n)
}

func (c *listCursor) last(n int) {
	c.Cursor = max(0, n-1)
}

// window returns the [start, end) range of rows to draw for n rows with
// room for visible rows.
func (c *listCursor) window(n, visible int) (int, int) {
	if visible < 1 {
		visible = 1
	}
	start := 0
	if c.Cursor >= visible {
		start = c.Cursor - visible + 1
	}
	return start, min(start+visible, n)
}
