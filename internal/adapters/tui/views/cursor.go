package views

import "github.com/charmbracelet/bubbles/paginator"

const defaultPageSize = 20

// rowCursor is the selected row of the flattened tree plus the page it is on.
// Moving the cursor across a page boundary turns the page.
type rowCursor struct {
	pages paginator.Model
	index int
	total int
}

func newRowCursor(pageSize int) *rowCursor {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = pageSize
	return &rowCursor{pages: p}
}

// setTotal changes the row count and keeps the cursor on a valid row
func (c *rowCursor) setTotal(total int) {
	c.total = total
	if total == 0 {
		c.pages.TotalPages = 1
	} else {
		c.pages.SetTotalPages(total)
	}
	c.moveTo(c.index)
}

func (c *rowCursor) moveTo(i int) {
	if i >= c.total {
		i = c.total - 1
	}
	if i < 0 {
		i = 0
	}
	c.index = i
	c.pages.Page = i / c.pages.PerPage
}

func (c *rowCursor) up()   { c.moveTo(c.index - 1) }
func (c *rowCursor) down() { c.moveTo(c.index + 1) }

// nextPage and prevPage put the cursor on the first row of the new page
func (c *rowCursor) nextPage() {
	if !c.pages.OnLastPage() {
		c.moveTo((c.pages.Page + 1) * c.pages.PerPage)
	}
}

func (c *rowCursor) prevPage() {
	if c.pages.Page > 0 {
		c.moveTo((c.pages.Page - 1) * c.pages.PerPage)
	}
}

// visible returns the half-open range of rows on the current page
func (c *rowCursor) visible() (start, end int) {
	return c.pages.GetSliceBounds(c.total)
}

func (c *rowCursor) multiPage() bool {
	return c.pages.TotalPages > 1
}

// pageLabel renders e.g. "page 2/3"
func (c *rowCursor) pageLabel() string {
	return "page " + c.pages.View()
}

func (c *rowCursor) reset() {
	c.index = 0
	c.setTotal(0)
}
