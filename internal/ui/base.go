package ui

// Box is an outer size in terminal cells.
type Box struct {
	Width, Height int
}

// Inner is the area left inside a rounded border.
func (b Box) Inner() Box {
	return Box{Width: max(b.Width-2*BorderSize, 0), Height: max(b.Height-2*BorderSize, 0)}
}

// Base holds the size and focus of a bordered panel. Panels embed it.
type Base struct {
	box     Box
	focused bool
}

func (b *Base) SetSize(width, height int) { b.box = Box{Width: width, Height: height} }

func (b *Base) SetFocused(focused bool) { b.focused = focused }

func (b Base) IsFocused() bool { return b.focused }

func (b Base) Width() int { return b.box.Width }

func (b Base) Height() int { return b.box.Height }

// Inner is the panel area inside its border.
func (b Base) Inner() Box { return b.box.Inner() }

// ListHeight is the number of list rows below the panel title and rule.
func (b Base) ListHeight() int {
	return max(b.Inner().Height-TitleRows, 0)
}
