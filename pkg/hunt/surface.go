package hunt

// Rect is an axis-aligned rectangle in arena pixels
type Rect struct {
	X, Y, W, H int
}

// Color is a named paint color
type Color string

const (
	ColorLightBlue Color = "lightblue"
	ColorBlack     Color = "black"
	ColorGreen     Color = "green"
)

// FontSize is the size every step text is drawn at
const FontSize = 14

// Surface is an immediate-mode drawing target
type Surface interface {
	Clear()
	FillRect(r Rect, c Color)
	StrokeRect(r Rect, c Color)
	DrawText(text string, x, y, fontSize int)
}
