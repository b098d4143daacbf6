package agenda

// DefaultColor is used for bookings past the end of Palette
const DefaultColor = "#9e9e9e"

// Palette colors bookings by their position in the day's booking list
var Palette = []string{
	"#4caf50",
	"#2196f3",
	"#ff9800",
	"#9c27b0",
	"#f44336",
	"#009688",
	"#3f51b5",
	"#cddc39",
	"#795548",
	"#e91e63",
}

// ColorFor returns the palette color for a booking index
func ColorFor(index int) string {
	if index < 0 || index >= len(Palette) {
		return DefaultColor
	}
	return Palette[index]
}
