package logger

// ANSI colors of each level. ColorNC resets.
const (
	ColorNC        = "\x1b[0m"
	ColorRed       = "\x1b[0;31m" // errors
	ColorLightRed  = "\x1b[1;31m" // warnings
	ColorGreen     = "\x1b[0;32m" // headings
	ColorCyan      = "\x1b[0;36m" // info
	ColorLightGrey = "\x1b[0;37m" // debug
)
