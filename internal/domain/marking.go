package domain

// MarkingInfo describes one dietary marking code from the feed's
// KENNZEICHNUNG attribute.
type MarkingInfo struct {
	Code  string `json:"code"`
	Emoji string `json:"emoji"`
	Title string `json:"title"`
}

// Markings is the legend for the dietary marking codes the feed uses.
var Markings = []MarkingInfo{
	{Code: "v", Emoji: "🥕", Title: "Vegetarisch"},
	{Code: "x", Emoji: "🥦", Title: "Vegan"},
	{Code: "g", Emoji: "🐔", Title: "Geflügel"},
	{Code: "s", Emoji: "🐷", Title: "Schwein"},
	{Code: "f", Emoji: "🐟", Title: "Fisch"},
	{Code: "r", Emoji: "🐮", Title: "Rind"},
	{Code: "a", Emoji: "🍺", Title: "Alkohol"},
	{Code: "26", Emoji: "🥛", Title: "Milch"},
	{Code: "22", Emoji: "🥚", Title: "Ei"},
	{Code: "20a", Emoji: "🌾", Title: "Weizen"},
}
