package ai

// Intent is one step of a multi-intent query: what to search for and,
// optionally, where.
type Intent struct {
	// Keyword is the search text for this step, stripped of filler words.
	// Example: "phở bò", "cafe yên tĩnh"
	Keyword string

	// Locality is an optional district or neighborhood name used as an
	// address filter. Empty when the query names no location for this step.
	// Example: "Quận 1", "Bình Thạnh"
	Locality string
}

// Localities lists the canonical district names the intent parser
// normalizes colloquial references to ("q1", "quận nhất" -> "Quận 1").
var Localities = []string{
	"Quận 1",
	"Quận 2",
	"Quận 3",
	"Quận 4",
	"Quận 5",
	"Quận 6",
	"Quận 7",
	"Quận 8",
	"Quận 9",
	"Quận 10",
	"Quận 11",
	"Quận 12",
	"Bình Thạnh",
	"Bình Tân",
	"Gò Vấp",
	"Phú Nhuận",
	"Tân Bình",
	"Tân Phú",
	"Thủ Đức",
}
