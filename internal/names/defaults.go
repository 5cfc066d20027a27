package names

// DefaultCanonical lists the cardholders on the company's cards.
var DefaultCanonical = []string{
	"Scott Sobel",
	"Clifford Sobel",
	"John Douglas Smith",
	"Michael Nicklas",
	"Paulo Passoni",
	"Antoine Colaço",
	"Carlos Costa",
	"Kelli Spangler",
}

// DefaultAliases maps known statement spellings to canonical names.
var DefaultAliases = map[string]string{
	"s. sobel":     "Scott Sobel",
	"s sobel":      "Scott Sobel",
	"s.sobel":      "Scott Sobel",
	"sobel, scott": "Scott Sobel",

	"c. sobel":        "Clifford Sobel",
	"c sobel":         "Clifford Sobel",
	"c.sobel":         "Clifford Sobel",
	"cliff sobel":     "Clifford Sobel",
	"sobel, clifford": "Clifford Sobel",

	"j. douglas smith":    "John Douglas Smith",
	"j douglas smith":     "John Douglas Smith",
	"j.douglas smith":     "John Douglas Smith",
	"j.d. smith":          "John Douglas Smith",
	"j.d smith":           "John Douglas Smith",
	"jd smith":            "John Douglas Smith",
	"john d. smith":       "John Douglas Smith",
	"john d smith":        "John Douglas Smith",
	"douglas smith":       "John Douglas Smith",
	"smith, john":         "John Douglas Smith",
	"smith, j. douglas":   "John Douglas Smith",
	"smith, john douglas": "John Douglas Smith",

	"m. nicklas":       "Michael Nicklas",
	"m nicklas":        "Michael Nicklas",
	"m.nicklas":        "Michael Nicklas",
	"mike nicklas":     "Michael Nicklas",
	"nicklas, michael": "Michael Nicklas",

	"p. passoni":     "Paulo Passoni",
	"p passoni":      "Paulo Passoni",
	"p.passoni":      "Paulo Passoni",
	"passoni, paulo": "Paulo Passoni",

	"antoine colaco":  "Antoine Colaço",
	"a. colaço":       "Antoine Colaço",
	"a. colaco":       "Antoine Colaço",
	"a colaço":        "Antoine Colaço",
	"a colaco":        "Antoine Colaço",
	"a.colaço":        "Antoine Colaço",
	"a.colaco":        "Antoine Colaço",
	"colaço, antoine": "Antoine Colaço",
	"colaco, antoine": "Antoine Colaço",

	"c. costa":      "Carlos Costa",
	"c costa":       "Carlos Costa",
	"c.costa":       "Carlos Costa",
	"costa, carlos": "Carlos Costa",

	"k. spangler":     "Kelli Spangler",
	"k spangler":      "Kelli Spangler",
	"k.spangler":      "Kelli Spangler",
	"spangler, kelli": "Kelli Spangler",
}

var defaultTable = NewTable(DefaultCanonical, DefaultAliases)

// Default returns the built-in table.
func Default() *Table {
	return defaultTable
}
