package planet

// Planet is a habitable catalog entry. Entries are written once by the
// loader and never mutated or deleted.
type Planet struct {
	KeplerName string `json:"keplerName"`
}

// Row is a parsed dataset record with the columns the habitability rule reads.
type Row struct {
	Name           string
	Disposition    string
	InsolationFlux float64
	Radius         float64
}

// LoadStats summarises a catalog load.
type LoadStats struct {
	Rows      int `json:"rows"`
	Habitable int `json:"habitable"`
	Inserted  int `json:"inserted"`
	Failed    int `json:"failed"`
}
