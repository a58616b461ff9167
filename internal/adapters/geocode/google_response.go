package geocode

// Envelope returned by the Google Geocoding API (/maps/api/geocode/json).
type googleResponse struct {
	PlusCode *plusCode     `json:"plus_code"`
	Results  []placeResult `json:"results"`
	Status   string        `json:"status"`
	ErrorMsg string        `json:"error_message"`
}

type plusCode struct {
	CompoundCode string `json:"compound_code"`
	GlobalCode   string `json:"global_code"`
}

type placeResult struct {
	AddressComponents []addressComponent `json:"address_components"`
	FormattedAddress  string             `json:"formatted_address"`
	Geometry          placeGeometry      `json:"geometry"`
}

type addressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type placeGeometry struct {
	Location     *placeCoordinates `json:"location"`
	LocationType string            `json:"location_type"`
	Viewport     *viewport         `json:"viewport"`
}

type placeCoordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type viewport struct {
	Northeast placeCoordinates `json:"northeast"`
	Southwest placeCoordinates `json:"southwest"`
}
