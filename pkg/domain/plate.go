package domain

// PlateLetters is the fixed alphabet of sixteen letters permitted on a
// license plate, in the order they are presented to the user.
var PlateLetters = []string{ //nolint: gochecknoglobals
	"ب", "د", "ع", "ح", "ج", "ل", "م", "ن",
	"ق", "ص", "س", "ط", "ت", "و", "ی", "ز",
}

// PlateRecord is a structured license-plate identifier. The JSON tags match
// the backend's wire names, so embedding a PlateRecord flattens the four
// fields into the enclosing payload.
type PlateRecord struct {
	// RegionPrefix is the leading pair of digits.
	RegionPrefix string `json:"first2digits"`
	// Letter is a single letter drawn from PlateLetters.
	Letter string `json:"letter"`
	// SequenceNumber is the three-digit serial part.
	SequenceNumber string `json:"last3digits"`
	// CityCode is the trailing pair of digits identifying the issuing city.
	CityCode string `json:"citycode"`
}

// String renders the plate in its display order.
func (p PlateRecord) String() string {
	return p.RegionPrefix + " " + p.Letter + " " + p.SequenceNumber + " - " + p.CityCode
}

// IsZero reports whether no field of the plate has been filled in.
func (p PlateRecord) IsZero() bool {
	return p.RegionPrefix == "" && p.Letter == "" && p.SequenceNumber == "" && p.CityCode == ""
}

// RecognitionResult is the raw output of the plate recognizer. The letter may
// arrive as a Latin transliteration key (e.g. "be") rather than a native
// letter; mapping happens in the workflow layer. The value is transient and
// only exists to populate or preview a PlateRecord.
type RecognitionResult struct {
	RegionPrefix   string `json:"first2digits"`
	Letter         string `json:"letter"`
	SequenceNumber string `json:"last3digits"`
	CityCode       string `json:"citycode"`
}
