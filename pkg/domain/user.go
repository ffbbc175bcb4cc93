package domain

// User roles as reported by the backend's user-info endpoint.
const (
	RoleOfficer = "officer"
	RoleOwner   = "owner"
)

// User is an authenticated account, either a vehicle owner or an enforcement
// officer.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"fname"`
	LastName   string `json:"lname"`
	NationalID string `json:"codeMeli"`
	Role       string `json:"userType"`

	// Vehicles is populated for owner accounts only.
	Vehicles []Vehicle `json:"vehicles,omitempty"`
}

// Registration is the payload for creating a new account.
type Registration struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	FirstName  string `json:"fname"`
	LastName   string `json:"lname"`
	NationalID string `json:"codeMeli"`
	UserType   string `json:"userType"`
	Phone      string `json:"phoneNumber"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
}
