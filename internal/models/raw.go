package models

// RawUser is a user record as served by the listing source. Every field may be absent;
// nested records are pointers so absence is distinguishable from an empty object.
type RawUser struct {
	ID        int         `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Age       int         `json:"age"`
	Image     string      `json:"image"`
	Username  string      `json:"username"`
	Phone     string      `json:"phone"`
	Company   *RawCompany `json:"company,omitempty"`
	Address   *RawAddress `json:"address,omitempty"`
}

type RawCompany struct {
	Department string `json:"department"`
	Title      string `json:"title"`
	Name       string `json:"name"`
}

type RawAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// UsersPage is the envelope returned by the listing endpoint. Users stays nil when the
// field is missing or not an array, which callers treat as a malformed payload.
type UsersPage struct {
	Users []RawUser `json:"users"`
	Total int       `json:"total"`
	Skip  int       `json:"skip"`
	Limit int       `json:"limit"`
}
