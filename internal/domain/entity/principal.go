package entity

// Principal is the authenticated user as described by the identity provider.
type Principal struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Username  string
	ImageURL  string
}

// DisplayName returns "first last", then first name, then username, then "User".
func (p Principal) DisplayName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	case p.Username != "":
		return p.Username
	default:
		return "User"
	}
}
