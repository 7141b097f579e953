package model

// AdminProfile is the identity of the signed-in administrator as reported by
// the admin dashboard endpoint.
type AdminProfile struct {
	Username string
	Email    string
}
