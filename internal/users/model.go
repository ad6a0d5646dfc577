package users

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewUser is the input to Service.AddUser.
type NewUser struct {
	Name string
}
