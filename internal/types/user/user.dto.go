package user

// UpdateUserRequest is a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	IsOnboarded *bool `json:"isOnboarded,omitempty"`
	IsRestMode  *bool `json:"isRestMode,omitempty"`
}

func (r *UpdateUserRequest) Apply(u *User) {
	if r.IsOnboarded != nil {
		u.IsOnboarded = *r.IsOnboarded
	}
	if r.IsRestMode != nil {
		u.IsRestMode = *r.IsRestMode
	}
}
