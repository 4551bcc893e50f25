package user

// DateLayout is the calendar day format of LastActiveDate.
const DateLayout = "2006-01-02"

type User struct {
	IsOnboarded    bool   `json:"isOnboarded"`
	XP             int    `json:"xp"`
	Level          int    `json:"level"`
	IsRestMode     bool   `json:"isRestMode"`
	Streak         int    `json:"streak"`
	LastActiveDate string `json:"lastActiveDate"` // YYYY-MM-DD
}

// Default is the profile returned before anything has been stored.
func Default() User {
	return User{
		IsOnboarded:    false,
		XP:             0,
		Level:          1,
		IsRestMode:     false,
		Streak:         0,
		LastActiveDate: "",
	}
}
