package challenge

type CreateChallengeRequest struct {
	Title    string   `json:"title"`
	Category Category `json:"category"`
}

type ReflectRequest struct {
	Text string `json:"text"`
	// Publish overrides the configured feed publishing policy when set.
	Publish *bool `json:"publish,omitempty"`
}

type ChallengeBoard struct {
	Active    []Challenge `json:"active"`
	Completed []Challenge `json:"completed"`
}
