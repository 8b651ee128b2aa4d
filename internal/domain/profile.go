package domain

// Profile holds the per-identity account data shown on the profile screen.
type Profile struct {
	Identity  string  `json:"identity"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Children  []Child `json:"children"`
	CreatedOn string  `json:"created_on"`
	UpdatedOn string  `json:"updated_on"`
}

type Child struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
}
