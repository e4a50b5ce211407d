package models

// Presenter is a person who has given or will give a masterclass.
// HRCID is the external-directory identifier; unique when present.
type Presenter struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	HRCID    *int64 `json:"hrc_id,omitempty"`
	Headshot string `json:"headshot,omitempty"`
}
