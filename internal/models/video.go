package models

// Video is a recorded or scheduled masterclass session.
//
// A video is "discoverable" (eligible for catalog search) only when Recording
// is non-nil. UnixStart/UnixEnd bound the scheduling window; a video is live
// while start <= now <= end and upcoming while start > now.
type Video struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	UnixStart     int64   `json:"unixstart"`
	UnixEnd       int64   `json:"unixend"`
	Stream        string  `json:"stream,omitempty"`
	Slides        string  `json:"slides,omitempty"`
	Recording     *string `json:"recording,omitempty"`
	ChatLog       string  `json:"chat_log,omitempty"`
	Thumbnails    string  `json:"thumbnails,omitempty"`
	CalendarEvent string  `json:"calendar_event,omitempty"`

	Presenters []Presenter `json:"presenters,omitempty"`
	Tags       []Tag       `json:"tags,omitempty"`
}

// Discoverable reports whether the video is visible in the catalog.
func (v *Video) Discoverable() bool {
	return v.Recording != nil
}

// Live reports whether now falls inside the scheduling window.
func (v *Video) Live(now int64) bool {
	return v.UnixStart <= now && now <= v.UnixEnd
}
