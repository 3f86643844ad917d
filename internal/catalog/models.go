package catalog

import (
	"time"
)

// StaticCategories is the fixed part of the category set. Playlist names
// extend it at read time; see ResolveCategories.
var StaticCategories = []string{"Bollywood", "Bhojpuri DJ", "Hindi Old", "New Song"}

const (
	RoleAdmin    = "admin"
	RoleSubadmin = "subadmin"
)

// SourceRef points at a song's audio bytes: either a generated filename under
// the local songs directory, or an external URL. Exactly one side is set on a
// valid ref.
type SourceRef struct {
	Local    string
	External string
}

func (s SourceRef) Valid() bool {
	return (s.Local != "") != (s.External != "")
}

// AccessPath is the client-facing locator persisted on the song record:
// a relative stream endpoint for local files, the raw URL otherwise.
func (s SourceRef) AccessPath() string {
	if s.Local != "" {
		return "/stream/" + s.Local
	}
	return s.External
}

type Song struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Category   string    `json:"category"`
	File       string    `json:"file"`
	Filename   *string   `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Playlist carries its member songs fully expanded; list and add responses
// always return the join, never bare identifiers.
type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Songs     []Song    `json:"songs"`
	CreatedAt time.Time `json:"createdAt"`
}

type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Blocked  bool   `json:"blocked"`
}

// Listener is a mobile app user registered through Google sign-in. Listeners
// never pass the credential gate; the record is profile bookkeeping only.
type Listener struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	PhotoURL   string    `json:"photoUrl,omitempty"`
	GoogleID   string    `json:"googleId"`
	DeviceInfo string    `json:"deviceInfo,omitempty"`
	LoginAt    time.Time `json:"loginAt"`
}
