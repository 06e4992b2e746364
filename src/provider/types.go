package provider

import (
	"fmt"
	"strconv"
)

// Server is one configured CI server. Token never leaves the process.
type Server struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Token string `json:"-"`
	Type  Kind   `json:"type"`
}

// Repo identifies a repository on a server. Woodpecker 2.x addresses
// repositories by numeric ID; everything else uses owner/name.
type Repo struct {
	Owner string `json:"owner,omitempty"`
	Name  string `json:"name,omitempty"`
	ID    int64  `json:"id,omitempty"`
}

// String returns "owner/name", or the numeric ID when that is all we have.
func (r Repo) String() string {
	if r.Owner == "" && r.ID > 0 {
		return strconv.FormatInt(r.ID, 10)
	}
	return r.Owner + "/" + r.Name
}

func (r Repo) apiPath(kind Kind) string {
	if kind == KindWoodpecker && r.ID > 0 {
		return fmt.Sprintf("repos/%d", r.ID)
	}
	return fmt.Sprintf("repos/%s/%s", r.Owner, r.Name)
}
