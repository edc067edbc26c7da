package service

import (
	"strings"

	"github.com/iliyamo/camp-registration/internal/model"
)

// Organizers is the server-side list of emails that hold the organizer
// role.  Roles sent by clients are never trusted.
type Organizers map[string]struct{}

// NewOrganizers builds the set from emails, normalizing case and spacing.
// Blank entries are skipped.
func NewOrganizers(emails ...string) Organizers {
	set := make(Organizers, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}

// RoleFor returns the role granted to email.
func (o Organizers) RoleFor(email string) string {
	if _, ok := o[strings.ToLower(strings.TrimSpace(email))]; ok {
		return model.RoleOrganizer
	}
	return model.RoleParticipant
}
