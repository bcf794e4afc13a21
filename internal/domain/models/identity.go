package models

import (
	"github.com/turtacn/fedicore/pkg/constants"
)

// IdentityURIs are the canonical URIs of a local actor.
type IdentityURIs struct {
	ActorID string
	Inbox   string
	KeyID   string
}

// DeriveIdentity computes the canonical URIs of username on domain.
// domain is an origin such as "https://example.com" with no trailing slash.
func DeriveIdentity(domain, username string) IdentityURIs {
	actorID := domain + "/" + constants.UsersPathSegment + "/" + username
	return IdentityURIs{
		ActorID: actorID,
		Inbox:   actorID + "/" + constants.InboxPathSegment,
		KeyID:   actorID + "#" + constants.MainKeyFragment,
	}
}

// NoteID returns the id of note noteID authored by this actor.
func (u IdentityURIs) NoteID(noteID string) string {
	return u.ActorID + "/" + constants.NotesPathSegment + "/" + noteID
}
