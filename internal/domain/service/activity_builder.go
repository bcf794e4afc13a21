package service

import (
	"time"

	"github.com/turtacn/fedicore/internal/domain/models"
	"github.com/turtacn/fedicore/pkg/constants"
)

// BuildCreateNote wraps a public Note in a Create activity authored by the actor of ids.
// The activity and the note share the id ids.NoteID(noteID). inReplyTo is omitted
// when empty; a zero published time leaves the field out.
func BuildCreateNote(ids models.IdentityURIs, noteID, content, inReplyTo string, published time.Time) *models.CreateActivity {
	actorID := ids.ActorID
	id := ids.NoteID(noteID)

	note := models.Note{
		ID:           id,
		Type:         constants.TypeNote,
		AttributedTo: actorID,
		To:           constants.PublicCollection,
		Content:      content,
		InReplyTo:    inReplyTo,
	}
	if !published.IsZero() {
		note.Published = published.UTC().Format(time.RFC3339)
	}

	return &models.CreateActivity{
		Context: constants.ActivityStreamsContext,
		Type:    constants.TypeCreate,
		ID:      id,
		Actor:   actorID,
		Object:  note,
	}
}
