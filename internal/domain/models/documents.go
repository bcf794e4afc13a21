package models

// Actor is the ActivityPub profile document of a local account.
type Actor struct {
	Context           []string  `json:"@context"`
	ID                string    `json:"id"`
	Type              string    `json:"type"`
	PreferredUsername string    `json:"preferredUsername"`
	Inbox             string    `json:"inbox"`
	PublicKey         PublicKey `json:"publicKey"`
}

// PublicKey is the key block embedded in an Actor.
type PublicKey struct {
	ID           string `json:"id"`
	Owner        string `json:"owner"`
	PublicKeyPem string `json:"publicKeyPem"`
}

// WebFinger is a JSON Resource Descriptor resolving acct:user@host to an actor.
type WebFinger struct {
	Subject string   `json:"subject"`
	Aliases []string `json:"aliases"`
	Links   []Link   `json:"links"`
}

// Link is a typed relation in a WebFinger document.
type Link struct {
	Rel  string `json:"rel"`
	Type string `json:"type"`
	Href string `json:"href"`
}

// CreateActivity announces the creation of a Note.
type CreateActivity struct {
	Context string `json:"@context"`
	Type    string `json:"type"`
	ID      string `json:"id"`
	Actor   string `json:"actor"`
	Object  Note   `json:"object"`
}

// Note is a short post.
type Note struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Published    string `json:"published,omitempty"`
	AttributedTo string `json:"attributedTo"`
	To           string `json:"to"`
	Content      string `json:"content"`
	InReplyTo    string `json:"inReplyTo,omitempty"`
}
